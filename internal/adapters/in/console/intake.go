// Package console reads orders interactively from a text stream.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/pkg/errs"
)

// Prompts, in the order they are asked.
const (
	PromptCount    = "Number of orders:"
	PromptFood     = "Enter the food (BREAKFAST, LUNCH OR DINNER):"
	PromptDrink    = "Enter the drink:"
	PromptDessert  = "Enter the ice cream:"
	PromptCustomer = "Who is the order for:"
)

// Intake asks for an order count and then for the four fields of each order.
type Intake struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewIntake(in io.Reader, out io.Writer) *Intake {
	return &Intake{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// maxPreallocatedOrders caps the capacity reserved from the typed count.
const maxPreallocatedOrders = 64

// ReadOrders returns the requests in the order they were typed.
// Field content is not validated; a negative or non-numeric count is an error.
func (i *Intake) ReadOrders() ([]commands.OrderRequest, error) {
	countLine, err := i.ask(PromptCount)
	if err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("number of orders", err)
	}
	if n < 0 {
		return nil, errs.NewValueIsOutOfRangeError("number of orders", n, 0, "unbounded")
	}

	requests := make([]commands.OrderRequest, 0, min(n, maxPreallocatedOrders))
	for idx := range n {
		var r commands.OrderRequest
		for _, field := range []struct {
			prompt string
			dst    *string
		}{
			{PromptFood, &r.Food},
			{PromptDrink, &r.Drink},
			{PromptDessert, &r.Dessert},
			{PromptCustomer, &r.Customer},
		} {
			if *field.dst, err = i.ask(field.prompt); err != nil {
				return nil, fmt.Errorf("order %d: %w", idx+1, err)
			}
		}
		requests = append(requests, r)
	}

	return requests, nil
}

func (i *Intake) ask(prompt string) (string, error) {
	if _, err := fmt.Fprintln(i.out, prompt); err != nil {
		return "", err
	}

	if !i.in.Scan() {
		if err := i.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return i.in.Text(), nil
}
