package commands

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

var (
	ErrPlaceOrdersCommandIsNotConstructed = errors.New(
		"PlaceOrdersCommand must be created via NewPlaceOrdersCommand constructor",
	)
)

// OrderRequest carries the intake facts of one order, stored as given.
type OrderRequest struct {
	Customer string
	Food     string
	Drink    string
	Dessert  string
}

// PlaceOrdersCommand represents a batch of orders taken at intake, in arrival order.
//
// Example:
//
//	cmd := NewPlaceOrdersCommand([]OrderRequest{
//	    {Customer: "Ana", Food: "Breakfast", Drink: "Coffee", Dessert: "Vanilla ice cream"},
//	})
//
//	handler := NewPlaceOrdersCommandHandler(dispatcher)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to place orders: %w", err)
//	}
//	fmt.Printf("%d accepted, %d dropped", len(result.Accepted), len(result.Dropped))
type PlaceOrdersCommand struct { //nolint:recvcheck //using for validation
	requests []OrderRequest

	guard guard.ConstructorGuard
}

// NewPlaceOrdersCommand creates a command for the given requests.
// An empty batch is valid and places nothing.
func NewPlaceOrdersCommand(requests []OrderRequest) PlaceOrdersCommand {
	cmd := PlaceOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
	cmd.setRequests(requests)
	return cmd
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrdersCommandIsNotConstructed)
}

// Requests returns a copy of the order requests in arrival order.
func (c PlaceOrdersCommand) Requests() []OrderRequest {
	out := make([]OrderRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

func (c *PlaceOrdersCommand) setRequests(requests []OrderRequest) {
	c.requests = make([]OrderRequest, len(requests))
	copy(c.requests, requests)
}
