package console_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"fooddelivery/internal/adapters/in/console"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntake_ReadOrders(t *testing.T) {
	t.Run("should read fields in prompt order", func(t *testing.T) {
		// Given
		input := strings.Join([]string{
			"2",
			"Breakfast", "Coffee", "Vanilla ice cream", "Ana",
			"Dinner", "Lemonade", "Oreo ice cream", "Luis Perez",
		}, "\n") + "\n"
		var out bytes.Buffer

		// When
		requests, err := console.NewIntake(strings.NewReader(input), &out).ReadOrders()

		// Then
		require.NoError(t, err)
		assert.Equal(t, []commands.OrderRequest{
			{Customer: "Ana", Food: "Breakfast", Drink: "Coffee", Dessert: "Vanilla ice cream"},
			{Customer: "Luis Perez", Food: "Dinner", Drink: "Lemonade", Dessert: "Oreo ice cream"},
		}, requests)

		prompts := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		require.Len(t, prompts, 9)
		assert.Equal(t, console.PromptCount, prompts[0])
		assert.Equal(t, console.PromptFood, prompts[1])
		assert.Equal(t, console.PromptCustomer, prompts[4])
	})

	t.Run("should accept zero orders", func(t *testing.T) {
		requests, err := console.NewIntake(strings.NewReader("0\n"), io.Discard).ReadOrders()

		require.NoError(t, err)
		assert.Empty(t, requests)
	})

	t.Run("should keep empty fields as given", func(t *testing.T) {
		requests, err := console.NewIntake(strings.NewReader("1\n\n\n\nAna\n"), io.Discard).ReadOrders()

		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, commands.OrderRequest{Customer: "Ana"}, requests[0])
	})

	t.Run("should reject non numeric count", func(t *testing.T) {
		_, err := console.NewIntake(strings.NewReader("three\n"), io.Discard).ReadOrders()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject negative count", func(t *testing.T) {
		_, err := console.NewIntake(strings.NewReader("-1\n"), io.Discard).ReadOrders()

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail on truncated input", func(t *testing.T) {
		_, err := console.NewIntake(strings.NewReader("1\nBreakfast\n"), io.Discard).ReadOrders()

		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "order 1")
	})

	t.Run("should fail on input ending before a huge count is reached", func(t *testing.T) {
		// Given
		intake := console.NewIntake(strings.NewReader("999999999999999
Pizza
Soda
"), io.Discard)

		// When
		var err error
		require.NotPanics(t, func() { _, err = intake.ReadOrders() })

		// Then
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "order 1")
	})
}
