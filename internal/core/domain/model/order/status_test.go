package order_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   order.Status
		expected string
	}{
		{order.Unknown, "Unknown"},
		{order.Pending, "Pending"},
		{order.Delivered, "Delivered"},
		{order.Status(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Delivered.Validate())
	require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Status(7).Validate(), errs.ErrValueIsInvalid)
}

func TestStatus_Deliver(t *testing.T) {
	t.Run("pending to delivered", func(t *testing.T) {
		next, err := order.Pending.Deliver()

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, next)
	})

	t.Run("delivered is final", func(t *testing.T) {
		_, err := order.Delivered.Deliver()

		require.ErrorIs(t, err, order.ErrOrderAlreadyDelivered)
	})

	t.Run("unknown cannot be delivered", func(t *testing.T) {
		_, err := order.Unknown.Deliver()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
