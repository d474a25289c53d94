package courier_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBacklog(t *testing.T) {
	t.Run("should create empty backlog", func(t *testing.T) {
		b, err := courier.NewBacklog(3)

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.Equal(t, 3, b.Capacity())
		assert.True(t, b.IsEmpty())
		assert.False(t, b.IsFull())
	})

	t.Run("should reject invalid capacity", func(t *testing.T) {
		for _, capacity := range []int{0, -3} {
			b, err := courier.NewBacklog(capacity)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Nil(t, b)
		}
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var b courier.Backlog

		assert.Equal(t, courier.ErrBacklogIsNotConstructed, b.Validate())
	})
}

func TestBacklog_PushPop(t *testing.T) {
	t.Run("should pop in reverse push order", func(t *testing.T) {
		// Given
		b, err := courier.NewBacklog(courier.DefaultBacklogCapacity)
		require.NoError(t, err)
		o1, o2, o3 := createValidOrder(t, "1"), createValidOrder(t, "2"), createValidOrder(t, "3")

		// When
		for _, o := range []*order.Order{o1, o2, o3} {
			require.NoError(t, b.Push(o))
		}

		// Then
		assert.True(t, b.IsFull())
		for _, expected := range []*order.Order{o3, o2, o1} {
			got, popErr := b.Pop()
			require.NoError(t, popErr)
			assert.True(t, got.IsEqual(expected))
		}
		assert.True(t, b.IsEmpty())
	})

	t.Run("should never exceed capacity", func(t *testing.T) {
		b, err := courier.NewBacklog(courier.DefaultBacklogCapacity)
		require.NoError(t, err)

		for i := range 5 {
			pushErr := b.Push(createValidOrder(t, "Ana"))
			if i < courier.DefaultBacklogCapacity {
				require.NoError(t, pushErr)
			} else {
				require.ErrorIs(t, pushErr, courier.ErrBacklogIsFull)
			}
			assert.LessOrEqual(t, b.Len(), courier.DefaultBacklogCapacity)
		}
	})

	t.Run("should return error when popping empty backlog", func(t *testing.T) {
		b, err := courier.NewBacklog(1)
		require.NoError(t, err)

		o, popErr := b.Pop()

		require.ErrorIs(t, popErr, courier.ErrBacklogIsEmpty)
		assert.Nil(t, o)
	})

	t.Run("should return a detached copy of orders", func(t *testing.T) {
		b, err := courier.NewBacklog(2)
		require.NoError(t, err)
		require.NoError(t, b.Push(createValidOrder(t, "Ana")))

		orders := b.Orders()
		orders[0] = nil

		assert.NotNil(t, b.Orders()[0])
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", courier.Idle.String())
	assert.Equal(t, "Filling", courier.Filling.String())
	assert.Equal(t, "Draining", courier.Draining.String())
	assert.Equal(t, "Unknown", courier.State(9).String())
}

func TestTransit(t *testing.T) {
	t.Run("fixed transit is deterministic", func(t *testing.T) {
		transit := courier.FixedTransit(time.Second)

		assert.Equal(t, time.Second, transit())
		assert.Equal(t, time.Second, transit())
	})

	t.Run("jittered transit stays within bounds", func(t *testing.T) {
		transit := courier.JitteredTransit(5*time.Second, 25*time.Second)

		for range 100 {
			d := transit()
			assert.GreaterOrEqual(t, d, 5*time.Second)
			assert.Less(t, d, 30*time.Second)
		}
	})

	t.Run("jittered transit without spread is fixed", func(t *testing.T) {
		assert.Equal(t, time.Second, courier.JitteredTransit(time.Second, 0)())
	})
}
