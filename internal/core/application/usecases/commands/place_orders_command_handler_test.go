package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/gate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Assign(ctx context.Context, orders []*order.Order) (services.AssignResult, error) {
	args := m.Called(ctx, orders)
	return args.Get(0).(services.AssignResult), args.Error(1)
}

func (m *MockDispatcher) LaunchAll(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func validRequests(n int) []commands.OrderRequest {
	requests := make([]commands.OrderRequest, 0, n)
	for range n {
		requests = append(requests, commands.OrderRequest{
			Customer: "Ana", Food: "Dinner", Drink: "Juice", Dessert: "Strawberry ice cream",
		})
	}
	return requests
}

func TestPlaceOrdersCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewPlaceOrdersCommand(validRequests(2))

	dispatcher := new(MockDispatcher)
	var assigned []*order.Order
	mock.InOrder(
		dispatcher.On("Assign", ctx, mock.AnythingOfType("[]*order.Order")).
			Run(func(args mock.Arguments) {
				assigned = args.Get(1).([]*order.Order)
			}).
			Return(services.AssignResult{}, nil).Once(),
		dispatcher.On("LaunchAll", ctx).Return(1).Once(),
	)

	h := commands.NewPlaceOrdersCommandHandler(dispatcher)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Launched)
	require.Len(t, assigned, 2)
	assert.Equal(t, "Ana", assigned[0].Customer())
	assert.Equal(t, "Strawberry ice cream", assigned[0].Dessert())
	assert.False(t, assigned[0].IsEqual(assigned[1]))
	dispatcher.AssertExpectations(t)
}

func TestPlaceOrdersCommandHandler_Handle_ValidationError(t *testing.T) {
	cmd := commands.PlaceOrdersCommand{} // not constructed properly
	dispatcher := new(MockDispatcher)

	h := commands.NewPlaceOrdersCommandHandler(dispatcher)
	_, err := h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrPlaceOrdersCommandIsNotConstructed)
	dispatcher.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything)
}

func TestPlaceOrdersCommandHandler_Handle_AssignError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewPlaceOrdersCommand(validRequests(1))
	assignErr := errors.New("assign error")

	dispatcher := new(MockDispatcher)
	dispatcher.On("Assign", ctx, mock.Anything).Return(services.AssignResult{}, assignErr).Once()

	h := commands.NewPlaceOrdersCommandHandler(dispatcher)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, assignErr)
	dispatcher.AssertNotCalled(t, "LaunchAll", mock.Anything)
}

func TestPlaceOrdersCommandHandler_Handle_WithDispatcher(t *testing.T) {
	// Given
	ctx := t.Context()
	g := gate.New()
	require.NoError(t, g.Acquire(ctx))
	d := services.NewOrderDispatcher(services.DispatcherConfig{
		Transit: courier.FixedTransit(time.Millisecond),
		Gate:    g,
	})
	require.NoError(t, d.CreateCouriers(1))

	// When
	h := commands.NewPlaceOrdersCommandHandler(d)
	result, err := h.Handle(ctx, commands.NewPlaceOrdersCommand(validRequests(5)))

	// Then
	require.NoError(t, err)
	assert.Len(t, result.Accepted, 3)
	assert.Len(t, result.Dropped, 2)
	assert.Equal(t, 0, result.Launched, "full courier was already launched on its third order")

	g.Release()
	require.NoError(t, d.Wait())
	for _, o := range result.Accepted {
		assert.True(t, o.IsDelivered())
	}
}
