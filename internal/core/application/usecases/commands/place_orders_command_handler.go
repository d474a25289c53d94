package commands

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// PlaceOrdersResult reports the outcome of one PlaceOrdersCommand.
type PlaceOrdersResult struct {
	// Accepted orders were placed in a courier backlog.
	Accepted []*order.Order
	// Dropped orders were refused by a full courier.
	Dropped []*order.Order
	// Launched counts the drain routines started by the final launch step.
	Launched int
}

// PlaceOrdersCommandHandler turns order requests into orders, hands them to the
// dispatcher and launches every courier left holding orders.
//
// Example:
//
//	handler := NewPlaceOrdersCommandHandler(dispatcher)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	_ = dispatcher.Wait()
type PlaceOrdersCommandHandler struct {
	dispatcher Dispatcher
}

// NewPlaceOrdersCommandHandler creates a handler backed by the given dispatcher.
func NewPlaceOrdersCommandHandler(dispatcher Dispatcher) PlaceOrdersCommandHandler {
	return PlaceOrdersCommandHandler{
		dispatcher: dispatcher,
	}
}

// Handle creates one order per request, assigns them in arrival order and
// launches the remaining partially filled couriers.
// It returns without waiting for deliveries.
func (h PlaceOrdersCommandHandler) Handle(ctx context.Context, cmd PlaceOrdersCommand) (PlaceOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrdersResult{}, err
	}

	requests := cmd.Requests()
	orders := make([]*order.Order, 0, len(requests))
	for i, r := range requests {
		o, err := order.NewOrder(kernel.NewUUID(), r.Customer, r.Food, r.Drink, r.Dessert)
		if err != nil {
			return PlaceOrdersResult{}, fmt.Errorf("order %d: %w", i+1, err)
		}
		orders = append(orders, o)
	}

	assigned, err := h.dispatcher.Assign(ctx, orders)
	if err != nil {
		return PlaceOrdersResult{}, err
	}

	return PlaceOrdersResult{
		Accepted: assigned.Assigned,
		Dropped:  assigned.Dropped,
		Launched: h.dispatcher.LaunchAll(ctx),
	}, nil
}
