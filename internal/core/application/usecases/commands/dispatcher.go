// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, then delegation to the domain.
package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
)

// Dispatcher is the part of services.OrderDispatcher used by command handlers.
type Dispatcher interface {
	Assign(ctx context.Context, orders []*order.Order) (services.AssignResult, error)
	LaunchAll(ctx context.Context) int
}
