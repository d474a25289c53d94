package courier

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// DefaultBacklogCapacity is the number of orders a courier carries per trip.
const DefaultBacklogCapacity = 3

var (
	// ErrBacklogIsFull is returned when pushing onto a backlog at capacity.
	ErrBacklogIsFull = errors.New("backlog is full")
	// ErrBacklogIsEmpty is returned when popping from an empty backlog.
	ErrBacklogIsEmpty = errors.New("backlog is empty")
	// ErrBacklogIsNotConstructed is returned when using an improperly initialized Backlog.
	ErrBacklogIsNotConstructed = errors.New("Backlog must be created via NewBacklog constructor")
)

// Backlog is a bounded LIFO stack of orders waiting for delivery.
//
// Capacity is a hard ceiling: a push onto a full backlog is rejected, never queued.
// The last order pushed is the first one popped.
//
// Backlog is not safe for concurrent use; Courier guards it with its own lock.
type Backlog struct {
	capacity int
	orders   []*order.Order

	guard guard.ConstructorGuard
}

// NewBacklog creates an empty backlog holding at most capacity orders.
func NewBacklog(capacity int) (*Backlog, error) {
	if capacity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"capacity is invalid",
			fmt.Errorf("%d is not greater than 0", capacity),
		)
	}

	return &Backlog{
		capacity: capacity,
		orders:   make([]*order.Order, 0, capacity),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (b *Backlog) Validate() error {
	if b == nil {
		return ErrBacklogIsNotConstructed
	}
	return b.guard.Validate(ErrBacklogIsNotConstructed)
}

func (b *Backlog) Capacity() int {
	return b.capacity
}

func (b *Backlog) Len() int {
	return len(b.orders)
}

func (b *Backlog) IsEmpty() bool {
	return len(b.orders) == 0
}

func (b *Backlog) IsFull() bool {
	return len(b.orders) >= b.capacity
}

// Push puts o on top of the stack, or returns ErrBacklogIsFull leaving the backlog unchanged.
func (b *Backlog) Push(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if b.IsFull() {
		return ErrBacklogIsFull
	}

	b.orders = append(b.orders, o)
	return nil
}

// Pop removes and returns the most recently pushed order.
func (b *Backlog) Pop() (*order.Order, error) {
	if b.IsEmpty() {
		return nil, ErrBacklogIsEmpty
	}

	last := len(b.orders) - 1
	o := b.orders[last]
	b.orders[last] = nil
	b.orders = b.orders[:last]
	return o, nil
}

// Orders returns a copy of the stacked orders, bottom first.
func (b *Backlog) Orders() []*order.Order {
	out := make([]*order.Order, len(b.orders))
	copy(out, b.orders)
	return out
}
