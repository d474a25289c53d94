package order

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// DisplayTimeLayout is the day-first layout used when rendering order timestamps.
const DisplayTimeLayout = "02/01/2006 15:04:05"

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when using an improperly initialized Order.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrOrderAlreadyDelivered is returned when MarkDelivered is called on a delivered order.
	ErrOrderAlreadyDelivered = errors.New("order already delivered")
)

// Order represents a customer order waiting for, or done with, delivery.
//
// The intake facts are immutable. The only mutation is MarkDelivered, performed
// once by the courier that delivers the order. Reads and the delivery write are
// synchronized, so observers may render an order while its courier is still draining.
//
// Example usage:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "Ana", "Breakfast", "Coffee", "Vanilla ice cream")
//	if err != nil {
//	    // Handle construction error
//	}
//	_ = o.MarkDelivered(time.Now())
//	fmt.Print(o)
type Order struct {
	// id uniquely identifies the order
	id kernel.UUID
	// customer is the name the order was placed under
	customer string
	// food is the ordered dish or food category
	food string
	// drink is the ordered drink
	drink string
	// dessert is the ordered dessert
	dessert string
	// createdAt is stamped at construction
	createdAt time.Time

	mu sync.RWMutex
	// deliveredAt is nil until the order is delivered
	deliveredAt *time.Time
	// status tracks the Pending -> Delivered transition
	status Status

	guard guard.ConstructorGuard
}

// Snapshot is an immutable copy of an order's state at one instant.
type Snapshot struct {
	ID          kernel.UUID
	Customer    string
	Food        string
	Drink       string
	Dessert     string
	CreatedAt   time.Time
	DeliveredAt *time.Time
	Status      Status
}

// NewOrder creates a pending order stamped with the current time.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - customer, food, drink, dessert: Intake facts, stored as given
//
// Returns:
//   - *Order: A pending order with no delivery timestamp
//   - error: Validation error if the identifier is invalid
func NewOrder(id kernel.UUID, customer, food, drink, dessert string) (*Order, error) {
	o := &Order{
		customer:  customer,
		food:      food,
		drink:     drink,
		dessert:   dessert,
		createdAt: time.Now(),
		status:    Pending,
		guard:     guard.NewConstructorGuard(),
	}

	if err := o.setID(id); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate checks that the Order was created via NewOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Customer() string {
	return o.customer
}

func (o *Order) Food() string {
	return o.food
}

func (o *Order) Drink() string {
	return o.drink
}

func (o *Order) Dessert() string {
	return o.dessert
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DeliveredAt returns a copy of the delivery timestamp, or nil while pending.
func (o *Order) DeliveredAt() *time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.deliveredAt == nil {
		return nil
	}
	at := *o.deliveredAt
	return &at
}

func (o *Order) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// IsDelivered reports whether MarkDelivered has succeeded.
func (o *Order) IsDelivered() bool {
	return o.Status() == Delivered
}

// MarkDelivered records the delivery time. It succeeds at most once.
//
// Returns:
//   - ErrOrderAlreadyDelivered if the order was already delivered (the first timestamp is kept)
//   - a value-invalid error if now is before the creation timestamp
func (o *Order) MarkDelivered(now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if now.Before(o.createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery time is invalid",
			fmt.Errorf("%s is before creation time %s",
				now.Format(time.RFC3339Nano), o.createdAt.Format(time.RFC3339Nano)),
		)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveredAt = &now
	return nil
}

// Snapshot copies the current state of the order.
func (o *Order) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := Snapshot{
		ID:        o.id,
		Customer:  o.customer,
		Food:      o.food,
		Drink:     o.drink,
		Dessert:   o.dessert,
		CreatedAt: o.createdAt,
		Status:    o.status,
	}
	if o.deliveredAt != nil {
		at := *o.deliveredAt
		s.DeliveredAt = &at
	}
	return s
}

// String renders every intake field, the creation time and, only when
// present, the delivery time.
func (o *Order) String() string {
	return o.Snapshot().String()
}

func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order for %s\n", s.Customer)
	fmt.Fprintf(&b, "food %s\n", s.Food)
	fmt.Fprintf(&b, "drink %s\n", s.Drink)
	fmt.Fprintf(&b, "dessert %s\n", s.Dessert)
	fmt.Fprintf(&b, "ordered at %s\n", s.CreatedAt.Format(DisplayTimeLayout))
	if s.DeliveredAt != nil {
		fmt.Fprintf(&b, "delivered at %s\n", s.DeliveredAt.Format(DisplayTimeLayout))
	}
	return b.String()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}
