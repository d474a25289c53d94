package courier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrGateIsRequired is returned when attempting to create a courier without a delivery gate.
	ErrGateIsRequired = errs.NewValueIsRequiredError("gate")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier represents a delivery courier working through a bounded LIFO backlog.
// It is the aggregate root for backlog mutation and for the drain routine.
//
// Key responsibilities:
//   - Accepting orders into the backlog up to its capacity (3 by default)
//   - Starting its own drain routine when the backlog fills
//   - Draining the backlog under the shared delivery gate, newest order first
//   - Reporting each delivery to the configured Observer
//
// Business rules:
//   - The backlog never holds more than its capacity; extra orders are rejected
//   - A courier with an empty backlog is not busy
//   - At most one drain routine is scheduled per courier at a time
//   - The delivery gate is released on every exit path once acquired
//
// Example usage:
//
//	g := gate.New()
//	c, err := courier.NewCourier(kernel.NewUUID(), "Courier1", 0, g)
//	if err != nil {
//	    // Handle construction error
//	}
//	_ = c.AddOrder(ctx, o)
//	c.Launch(ctx) // drains in the background
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name used in delivery records
	name string
	// number is the courier's position in its dispatcher
	number int

	// gate is shared by every courier of a dispatcher
	gate Gate
	// transit yields the simulated delay before each delivery
	transit Transit
	// observer receives one record per delivered order
	observer Observer
	// scheduler runs drain routines as independent work units
	scheduler Scheduler
	logger    *slog.Logger

	// mu guards backlog, busy and state
	mu       sync.Mutex
	capacity int
	backlog  *Backlog
	busy     bool
	state    State

	guard guard.ConstructorGuard
}

// Option customizes a Courier at construction.
type Option func(*Courier)

// WithTransit sets the simulated transit delay. Defaults to FixedTransit(DefaultTransitTime).
func WithTransit(t Transit) Option {
	return func(c *Courier) {
		if t != nil {
			c.transit = t
		}
	}
}

// WithObserver sets the delivery observer. Defaults to a no-op.
func WithObserver(o Observer) Option {
	return func(c *Courier) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithScheduler sets how drain routines are started. Defaults to a bare goroutine.
func WithScheduler(s Scheduler) Option {
	return func(c *Courier) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the courier logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Courier) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBacklogCapacity overrides DefaultBacklogCapacity.
func WithBacklogCapacity(capacity int) Option {
	return func(c *Courier) {
		c.capacity = capacity
	}
}

// NewCourier creates an idle Courier sharing the given delivery gate.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - number: Position of the courier in its dispatcher (must not be negative)
//   - gate: Delivery gate shared with the other couriers (required)
//   - opts: Optional transit, observer, scheduler, logger and capacity settings
//
// Returns:
//   - *Courier: An idle courier with an empty backlog
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewCourier(id kernel.UUID, name string, number int, gate Gate, opts ...Option) (*Courier, error) {
	c := &Courier{
		transit:   FixedTransit(DefaultTransitTime),
		observer:  noopObserver{},
		scheduler: goScheduler{},
		logger:    slog.Default(),
		capacity:  DefaultBacklogCapacity,
		state:     Idle,
		guard:     guard.NewConstructorGuard(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setNumber(number),
		c.setGate(gate),
		c.setBacklog(c.capacity),
	); err != nil {
		return nil, err
	}

	c.logger = c.logger.With("component", "courier", "courier", name)
	return c, nil
}

// Validate checks if the Courier was properly constructed using the NewCourier constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by identifier.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Number() int {
	return c.number
}

// Capacity returns the backlog ceiling.
func (c *Courier) Capacity() int {
	return c.capacity
}

// HasOrders reports whether the backlog is non-empty.
func (c *Courier) HasOrders() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.backlog.IsEmpty()
}

// Pending returns the number of orders in the backlog.
func (c *Courier) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backlog.Len()
}

// IsFull reports whether the backlog sits at capacity.
func (c *Courier) IsFull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backlog.IsFull()
}

// Busy reports whether the courier still has orders to deliver.
func (c *Courier) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Courier) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View is a point-in-time summary of a courier for reporting.
type View struct {
	ID      kernel.UUID
	Name    string
	Number  int
	Pending int
	Busy    bool
	State   State
}

// View summarizes the courier under a single lock.
func (c *Courier) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		ID:      c.id,
		Name:    c.name,
		Number:  c.number,
		Pending: c.backlog.Len(),
		Busy:    c.busy,
		State:   c.state,
	}
}

// AddOrder pushes an order onto the backlog.
//
// Parameters:
//   - ctx: Context handed to the drain routine if this add starts one
//   - o: The order to carry (must be valid)
//
// Returns:
//   - bool: true when this push brought the backlog to capacity, decided under the
//     courier lock so a drain that starts right away cannot change the answer
//   - error: ErrBacklogIsFull if the backlog already sits at capacity (the order is not taken),
//     or a validation error for an invalid order
//
// Side effect:
//   - When this add brings the backlog to exactly its capacity and no drain is active,
//     the drain routine is started right away as a new work unit through the Scheduler.
func (c *Courier) AddOrder(ctx context.Context, o *order.Order) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}

	c.mu.Lock()
	if err := c.backlog.Push(o); err != nil {
		c.mu.Unlock()
		return false, err
	}

	c.busy = true
	if c.state == Idle {
		c.state = Filling
	}

	filled := c.backlog.IsFull()
	launch := filled && c.state != Draining
	if launch {
		c.state = Draining
	}
	c.mu.Unlock()

	if launch {
		c.logger.DebugContext(ctx, "backlog full, starting delivery")
		c.schedule(ctx)
	}
	return filled, nil
}

// Launch starts the drain routine as a new work unit if the backlog holds
// orders and no drain is active. It reports whether a work unit was started.
func (c *Courier) Launch(ctx context.Context) bool {
	if c.Validate() != nil {
		return false
	}

	c.mu.Lock()
	if c.backlog.IsEmpty() || c.state == Draining {
		c.mu.Unlock()
		return false
	}
	c.state = Draining
	c.mu.Unlock()

	c.schedule(ctx)
	return true
}

// DeliverAll is the drain routine.
//
// It acquires the delivery gate, then repeatedly waits the transit delay, pops the
// newest order, marks it delivered and reports it to the observer, until the
// backlog is empty. The gate is released before returning.
//
// Returns:
//   - error: the acquisition error if ctx ended while waiting for the gate; in that
//     case the gate is not held and the backlog is left undelivered
//
// Failures while delivering a single order are logged and the drain continues
// with the next one.
func (c *Courier) DeliverAll(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = Draining
	c.mu.Unlock()

	if err := c.gate.Acquire(ctx); err != nil {
		c.mu.Lock()
		c.state = restingState(c.backlog)
		pending := c.backlog.Len()
		c.mu.Unlock()

		c.logger.WarnContext(ctx, "delivery gate wait interrupted", "pending", pending, "error", err)
		return fmt.Errorf("courier %s: %w", c.name, err)
	}
	defer c.gate.Release()

	c.logger.DebugContext(ctx, "delivery gate acquired")
	for c.deliverNext(ctx) {
	}
	c.logger.DebugContext(ctx, "backlog drained, releasing delivery gate")
	return nil
}

// deliverNext delivers the top order and reports whether the loop should go on.
func (c *Courier) deliverNext(ctx context.Context) (more bool) {
	c.mu.Lock()
	if c.backlog.IsEmpty() {
		c.busy = false
		c.state = Idle
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "delivery failed, continuing with next order", "panic", r)
			more = true
		}
	}()

	time.Sleep(c.transit())

	c.mu.Lock()
	o, err := c.backlog.Pop()
	c.busy = !c.backlog.IsEmpty()
	c.mu.Unlock()
	if err != nil {
		c.logger.WarnContext(ctx, "pop from backlog failed", "error", err)
		return true
	}

	if err = o.MarkDelivered(time.Now()); err != nil {
		c.logger.WarnContext(ctx, "order not marked delivered", "order_id", o.ID().String(), "error", err)
		return true
	}

	c.observer.OnDelivered(ctx, DeliveryRecord{
		CourierID:     c.id,
		CourierName:   c.name,
		CourierNumber: c.number,
		Order:         o.Snapshot(),
	})
	return true
}

func (c *Courier) schedule(ctx context.Context) {
	c.scheduler.Go(func() error {
		return c.DeliverAll(ctx)
	})
}

func restingState(b *Backlog) State {
	if b.IsEmpty() {
		return Idle
	}
	return Filling
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *Courier) setNumber(number int) error {
	if number < 0 {
		return errs.NewValueIsOutOfRangeError("number", number, 0, "unbounded")
	}

	c.number = number
	return nil
}

func (c *Courier) setGate(gate Gate) error {
	if gate == nil {
		return ErrGateIsRequired
	}

	c.gate = gate
	return nil
}

func (c *Courier) setBacklog(capacity int) error {
	backlog, err := NewBacklog(capacity)
	if err != nil {
		return err
	}

	c.backlog = backlog
	return nil
}
