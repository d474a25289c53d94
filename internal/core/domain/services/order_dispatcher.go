package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/gate"

	"golang.org/x/sync/errgroup"
)

// Dispatcher errors.
var (
	// ErrNoCouriers is returned when orders are assigned before any courier exists.
	ErrNoCouriers = errors.New("no couriers created")
	// ErrCouriersAlreadyCreated is returned when CreateCouriers is called twice.
	ErrCouriersAlreadyCreated = errors.New("couriers already created")
)

// DispatcherConfig configures the couriers created by an OrderDispatcher.
// Zero values fall back to the courier package defaults.
type DispatcherConfig struct {
	// Transit is the simulated delay before each delivery.
	Transit courier.Transit
	// Observer receives every delivery record.
	Observer courier.Observer
	// BacklogCapacity overrides courier.DefaultBacklogCapacity when positive.
	BacklogCapacity int
	// Gate replaces the shared delivery gate; mostly useful for instrumentation.
	Gate courier.Gate
	Logger *slog.Logger
}

// AssignResult lists what happened to each order handed to Assign.
type AssignResult struct {
	// Assigned orders sit in some courier backlog.
	Assigned []*order.Order
	// Dropped orders were rejected by a full (or refusing) courier and are lost.
	Dropped []*order.Order
}

// OrderDispatcher is a domain service that owns a fixed pool of couriers sharing
// one delivery gate, distributes orders among them and launches their drains.
//
// Key responsibilities:
//   - Creating the couriers with a single shared delivery gate
//   - Round-robin assignment: fill the current courier to capacity, then advance
//   - Launching every courier left with a partial backlog, without double launches
//   - Joining all launched drain routines on request
//
// Business rules:
//   - The cursor starts at the first courier and persists across Assign calls
//   - After each order, the cursor advances when the current courier sits at capacity
//   - An order offered to a full courier is dropped, not queued or redirected
//
// Example usage:
//
//	d := services.NewOrderDispatcher(services.DispatcherConfig{Observer: printer})
//	if err := d.CreateCouriers(3); err != nil {
//	    return err
//	}
//	result, err := d.Assign(ctx, orders)
//	d.LaunchAll(ctx)
//	err = d.Wait()
type OrderDispatcher struct {
	cfg    DispatcherConfig
	gate   courier.Gate
	logger *slog.Logger

	// group tracks every drain routine started by this dispatcher's couriers
	group errgroup.Group

	mu       sync.Mutex
	couriers []*courier.Courier
	cursor   int
}

// NewOrderDispatcher creates a dispatcher without couriers.
func NewOrderDispatcher(cfg DispatcherConfig) *OrderDispatcher {
	d := &OrderDispatcher{
		cfg:    cfg,
		gate:   cfg.Gate,
		logger: cfg.Logger,
	}
	if d.gate == nil {
		d.gate = gate.New()
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("component", "order_dispatcher")
	return d
}

// CreateCouriers instantiates n couriers named Courier1..CourierN that share the
// dispatcher's delivery gate.
//
// Returns:
//   - error: out-of-range error when n < 1, ErrCouriersAlreadyCreated on a second call,
//     or a courier construction error
func (d *OrderDispatcher) CreateCouriers(n int) error {
	if n < 1 {
		return errs.NewValueIsOutOfRangeError("couriers", n, 1, "unbounded")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.couriers) > 0 {
		return ErrCouriersAlreadyCreated
	}

	opts := []courier.Option{
		courier.WithScheduler(&d.group),
		courier.WithLogger(d.cfg.Logger),
		courier.WithTransit(d.cfg.Transit),
		courier.WithObserver(d.cfg.Observer),
	}
	if d.cfg.BacklogCapacity > 0 {
		opts = append(opts, courier.WithBacklogCapacity(d.cfg.BacklogCapacity))
	}

	couriers := make([]*courier.Courier, 0, n)
	for i := range n {
		c, err := courier.NewCourier(kernel.NewUUID(), fmt.Sprintf("Courier%d", i+1), i, d.gate, opts...)
		if err != nil {
			return err
		}
		couriers = append(couriers, c)
	}

	d.couriers = couriers
	d.cursor = 0
	d.logger.Info("couriers created", "count", n)
	return nil
}

// Assign distributes orders in arrival order.
//
// Each order is offered to the courier under the cursor. A courier that is full
// rejects the order, which is dropped. After every offer the cursor moves to the
// next courier (wrapping around) when the current one sits at capacity. Filling a
// courier starts its drain immediately, as documented on courier.AddOrder.
//
// Returns:
//   - AssignResult: which orders were placed and which were dropped
//   - error: ErrNoCouriers if CreateCouriers has not run
func (d *OrderDispatcher) Assign(ctx context.Context, orders []*order.Order) (AssignResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result AssignResult
	if len(d.couriers) == 0 {
		return result, ErrNoCouriers
	}

	for _, o := range orders {
		c := d.couriers[d.cursor]

		filled, err := c.AddOrder(ctx, o)
		switch {
		case err == nil:
			result.Assigned = append(result.Assigned, o)
		case errors.Is(err, courier.ErrBacklogIsFull):
			result.Dropped = append(result.Dropped, o)
			d.logger.WarnContext(ctx, "courier is full, order dropped",
				"courier", c.Name(), "order_id", orderID(o))
		default:
			result.Dropped = append(result.Dropped, o)
			d.logger.WarnContext(ctx, "order rejected", "courier", c.Name(), "error", err)
		}

		if filled || errors.Is(err, courier.ErrBacklogIsFull) {
			d.cursor = (d.cursor + 1) % len(d.couriers)
		}
	}

	d.logger.InfoContext(ctx, "orders assigned",
		"assigned", len(result.Assigned), "dropped", len(result.Dropped))
	return result, nil
}

// LaunchAll starts the drain routine of every courier that holds orders and is
// not draining yet. It returns how many work units were started.
func (d *OrderDispatcher) LaunchAll(ctx context.Context) int {
	launched := 0
	for _, c := range d.Couriers() {
		if c.Launch(ctx) {
			launched++
		}
	}

	d.logger.InfoContext(ctx, "couriers launched", "launched", launched)
	return launched
}

// Wait blocks until every drain routine launched so far has returned.
// It returns the first drain error, if any (an interrupted gate wait).
// Without Wait, launched routines keep running unobserved.
// Wait only covers work launched before it is called: do not Assign or LaunchAll
// from another goroutine while a Wait is in progress.
func (d *OrderDispatcher) Wait() error {
	return d.group.Wait()
}

// Couriers returns the dispatcher's couriers in creation order.
func (d *OrderDispatcher) Couriers() []*courier.Courier {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*courier.Courier, len(d.couriers))
	copy(out, d.couriers)
	return out
}

// Courier finds a courier by name.
func (d *OrderDispatcher) Courier(name string) (*courier.Courier, error) {
	for _, c := range d.Couriers() {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("courier", name)
}

// Snapshot summarizes every courier.
func (d *OrderDispatcher) Snapshot() []courier.View {
	couriers := d.Couriers()
	views := make([]courier.View, 0, len(couriers))
	for _, c := range couriers {
		views = append(views, c.View())
	}
	return views
}

// Cursor returns the index of the courier that receives the next order.
func (d *OrderDispatcher) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func orderID(o *order.Order) string {
	if o.Validate() != nil {
		return ""
	}
	return o.ID().String()
}
