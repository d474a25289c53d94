package courier_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/gate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testTransit = time.Millisecond

// countingGate wraps the real gate and tracks how many holders it has at once.
type countingGate struct {
	inner      *gate.Gate
	holders    atomic.Int32
	maxHolders atomic.Int32
	acquired   atomic.Int32
}

func newCountingGate() *countingGate {
	return &countingGate{inner: gate.New()}
}

func (g *countingGate) Acquire(ctx context.Context) error {
	if err := g.inner.Acquire(ctx); err != nil {
		return err
	}
	n := g.holders.Add(1)
	g.acquired.Add(1)
	for {
		current := g.maxHolders.Load()
		if n <= current || g.maxHolders.CompareAndSwap(current, n) {
			return nil
		}
	}
}

func (g *countingGate) Release() {
	g.holders.Add(-1)
	g.inner.Release()
}

type recordingObserver struct {
	mu      sync.Mutex
	records []courier.DeliveryRecord
}

func (o *recordingObserver) OnDelivered(_ context.Context, record courier.DeliveryRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
}

func (o *recordingObserver) Records() []courier.DeliveryRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]courier.DeliveryRecord, len(o.records))
	copy(out, o.records)
	return out
}

func createValidOrder(t *testing.T, customer string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customer, "Dinner", "Lemonade", "Oreo ice cream")
	require.NoError(t, err)
	return o
}

// addOrder pushes o and reports whether the push filled the backlog.
func addOrder(t *testing.T, c *courier.Courier, o *order.Order) bool {
	t.Helper()
	filled, err := c.AddOrder(t.Context(), o)
	require.NoError(t, err)
	return filled
}

func createCourier(t *testing.T, g courier.Gate, opts ...courier.Option) *courier.Courier {
	t.Helper()
	opts = append([]courier.Option{courier.WithTransit(courier.FixedTransit(testTransit))}, opts...)
	c, err := courier.NewCourier(kernel.NewUUID(), "Courier1", 0, g, opts...)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestNewCourier(t *testing.T) {
	t.Run("should create idle courier with default capacity", func(t *testing.T) {
		id := kernel.NewUUID()

		c, err := courier.NewCourier(id, "Courier1", 0, gate.New())

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(id))
		assert.Equal(t, "Courier1", c.Name())
		assert.Equal(t, 0, c.Number())
		assert.Equal(t, courier.DefaultBacklogCapacity, c.Capacity())
		assert.False(t, c.HasOrders())
		assert.False(t, c.Busy())
		assert.Equal(t, courier.Idle, c.State())
	})

	t.Run("should aggregate validation errors", func(t *testing.T) {
		c, err := courier.NewCourier(kernel.UUID{}, "", -1, nil)

		require.Error(t, err)
		assert.Nil(t, c)
		require.ErrorIs(t, err, courier.ErrNameIsRequired)
		require.ErrorIs(t, err, courier.ErrGateIsRequired)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject non positive capacity", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.NewUUID(), "Courier1", 0, gate.New(), courier.WithBacklogCapacity(0))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var c courier.Courier

		assert.Equal(t, courier.ErrCourierIsNotConstructed, c.Validate())
		_, err := c.AddOrder(t.Context(), createValidOrder(t, "Ana"))
		require.ErrorIs(t, err, courier.ErrCourierIsNotConstructed)
		assert.False(t, c.Launch(t.Context()))
	})
}

func TestCourier_AddOrder(t *testing.T) {
	t.Run("should fill backlog without launching below capacity", func(t *testing.T) {
		// Given
		var group errgroup.Group
		g := newCountingGate()
		c := createCourier(t, g, courier.WithScheduler(&group))

		// When
		firstFilled := addOrder(t, c, createValidOrder(t, "Ana"))
		secondFilled := addOrder(t, c, createValidOrder(t, "Luis"))

		// Then
		assert.False(t, firstFilled)
		assert.False(t, secondFilled)
		assert.Equal(t, 2, c.Pending())
		assert.True(t, c.HasOrders())
		assert.True(t, c.Busy())
		assert.Equal(t, courier.Filling, c.State())
		require.NoError(t, group.Wait())
		assert.Equal(t, int32(0), g.acquired.Load(), "no drain should have started")
	})

	t.Run("should launch drain when backlog reaches capacity", func(t *testing.T) {
		// Given
		var group errgroup.Group
		observer := &recordingObserver{}
		c := createCourier(t, newCountingGate(), courier.WithScheduler(&group), courier.WithObserver(observer))

		// When
		for _, name := range []string{"Ana", "Luis", "Marta"} {
			addOrder(t, c, createValidOrder(t, name))
		}
		require.NoError(t, group.Wait())

		// Then
		assert.Len(t, observer.Records(), 3)
		assert.False(t, c.HasOrders())
		assert.False(t, c.Busy())
		assert.Equal(t, courier.Idle, c.State())
	})

	t.Run("should report filled on the push that reaches capacity", func(t *testing.T) {
		// Given a drain with no transit time that starts as soon as the backlog fills
		for range 200 {
			var group errgroup.Group
			c := createCourier(t, gate.New(),
				courier.WithScheduler(&group),
				courier.WithTransit(courier.FixedTransit(0)),
			)

			// When
			filled := []bool{
				addOrder(t, c, createValidOrder(t, "Ana")),
				addOrder(t, c, createValidOrder(t, "Luis")),
				addOrder(t, c, createValidOrder(t, "Marta")),
			}
			require.NoError(t, group.Wait())

			// Then
			require.Equal(t, []bool{false, false, true}, filled)
		}
	})

	t.Run("should drop order when backlog is full", func(t *testing.T) {
		// Given the gate is held so the auto-launched drain cannot consume anything
		var group errgroup.Group
		g := gate.New()
		require.NoError(t, g.Acquire(t.Context()))
		c := createCourier(t, g, courier.WithScheduler(&group))
		for _, name := range []string{"Ana", "Luis", "Marta"} {
			addOrder(t, c, createValidOrder(t, name))
		}

		// When
		filled, err := c.AddOrder(t.Context(), createValidOrder(t, "Pedro"))

		// Then
		require.ErrorIs(t, err, courier.ErrBacklogIsFull)
		assert.False(t, filled)
		assert.Equal(t, 3, c.Pending())
		assert.Equal(t, courier.Draining, c.State())

		g.Release()
		require.NoError(t, group.Wait())
		assert.Equal(t, 0, c.Pending())
	})

	t.Run("should reject invalid order", func(t *testing.T) {
		c := createCourier(t, gate.New())

		_, err := c.AddOrder(t.Context(), nil)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
		assert.Equal(t, 0, c.Pending())
	})
}

func TestCourier_Launch(t *testing.T) {
	t.Run("should not launch an empty courier", func(t *testing.T) {
		var group errgroup.Group
		c := createCourier(t, gate.New(), courier.WithScheduler(&group))

		assert.False(t, c.Launch(t.Context()))
		require.NoError(t, group.Wait())
	})

	t.Run("should launch once for a partially filled backlog", func(t *testing.T) {
		// Given
		var group errgroup.Group
		g := newCountingGate()
		observer := &recordingObserver{}
		c := createCourier(t, g, courier.WithScheduler(&group), courier.WithObserver(observer))
		addOrder(t, c, createValidOrder(t, "Ana"))

		// When
		first := c.Launch(t.Context())
		second := c.Launch(t.Context())
		require.NoError(t, group.Wait())

		// Then
		assert.True(t, first)
		assert.False(t, second, "a draining courier must not be launched again")
		assert.Len(t, observer.Records(), 1)
		assert.Equal(t, int32(1), g.acquired.Load())
	})

	t.Run("should not launch a courier already auto launched", func(t *testing.T) {
		// Given
		var group errgroup.Group
		g := gate.New()
		require.NoError(t, g.Acquire(t.Context()))
		c := createCourier(t, g, courier.WithScheduler(&group))
		for _, name := range []string{"Ana", "Luis", "Marta"} {
			addOrder(t, c, createValidOrder(t, name))
		}

		// When
		launched := c.Launch(t.Context())

		// Then
		assert.False(t, launched)
		g.Release()
		require.NoError(t, group.Wait())
	})
}

func TestCourier_DeliverAll(t *testing.T) {
	t.Run("should deliver newest order first", func(t *testing.T) {
		// Given
		observer := &recordingObserver{}
		c := createCourier(t, gate.New(), courier.WithObserver(observer), courier.WithBacklogCapacity(4))
		o1 := createValidOrder(t, "first")
		o2 := createValidOrder(t, "second")
		o3 := createValidOrder(t, "third")
		for _, o := range []*order.Order{o1, o2, o3} {
			addOrder(t, c, o)
		}

		// When
		err := c.DeliverAll(t.Context())

		// Then
		require.NoError(t, err)
		records := observer.Records()
		require.Len(t, records, 3)
		assert.True(t, records[0].Order.ID.IsEqual(o3.ID()))
		assert.True(t, records[1].Order.ID.IsEqual(o2.ID()))
		assert.True(t, records[2].Order.ID.IsEqual(o1.ID()))
		for _, r := range records {
			assert.Equal(t, "Courier1", r.CourierName)
			assert.True(t, r.CourierID.IsEqual(c.ID()))
			require.NotNil(t, r.Order.DeliveredAt)
			assert.False(t, r.Order.DeliveredAt.Before(r.Order.CreatedAt))
			assert.Equal(t, order.Delivered, r.Order.Status)
		}
		assert.Equal(t, courier.Idle, c.State())
		assert.False(t, c.Busy())
	})

	t.Run("should release gate after drain", func(t *testing.T) {
		g := gate.New()
		c := createCourier(t, g)
		addOrder(t, c, createValidOrder(t, "Ana"))

		require.NoError(t, c.DeliverAll(t.Context()))

		assert.True(t, g.TryAcquire(), "gate must be free after drain")
		g.Release()
	})

	t.Run("should abandon backlog when gate wait is cancelled", func(t *testing.T) {
		// Given
		g := newCountingGate()
		require.NoError(t, g.Acquire(t.Context()))
		c := createCourier(t, g)
		addOrder(t, c, createValidOrder(t, "Ana"))
		addOrder(t, c, createValidOrder(t, "Luis"))

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		// When
		err := c.DeliverAll(ctx)

		// Then
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 2, c.Pending())
		assert.Equal(t, courier.Filling, c.State())
		assert.Equal(t, int32(1), g.holders.Load(), "a failed wait must not release someone else's permit")
		g.Release()
	})

	t.Run("should continue after an observer panic", func(t *testing.T) {
		// Given
		g := gate.New()
		var calls atomic.Int32
		observer := courier.ObserverFunc(func(context.Context, courier.DeliveryRecord) {
			if calls.Add(1) == 1 {
				panic("printer on fire")
			}
		})
		c := createCourier(t, g, courier.WithObserver(observer), courier.WithBacklogCapacity(4))
		orders := []*order.Order{createValidOrder(t, "Ana"), createValidOrder(t, "Luis"), createValidOrder(t, "Marta")}
		for _, o := range orders {
			addOrder(t, c, o)
		}

		// When
		err := c.DeliverAll(t.Context())

		// Then
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
		for _, o := range orders {
			assert.True(t, o.IsDelivered())
		}
		assert.True(t, g.TryAcquire(), "gate must not leak")
		g.Release()
	})

	t.Run("should skip an order that was already delivered", func(t *testing.T) {
		// Given
		observer := &recordingObserver{}
		c := createCourier(t, gate.New(), courier.WithObserver(observer))
		delivered := createValidOrder(t, "Ana")
		require.NoError(t, delivered.MarkDelivered(time.Now()))
		fresh := createValidOrder(t, "Luis")
		addOrder(t, c, fresh)
		addOrder(t, c, delivered)

		// When
		require.NoError(t, c.DeliverAll(t.Context()))

		// Then
		records := observer.Records()
		require.Len(t, records, 1)
		assert.True(t, records[0].Order.ID.IsEqual(fresh.ID()))
		assert.False(t, c.HasOrders())
	})
}

func TestCourier_SharedGate(t *testing.T) {
	// Given
	var group errgroup.Group
	g := newCountingGate()
	observer := &recordingObserver{}
	couriers := make([]*courier.Courier, 5)
	for i := range couriers {
		c, err := courier.NewCourier(kernel.NewUUID(), "Courier", i, g,
			courier.WithTransit(courier.FixedTransit(testTransit)),
			courier.WithScheduler(&group),
			courier.WithObserver(observer),
		)
		require.NoError(t, err)
		couriers[i] = c
	}

	// When
	for _, c := range couriers {
		for range courier.DefaultBacklogCapacity {
			addOrder(t, c, createValidOrder(t, "Ana"))
		}
	}
	require.NoError(t, group.Wait())

	// Then
	assert.Equal(t, int32(1), g.maxHolders.Load(), "only one courier may drain at a time")
	assert.Equal(t, int32(len(couriers)), g.acquired.Load())
	assert.Len(t, observer.Records(), len(couriers)*courier.DefaultBacklogCapacity)
}

func TestCourier_View(t *testing.T) {
	c := createCourier(t, gate.New())
	addOrder(t, c, createValidOrder(t, "Ana"))

	v := c.View()

	assert.True(t, v.ID.IsEqual(c.ID()))
	assert.Equal(t, "Courier1", v.Name)
	assert.Equal(t, 1, v.Pending)
	assert.True(t, v.Busy)
	assert.Equal(t, courier.Filling, v.State)
}
