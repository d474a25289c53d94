package courier

import (
	"context"
	"math/rand/v2"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// DefaultTransitTime is the simulated time a courier spends per delivered order.
const DefaultTransitTime = time.Second

// Gate is the shared one-permit primitive that serializes drains across couriers.
type Gate interface {
	Acquire(ctx context.Context) error
	Release()
}

// Scheduler starts a work unit independently of the caller.
// *errgroup.Group satisfies it.
type Scheduler interface {
	Go(f func() error)
}

// DeliveryRecord is emitted once per delivered order.
type DeliveryRecord struct {
	CourierID     kernel.UUID
	CourierName   string
	CourierNumber int
	Order         order.Snapshot
}

// Observer receives delivery records. It is called from the courier's drain
// goroutine while the delivery gate is held, so it should return quickly.
type Observer interface {
	OnDelivered(ctx context.Context, record DeliveryRecord)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, record DeliveryRecord)

func (f ObserverFunc) OnDelivered(ctx context.Context, record DeliveryRecord) {
	f(ctx, record)
}

// Transit returns the simulated transit time for the next delivery.
type Transit func() time.Duration

// FixedTransit always waits d.
func FixedTransit(d time.Duration) Transit {
	return func() time.Duration {
		return d
	}
}

// JitteredTransit waits base plus a uniformly random extra in [0, spread).
func JitteredTransit(base, spread time.Duration) Transit {
	if spread <= 0 {
		return FixedTransit(base)
	}
	return func() time.Duration {
		return base + rand.N(spread)
	}
}

type goScheduler struct{}

func (goScheduler) Go(f func() error) {
	go func() {
		_ = f()
	}()
}

type noopObserver struct{}

func (noopObserver) OnDelivered(context.Context, DeliveryRecord) {}
