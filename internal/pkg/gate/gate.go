// Package gate provides the Delivery Gate: a single shared permit that
// serializes delivery execution across every courier.
//
// The gate has binary semaphore semantics. It is not reentrant: a holder that
// calls Acquire again blocks until someone else releases the permit. The gate
// has no timeout of its own; a wait ends early only when the caller's context
// is cancelled.
package gate

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

const permits = 1

// Gate is a one-permit mutual-exclusion primitive shared by reference.
type Gate struct {
	sem *semaphore.Weighted
}

// New returns a gate with its single permit available.
func New() *Gate {
	return &Gate{sem: semaphore.NewWeighted(permits)}
}

// Acquire blocks until the permit is available and takes it.
// If ctx is done first, the permit is not taken and the context error is returned.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, permits); err != nil {
		return fmt.Errorf("acquire delivery gate: %w", err)
	}
	return nil
}

// TryAcquire takes the permit without blocking and reports whether it succeeded.
func (g *Gate) TryAcquire() bool {
	return g.sem.TryAcquire(permits)
}

// Release returns the permit, unblocking at most one waiter.
// Releasing a gate that is not held panics.
func (g *Gate) Release() {
	g.sem.Release(permits)
}
