// Package courier provides the Courier aggregate of the food delivery simulation
// together with its backlog and the contracts it needs from the outside.
//
// The package includes:
//   - Courier: the aggregate root that accepts orders and drains them under the delivery gate
//   - Backlog: a bounded LIFO stack of pending orders (capacity 3 by default)
//   - State: the Idle -> Filling -> Draining -> Idle scheduling state machine
//   - Gate, Scheduler, Observer: the collaborators a courier is wired with
//   - DeliveryRecord: what a courier reports for each delivered order
//
// Key business rules:
//   - A backlog never exceeds its capacity; an order pushed onto a full backlog is rejected
//   - Filling the backlog starts the drain routine immediately, as a documented side effect of AddOrder
//   - A courier is never scheduled twice for the same drain
//   - Only one courier drains at any instant system-wide, because all share one single-permit Gate
//   - Within a courier, the last order added is the first one delivered
//   - One failing order never stalls the rest of the backlog nor leaks the gate
package courier
