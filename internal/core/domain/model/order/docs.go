// Package order provides the Order entity of the food delivery simulation.
//
// An order carries the immutable facts captured at intake (customer name,
// food, drink, dessert and creation time) plus a delivery timestamp that the
// delivering courier sets exactly once.
//
// The package includes:
//   - Order: the entity, safe for one writer (its courier) and many readers
//   - Status: the Pending -> Delivered state machine guarding the one-shot delivery
//   - Snapshot: an immutable copy handed to delivery observers
//
// Key business rules:
//   - The creation timestamp is set at construction and never changes
//   - The delivery timestamp, once set, is not before the creation timestamp
//   - A second delivery attempt is rejected with ErrOrderAlreadyDelivered
//   - Order content (names, dishes) is not validated
package order
