// Package kernel holds the shared value objects of the food delivery domain.
//
// Currently this is the UUID identifier used by orders and couriers. It wraps
// github.com/google/uuid so that a zero identifier is always rejected by Validate.
package kernel
