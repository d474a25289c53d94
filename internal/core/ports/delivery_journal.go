// Package ports defines the contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
)

// DeliveryJournal records the delivery records emitted by courier drain routines.
// Records are write-once facts; nothing is read back to rebuild courier state.
type DeliveryJournal interface {
	// Record persists one delivery record.
	// It is called from a courier drain routine while the delivery gate is held.
	Record(ctx context.Context, record courier.DeliveryRecord) error

	// List returns every recorded delivery ordered by delivery time.
	//
	// Example:
	//   records, err := journal.List(ctx)
	//   if err != nil {
	//       return fmt.Errorf("failed to list deliveries: %w", err)
	//   }
	//   for _, r := range records {
	//       fmt.Printf("%s delivered %s\n", r.CourierName, r.Order.Customer)
	//   }
	List(ctx context.Context) ([]courier.DeliveryRecord, error)
}
