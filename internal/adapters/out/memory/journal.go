// Package memory keeps delivery records in process memory.
// It is the journal used when no database is configured.
package memory

import (
	"context"
	"sync"

	"fooddelivery/internal/core/domain/model/courier"
)

// Journal implements ports.DeliveryJournal with an append-only slice.
type Journal struct {
	mu      sync.RWMutex
	records []courier.DeliveryRecord
}

func NewJournal() *Journal {
	return &Journal{}
}

// Record appends the record. Records arrive in delivery order because the
// delivery gate serializes every drain.
func (j *Journal) Record(_ context.Context, record courier.DeliveryRecord) error {
	if err := record.Order.ID.Validate(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, record)
	return nil
}

func (j *Journal) List(_ context.Context) ([]courier.DeliveryRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]courier.DeliveryRecord, len(j.records))
	copy(out, j.records)
	return out, nil
}

func (j *Journal) CountByCourier(_ context.Context) (map[string]int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	counts := make(map[string]int)
	for _, r := range j.records {
		counts[r.CourierName]++
	}
	return counts, nil
}
