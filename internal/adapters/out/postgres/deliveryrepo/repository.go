package deliveryrepo

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/courier"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryJournal using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery journal.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Record inserts one delivery row.
func (r *GormDeliveryRepository) Record(ctx context.Context, record courier.DeliveryRecord) error {
	if err := record.Order.ID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("record delivery of order %s: %w", record.Order.ID, err)
	}
	return nil
}

// List returns every delivery ordered by delivery time.
func (r *GormDeliveryRepository) List(ctx context.Context) ([]courier.DeliveryRecord, error) {
	var dtos []DeliveryRecordDTO
	err := r.db.WithContext(ctx).
		Order("delivered_at ASC").
		Order("order_id ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]courier.DeliveryRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		records = append(records, record)
	}

	return records, nil
}

// CountByCourier returns how many deliveries each courier has made.
func (r *GormDeliveryRepository) CountByCourier(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		CourierName string
		Total       int
	}
	err := r.db.WithContext(ctx).
		Model(&DeliveryRecordDTO{}).
		Select("courier_name, COUNT(*) AS total").
		Group("courier_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CourierName] = row.Total
	}
	return counts, nil
}
