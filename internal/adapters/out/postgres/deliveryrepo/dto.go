// Package deliveryrepo persists courier delivery records in PostgreSQL with GORM.
// It maps between courier.DeliveryRecord and its relational representation.
package deliveryrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// DeliveryRecordDTO represents one row of the deliveries table.
// Each delivered order is recorded once, so the order ID is the primary key.
type DeliveryRecordDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CourierName   string    `gorm:"type:varchar(255);not null;index"`
	CourierNumber int       `gorm:"type:int;not null"`
	Customer      string    `gorm:"type:varchar(255);not null"`
	Food          string    `gorm:"type:varchar(255);not null"`
	Drink         string    `gorm:"type:varchar(255);not null"`
	Dessert       string    `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time `gorm:"not null"`
	DeliveredAt   time.Time `gorm:"not null;index"`
}

// TableName overrides GORM's default "delivery_record_dtos".
func (DeliveryRecordDTO) TableName() string {
	return "deliveries"
}

// fromDomain converts a delivery record to its row.
// Records without a delivery time are stamped with the creation time.
func fromDomain(record courier.DeliveryRecord) DeliveryRecordDTO {
	deliveredAt := record.Order.CreatedAt
	if record.Order.DeliveredAt != nil {
		deliveredAt = *record.Order.DeliveredAt
	}

	return DeliveryRecordDTO{
		OrderID:       record.Order.ID.Bytes(),
		CourierID:     record.CourierID.Bytes(),
		CourierName:   record.CourierName,
		CourierNumber: record.CourierNumber,
		Customer:      record.Order.Customer,
		Food:          record.Order.Food,
		Drink:         record.Order.Drink,
		Dessert:       record.Order.Dessert,
		CreatedAt:     record.Order.CreatedAt,
		DeliveredAt:   deliveredAt,
	}
}

// toDomain rebuilds a delivery record from its row.
func toDomain(dto DeliveryRecordDTO) (courier.DeliveryRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return courier.DeliveryRecord{}, err
	}

	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return courier.DeliveryRecord{}, err
	}

	deliveredAt := dto.DeliveredAt
	return courier.DeliveryRecord{
		CourierID:     courierID,
		CourierName:   dto.CourierName,
		CourierNumber: dto.CourierNumber,
		Order: order.Snapshot{
			ID:          orderID,
			Customer:    dto.Customer,
			Food:        dto.Food,
			Drink:       dto.Drink,
			Dessert:     dto.Dessert,
			CreatedAt:   dto.CreatedAt,
			DeliveredAt: &deliveredAt,
			Status:      order.Delivered,
		},
	}, nil
}
