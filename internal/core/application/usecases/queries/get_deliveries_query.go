package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrGetDeliveriesQueryIsNotConstructed = errors.New(
		"GetDeliveriesQuery must be created via NewGetDeliveriesQuery constructor",
	)
)

// GetDeliveriesQuery retrieves the delivery journal, optionally narrowed to one courier.
type GetDeliveriesQuery struct {
	courierName string

	guard guard.ConstructorGuard
}

// NewGetDeliveriesQuery creates a query over the journal.
// An empty courierName selects every courier.
func NewGetDeliveriesQuery(courierName string) GetDeliveriesQuery {
	return GetDeliveriesQuery{
		courierName: courierName,
		guard:       guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveriesQueryIsNotConstructed)
}

func (q GetDeliveriesQuery) CourierName() string {
	return q.courierName
}

// GetDeliveriesQueryResponse is the delivery read model.
type GetDeliveriesQueryResponse struct {
	OrderID     kernel.UUID
	CourierName string
	Customer    string
	Food        string
	Drink       string
	Dessert     string
	CreatedAt   time.Time
	DeliveredAt time.Time
}
