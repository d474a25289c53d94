package queries

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/ports"
)

// GetDeliveriesQueryHandler reads delivery records from the journal.
//
// Example:
//
//	handler := NewGetDeliveriesQueryHandler(journal)
//	deliveries, err := handler.Handle(ctx, NewGetDeliveriesQuery("Courier1"))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Courier1 delivered %d orders\n", len(deliveries))
type GetDeliveriesQueryHandler struct {
	journal ports.DeliveryJournal
}

// NewGetDeliveriesQueryHandler creates a handler over the given journal.
func NewGetDeliveriesQueryHandler(journal ports.DeliveryJournal) GetDeliveriesQueryHandler {
	return GetDeliveriesQueryHandler{journal: journal}
}

// Handle returns the recorded deliveries in journal order.
func (h GetDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveriesQuery,
) ([]GetDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records, err := h.journal.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}

	deliveries := make([]GetDeliveriesQueryResponse, 0, len(records))
	for _, r := range records {
		if query.CourierName() != "" && r.CourierName != query.CourierName() {
			continue
		}

		d := GetDeliveriesQueryResponse{
			OrderID:     r.Order.ID,
			CourierName: r.CourierName,
			Customer:    r.Order.Customer,
			Food:        r.Order.Food,
			Drink:       r.Order.Drink,
			Dessert:     r.Order.Dessert,
			CreatedAt:   r.Order.CreatedAt,
		}
		if r.Order.DeliveredAt != nil {
			d.DeliveredAt = *r.Order.DeliveredAt
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}
