package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
)

// FleetReader exposes point-in-time courier summaries.
// services.OrderDispatcher satisfies it.
type FleetReader interface {
	Snapshot() []courier.View
}

// GetCouriersQueryHandler reads the courier fleet from the dispatcher.
type GetCouriersQueryHandler struct {
	fleet FleetReader
}

// NewGetCouriersQueryHandler creates a handler over the given fleet.
func NewGetCouriersQueryHandler(fleet FleetReader) GetCouriersQueryHandler {
	return GetCouriersQueryHandler{fleet: fleet}
}

// Handle returns one read model per courier in creation order.
func (h GetCouriersQueryHandler) Handle(
	_ context.Context,
	query GetCouriersQuery,
) ([]GetCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views := h.fleet.Snapshot()
	couriers := make([]GetCouriersQueryResponse, 0, len(views))
	for _, v := range views {
		couriers = append(couriers, GetCouriersQueryResponse{
			ID:      v.ID,
			Name:    v.Name,
			Number:  v.Number,
			Pending: v.Pending,
			Busy:    v.Busy,
			State:   v.State.String(),
		})
	}

	return couriers, nil
}
