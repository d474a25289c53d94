package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeliveryJournal struct{ mock.Mock }

func (m *MockDeliveryJournal) Record(ctx context.Context, record courier.DeliveryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDeliveryJournal) List(ctx context.Context) ([]courier.DeliveryRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]courier.DeliveryRecord)
	return records, args.Error(1)
}

func deliveredRecord(courierName, customer string) courier.DeliveryRecord {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	delivered := created.Add(time.Second)
	return courier.DeliveryRecord{
		CourierID:   kernel.NewUUID(),
		CourierName: courierName,
		Order: order.Snapshot{
			ID:          kernel.NewUUID(),
			Customer:    customer,
			Food:        "Dinner",
			Drink:       "Lemonade",
			Dessert:     "Oreo ice cream",
			CreatedAt:   created,
			DeliveredAt: &delivered,
			Status:      order.Delivered,
		},
	}
}

func TestGetDeliveriesQueryHandler_Handle(t *testing.T) {
	t.Run("should map every record", func(t *testing.T) {
		// Given
		ctx := t.Context()
		records := []courier.DeliveryRecord{
			deliveredRecord("Courier1", "Ana"),
			deliveredRecord("Courier2", "Luis"),
		}
		journal := new(MockDeliveryJournal)
		journal.On("List", ctx).Return(records, nil).Once()
		h := queries.NewGetDeliveriesQueryHandler(journal)

		// When
		result, err := h.Handle(ctx, queries.NewGetDeliveriesQuery(""))

		// Then
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, records[0].Order.ID, result[0].OrderID)
		assert.Equal(t, "Courier1", result[0].CourierName)
		assert.Equal(t, "Ana", result[0].Customer)
		assert.Equal(t, "Oreo ice cream", result[0].Dessert)
		assert.Equal(t, *records[0].Order.DeliveredAt, result[0].DeliveredAt)
		journal.AssertExpectations(t)
	})

	t.Run("should filter by courier name", func(t *testing.T) {
		ctx := t.Context()
		journal := new(MockDeliveryJournal)
		journal.On("List", ctx).Return([]courier.DeliveryRecord{
			deliveredRecord("Courier1", "Ana"),
			deliveredRecord("Courier2", "Luis"),
			deliveredRecord("Courier1", "Marta"),
		}, nil).Once()
		h := queries.NewGetDeliveriesQueryHandler(journal)

		result, err := h.Handle(ctx, queries.NewGetDeliveriesQuery("Courier1"))

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Ana", result[0].Customer)
		assert.Equal(t, "Marta", result[1].Customer)
	})

	t.Run("should wrap journal errors", func(t *testing.T) {
		ctx := t.Context()
		listErr := errors.New("connection lost")
		journal := new(MockDeliveryJournal)
		journal.On("List", ctx).Return(nil, listErr).Once()
		h := queries.NewGetDeliveriesQueryHandler(journal)

		result, err := h.Handle(ctx, queries.NewGetDeliveriesQuery(""))

		require.ErrorIs(t, err, listErr)
		assert.Nil(t, result)
	})

	t.Run("should reject query not built by constructor", func(t *testing.T) {
		journal := new(MockDeliveryJournal)
		h := queries.NewGetDeliveriesQueryHandler(journal)

		_, err := h.Handle(t.Context(), queries.GetDeliveriesQuery{})

		require.ErrorIs(t, err, queries.ErrGetDeliveriesQueryIsNotConstructed)
		journal.AssertNotCalled(t, "List", mock.Anything)
	})
}
