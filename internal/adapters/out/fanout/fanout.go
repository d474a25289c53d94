// Package fanout delivers one record to several observers.
package fanout

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/ports"
)

// Multi forwards every record to each observer in order.
// Nil observers are skipped at construction.
type Multi []courier.Observer

func New(observers ...courier.Observer) Multi {
	m := make(Multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m Multi) OnDelivered(ctx context.Context, record courier.DeliveryRecord) {
	for _, o := range m {
		o.OnDelivered(ctx, record)
	}
}

// JournalObserver writes each record to a DeliveryJournal. Write failures are
// logged and never reach the courier.
type JournalObserver struct {
	journal ports.DeliveryJournal
	logger  *slog.Logger
}

func NewJournalObserver(journal ports.DeliveryJournal, logger *slog.Logger) *JournalObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalObserver{
		journal: journal,
		logger:  logger.With("component", "delivery_journal"),
	}
}

func (j *JournalObserver) OnDelivered(ctx context.Context, record courier.DeliveryRecord) {
	// the journal write must not be abandoned when the drain context ends
	ctx = context.WithoutCancel(ctx)
	if err := j.journal.Record(ctx, record); err != nil {
		j.logger.ErrorContext(ctx, "failed to record delivery",
			"courier", record.CourierName,
			"order_id", record.Order.ID.String(),
			"error", err,
		)
	}
}
