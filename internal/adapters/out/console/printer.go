// Package console renders deliveries and the menu as plain text.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"fooddelivery/internal/core/domain/model/courier"
)

// Printer is a courier.Observer that writes one block per delivery:
// "<courier> delivered the " followed by the rendered order.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, logger *slog.Logger) *Printer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Printer{
		out:    out,
		logger: logger.With("component", "console_printer"),
	}
}

func (p *Printer) OnDelivered(ctx context.Context, record courier.DeliveryRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintf(p.out, "%s delivered the %s", record.CourierName, record.Order); err != nil {
		p.logger.WarnContext(ctx, "failed to print delivery", "error", err)
	}
}
