// Package observability decorates delivery observers with tracing, logging and metrics.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/model/courier"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "fooddelivery/internal/adapters/out/observability"

// Observer wraps a courier.Observer. Every delivery gets a span, a counter
// increment tagged with the courier and an order-age histogram sample.
type Observer struct {
	inner   courier.Observer
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics observerMetrics
	// metricsErr holds instrument creation failures until the logger is known
	metricsErr error
}

type Option func(*Observer)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Observer) {
		o.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(o *Observer) {
		o.tracer = tr
	}
}

// WithMeter injects the meter used to create the delivery instruments.
func WithMeter(m metric.Meter) Option {
	return func(o *Observer) {
		o.metrics, o.metricsErr = newObserverMetrics(m)
	}
}

// New wires a decorator around inner.
func New(inner courier.Observer, opts ...Option) *Observer {
	o := &Observer{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.tracer == nil {
		o.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if o.logger == nil {
		o.logger = defaultLogger()
	}
	if o.metricsErr != nil {
		o.logger.Warn("delivery metrics partially unavailable", "error", o.metricsErr)
	}
	return o
}

// Err reports why some delivery instruments could not be created, if any did not.
func (o *Observer) Err() error {
	return o.metricsErr
}

// OnDelivered records telemetry, then forwards to the wrapped observer.
// A panic in the wrapped observer is marked on the span and re-raised.
func (o *Observer) OnDelivered(ctx context.Context, record courier.DeliveryRecord) {
	ctx, span := o.tracer.Start(ctx, "Courier.Deliver", trace.WithAttributes(
		attribute.String("courier.name", record.CourierName),
		attribute.String("order.id", record.Order.ID.String()),
	))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, "observer panicked")
			panic(r)
		}
	}()

	age := time.Duration(0)
	if record.Order.DeliveredAt != nil {
		age = record.Order.DeliveredAt.Sub(record.Order.CreatedAt)
	}

	o.metrics.recordDelivered(ctx, record.CourierName, age)
	o.logger.LogAttrs(ctx, slog.LevelInfo, "order delivered",
		slog.String("courier", record.CourierName),
		slog.String("order_id", record.Order.ID.String()),
		slog.String("customer", record.Order.Customer),
		slog.Duration("age", age),
	)

	if o.inner != nil {
		o.inner.OnDelivered(ctx, record)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type observerMetrics struct {
	delivered metric.Int64Counter
	orderAge  metric.Float64Histogram
}

func newObserverMetrics(m metric.Meter) (observerMetrics, error) {
	if m == nil {
		return observerMetrics{}, nil
	}
	delivered, counterErr := m.Int64Counter("deliveries.completed",
		metric.WithDescription("Number of delivered orders"))
	if counterErr != nil {
		delivered = nil
		counterErr = fmt.Errorf("deliveries.completed counter: %w", counterErr)
	}
	orderAge, histogramErr := m.Float64Histogram("deliveries.order_age",
		metric.WithDescription("Time from order creation to delivery"),
		metric.WithUnit("s"))
	if histogramErr != nil {
		orderAge = nil
		histogramErr = fmt.Errorf("deliveries.order_age histogram: %w", histogramErr)
	}
	return observerMetrics{
		delivered: delivered,
		orderAge:  orderAge,
	}, errors.Join(counterErr, histogramErr)
}

func (m observerMetrics) recordDelivered(ctx context.Context, courierName string, age time.Duration) {
	attrs := metric.WithAttributes(attribute.String("courier.name", courierName))
	if m.delivered != nil {
		m.delivered.Add(ctx, 1, attrs)
	}
	if m.orderAge != nil {
		m.orderAge.Record(ctx, age.Seconds(), attrs)
	}
}

var _ courier.Observer = (*Observer)(nil)
