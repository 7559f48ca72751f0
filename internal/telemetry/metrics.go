package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/stockroomhq/stockroom"

// Metrics holds the OpenTelemetry metric instruments. When no meter
// provider is configured the instruments are no-ops, so recording is always
// safe.
type Metrics struct {
	OrdersPlacedTotal    metric.Int64Counter
	OrdersFulfilledTotal metric.Int64Counter
	ProductsCreatedTotal metric.Int64Counter
	SignupsTotal         metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it on
// first use against the globally registered meter provider.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.OrdersPlacedTotal, _ = meter.Int64Counter(
		"stockroom.orders.placed.total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("{order}"),
	)

	m.OrdersFulfilledTotal, _ = meter.Int64Counter(
		"stockroom.orders.fulfilled.total",
		metric.WithDescription("Total number of orders fulfilled against stock"),
		metric.WithUnit("{order}"),
	)

	m.ProductsCreatedTotal, _ = meter.Int64Counter(
		"stockroom.products.created.total",
		metric.WithDescription("Total number of products created"),
		metric.WithUnit("{product}"),
	)

	m.SignupsTotal, _ = meter.Int64Counter(
		"stockroom.signups.total",
		metric.WithDescription("Total number of organization signups"),
		metric.WithUnit("{signup}"),
	)

	return m
}

// RecordProductCreated counts a product creation.
func (m *Metrics) RecordProductCreated(ctx context.Context) {
	m.ProductsCreatedTotal.Add(ctx, 1)
}

// RecordSignup counts an organization signup.
func (m *Metrics) RecordSignup(ctx context.Context) {
	m.SignupsTotal.Add(ctx, 1)
}

// RecordOrderPlaced counts a placed order, labeled by fulfillment outcome.
func (m *Metrics) RecordOrderPlaced(ctx context.Context, fulfilled bool) {
	m.OrdersPlacedTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("fulfilled", fulfilled)))
	if fulfilled {
		m.OrdersFulfilledTotal.Add(ctx, 1)
	}
}
