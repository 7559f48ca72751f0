package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailySales is one day's order revenue for an organization. Day is truncated
// to midnight UTC.
type DailySales struct {
	Day   time.Time
	Total float64
}

// StockLevel is a product name paired with its tracked quantity.
type StockLevel struct {
	Name     string
	Quantity int64
}

// SalesStats summarizes order revenue over a time range.
type SalesStats struct {
	Total float64
	Count int64
}

// AnalyticsStore defines the read-only aggregation queries used by the
// analytics aggregator. All queries are scoped by organization ID.
type AnalyticsStore interface {
	// SalesByDay sums order total price grouped by calendar day for orders
	// with start <= ordered_at <= end. Only days with at least one order are
	// returned; gap filling is the aggregator's job.
	SalesByDay(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]DailySales, error)

	// InventoryLevels returns (name, quantity) for every product with
	// tracked stock, ordered by name ascending. Untracked products are
	// excluded entirely.
	InventoryLevels(ctx context.Context, orgID uuid.UUID) ([]StockLevel, error)

	// SalesStats returns the sum and count of order total price for orders
	// with start <= ordered_at <= end.
	SalesStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) (SalesStats, error)
}
