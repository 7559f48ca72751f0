package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/store"
)

// ErrInvalidRange is returned when the end of a queried time range is before
// its start.
var ErrInvalidRange = errors.New("end of range is before start")

// SalesPoint is one day of the sales trend series. Days without orders are
// present with Total 0.
type SalesPoint struct {
	Day   time.Time
	Total float64
}

// Aggregator provides read-only analytics views over an organization's
// orders and products. It holds no state beyond the store handle; every
// query is a snapshot read.
type Aggregator struct {
	analytics store.AnalyticsStore
}

// NewAggregator creates an aggregator over the given analytics store.
func NewAggregator(analytics store.AnalyticsStore) *Aggregator {
	return &Aggregator{
		analytics: analytics,
	}
}

// SalesTrend returns one point per calendar day (UTC) in
// [start.date, end.date] inclusive, summing order revenue per day. Days
// without orders are filled with 0 rather than omitted, so a charting
// client always sees a dense series. start == end yields a single point.
func (a *Aggregator) SalesTrend(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]SalesPoint, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	raw, err := a.analytics.SalesByDay(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[time.Time]float64, len(raw))
	for _, row := range raw {
		totals[truncateToDay(row.Day)] = row.Total
	}

	first := truncateToDay(start)
	last := truncateToDay(end)

	var series []SalesPoint
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, SalesPoint{
			Day:   day,
			Total: totals[day],
		})
	}

	return series, nil
}

// InventorySnapshot returns the current stock level of every tracked
// product, ordered by name. Untracked products are invisible to this view.
func (a *Aggregator) InventorySnapshot(ctx context.Context, orgID uuid.UUID) ([]store.StockLevel, error) {
	return a.analytics.InventoryLevels(ctx, orgID)
}

// AverageSales returns the mean order revenue over orders in
// [start, end], or 0 when the range has no orders.
func (a *Aggregator) AverageSales(ctx context.Context, orgID uuid.UUID, start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	stats, err := a.analytics.SalesStats(ctx, orgID, start, end)
	if err != nil {
		return 0, err
	}

	if stats.Count == 0 {
		return 0, nil
	}

	return stats.Total / float64(stats.Count), nil
}

// truncateToDay truncates t to midnight UTC.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
