package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/store"
)

// AnalyticsStore implements store.AnalyticsStore over the in-memory product
// and order stores. It mirrors the SQL aggregation queries so the aggregator
// behaves identically against either backend.
type AnalyticsStore struct {
	products *ProductStore
	orders   *OrderStore
}

// NewAnalyticsStore creates an analytics store reading from the given
// in-memory stores.
func NewAnalyticsStore(products *ProductStore, orders *OrderStore) *AnalyticsStore {
	return &AnalyticsStore{
		products: products,
		orders:   orders,
	}
}

// SalesByDay sums order revenue grouped by UTC calendar day. Only days with
// at least one order appear in the result.
func (s *AnalyticsStore) SalesByDay(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]store.DailySales, error) {
	totals := make(map[time.Time]float64)
	for _, order := range s.orders.snapshot(orgID) {
		if order.OrderedAt.Before(start) || order.OrderedAt.After(end) {
			continue
		}
		day := truncateToDay(order.OrderedAt)
		totals[day] += order.TotalPrice
	}

	series := make([]store.DailySales, 0, len(totals))
	for day, total := range totals {
		series = append(series, store.DailySales{Day: day, Total: total})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Day.Before(series[j].Day)
	})

	return series, nil
}

// InventoryLevels returns (name, quantity) for tracked products ordered by
// name. Untracked products are excluded.
func (s *AnalyticsStore) InventoryLevels(ctx context.Context, orgID uuid.UUID) ([]store.StockLevel, error) {
	var levels []store.StockLevel
	for _, product := range s.products.snapshot(orgID) {
		if product.Quantity == nil {
			continue
		}
		levels = append(levels, store.StockLevel{
			Name:     product.Name,
			Quantity: *product.Quantity,
		})
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Name < levels[j].Name
	})

	return levels, nil
}

// SalesStats returns the sum and count of order revenue in the range.
func (s *AnalyticsStore) SalesStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) (store.SalesStats, error) {
	var stats store.SalesStats
	for _, order := range s.orders.snapshot(orgID) {
		if order.OrderedAt.Before(start) || order.OrderedAt.After(end) {
			continue
		}
		stats.Total += order.TotalPrice
		stats.Count++
	}

	return stats, nil
}

// truncateToDay truncates t to midnight UTC.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
