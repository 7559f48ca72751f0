package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockroomhq/stockroom/internal/store"
)

// AnalyticsStore implements store.AnalyticsStore using PostgreSQL
// aggregation queries. All queries are read-only.
type AnalyticsStore struct {
	pool *pgxpool.Pool
}

// NewAnalyticsStore creates a new PostgreSQL-backed analytics store.
func NewAnalyticsStore(pool *pgxpool.Pool) *AnalyticsStore {
	return &AnalyticsStore{
		pool: pool,
	}
}

// SalesByDay sums order revenue grouped by calendar day (UTC). Days without
// orders are absent from the result; the aggregator fills the gaps.
func (s *AnalyticsStore) SalesByDay(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]store.DailySales, error) {
	query := `
		SELECT date_trunc('day', ordered_at AT TIME ZONE 'UTC') AS day,
		       SUM(total_price) AS total
		FROM orders
		WHERE org_id = $1
		  AND ordered_at >= $2
		  AND ordered_at <= $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := queryTarget(ctx, s.pool).Query(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by day: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var series []store.DailySales
	for rows.Next() {
		var point store.DailySales
		if err := rows.Scan(&point.Day, &point.Total); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		point.Day = point.Day.UTC()
		series = append(series, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales rows: %w", err)
	}

	return series, nil
}

// InventoryLevels returns (name, quantity) for tracked products ordered by
// name. Untracked products (NULL quantity) are filtered out in SQL.
func (s *AnalyticsStore) InventoryLevels(ctx context.Context, orgID uuid.UUID) ([]store.StockLevel, error) {
	query := `
		SELECT name, quantity
		FROM products
		WHERE org_id = $1 AND quantity IS NOT NULL
		ORDER BY name ASC
	`

	rows, err := queryTarget(ctx, s.pool).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory levels: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var levels []store.StockLevel
	for rows.Next() {
		var level store.StockLevel
		if err := rows.Scan(&level.Name, &level.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory rows: %w", err)
	}

	return levels, nil
}

// SalesStats returns the sum and count of order revenue in the range.
func (s *AnalyticsStore) SalesStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) (store.SalesStats, error) {
	query := `
		SELECT COALESCE(SUM(total_price), 0), COUNT(*)
		FROM orders
		WHERE org_id = $1
		  AND ordered_at >= $2
		  AND ordered_at <= $3
	`

	var stats store.SalesStats
	err := queryTarget(ctx, s.pool).QueryRow(ctx, query, orgID, start, end).Scan(&stats.Total, &stats.Count)
	if err != nil {
		return store.SalesStats{}, fmt.Errorf("failed to query sales stats: %w", mapPostgresError(err))
	}

	return stats, nil
}
