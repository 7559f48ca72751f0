package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

// OrderStore implements store.OrderStore using PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{
		pool: pool,
	}
}

// Create persists a new order.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (
			order_id, org_id, product_id, quantity, total_price, fulfilled, ordered_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := queryTarget(ctx, s.pool).Exec(ctx, query,
		order.OrderID,
		order.OrgID,
		order.ProductID,
		order.Quantity,
		order.TotalPrice,
		order.Fulfilled,
		order.OrderedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("order_id", order.OrderID.String()).
		Str("org_id", order.OrgID.String()).
		Bool("fulfilled", order.Fulfilled).
		Msg("Created order")

	return nil
}

// Get retrieves an order by ID within an organization.
func (s *OrderStore) Get(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	return s.get(ctx, orgID, orderID, "")
}

// GetForUpdate retrieves an order with FOR UPDATE, holding the row lock
// until the surrounding transaction ends. Under READ COMMITTED a blocked
// reader re-reads the committed row once the lock is released, so a
// concurrent recompute sees the fulfilled flag the winner wrote.
func (s *OrderStore) GetForUpdate(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	return s.get(ctx, orgID, orderID, "FOR UPDATE")
}

func (s *OrderStore) get(ctx context.Context, orgID, orderID uuid.UUID, locking string) (*models.Order, error) {
	query := `
		SELECT order_id, org_id, product_id, quantity, total_price, fulfilled, ordered_at
		FROM orders
		WHERE org_id = $1 AND order_id = $2
	` + locking

	var order models.Order
	err := queryTarget(ctx, s.pool).QueryRow(ctx, query, orgID, orderID).Scan(
		&order.OrderID,
		&order.OrgID,
		&order.ProductID,
		&order.Quantity,
		&order.TotalPrice,
		&order.Fulfilled,
		&order.OrderedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", mapPostgresError(err))
	}

	return &order, nil
}

// List returns all orders of an organization, newest first.
func (s *OrderStore) List(ctx context.Context, orgID uuid.UUID) ([]*models.Order, error) {
	query := `
		SELECT order_id, org_id, product_id, quantity, total_price, fulfilled, ordered_at
		FROM orders
		WHERE org_id = $1
		ORDER BY ordered_at DESC, order_id DESC
	`

	rows, err := queryTarget(ctx, s.pool).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.OrderID,
			&order.OrgID,
			&order.ProductID,
			&order.Quantity,
			&order.TotalPrice,
			&order.Fulfilled,
			&order.OrderedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateFulfillment writes the fulfilled flag of an order.
func (s *OrderStore) UpdateFulfillment(ctx context.Context, orgID, orderID uuid.UUID, fulfilled bool) error {
	query := `
		UPDATE orders
		SET fulfilled = $3
		WHERE org_id = $1 AND order_id = $2
	`

	result, err := queryTarget(ctx, s.pool).Exec(ctx, query, orgID, orderID, fulfilled)
	if err != nil {
		return fmt.Errorf("failed to update order fulfillment: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrderNotFound
	}

	log.Debug().
		Str("order_id", orderID.String()).
		Str("org_id", orgID.String()).
		Bool("fulfilled", fulfilled).
		Msg("Updated order fulfillment")

	return nil
}
