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

// ProductStore implements store.ProductStore using PostgreSQL.
//
// Every query filters by org_id so a product in another organization is
// indistinguishable from one that doesn't exist.
type ProductStore struct {
	pool *pgxpool.Pool
}

// NewProductStore creates a new PostgreSQL-backed product store.
func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{
		pool: pool,
	}
}

// Create creates a new product in the database.
func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (
			product_id, org_id, name, description, price, quantity, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := queryTarget(ctx, s.pool).Exec(ctx, query,
		product.ProductID,
		product.OrgID,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("product_id", product.ProductID.String()).
		Str("org_id", product.OrgID.String()).
		Str("name", product.Name).
		Msg("Created product")

	return nil
}

// Get retrieves a product by ID within an organization.
func (s *ProductStore) Get(ctx context.Context, orgID, productID uuid.UUID) (*models.Product, error) {
	query := `
		SELECT product_id, org_id, name, description, price, quantity, created_at
		FROM products
		WHERE org_id = $1 AND product_id = $2
	`

	var product models.Product
	err := queryTarget(ctx, s.pool).QueryRow(ctx, query, orgID, productID).Scan(
		&product.ProductID,
		&product.OrgID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", mapPostgresError(err))
	}

	return &product, nil
}

// List returns all products of an organization ordered by name.
func (s *ProductStore) List(ctx context.Context, orgID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT product_id, org_id, name, description, price, quantity, created_at
		FROM products
		WHERE org_id = $1
		ORDER BY name ASC
	`

	rows, err := queryTarget(ctx, s.pool).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ProductID,
			&product.OrgID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Quantity,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update applies a partial update to a product. Only fields set in the
// update overwrite stored values; everything else is kept via COALESCE.
// Quantity is written unconditionally when SetQuantity is true so the
// column can be set back to NULL (untracked).
func (s *ProductStore) Update(ctx context.Context, orgID, productID uuid.UUID, update store.ProductUpdate) (*models.Product, error) {
	query := `
		UPDATE products SET
			name = COALESCE($3::text, name),
			description = COALESCE($4::text, description),
			price = COALESCE($5::double precision, price),
			quantity = CASE WHEN $6::boolean THEN $7::bigint ELSE quantity END
		WHERE org_id = $1 AND product_id = $2
		RETURNING product_id, org_id, name, description, price, quantity, created_at
	`

	var product models.Product
	err := queryTarget(ctx, s.pool).QueryRow(ctx, query,
		orgID,
		productID,
		update.Name,
		update.Description,
		update.Price,
		update.SetQuantity,
		update.Quantity,
	).Scan(
		&product.ProductID,
		&product.OrgID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("product_id", productID.String()).
		Str("org_id", orgID.String()).
		Msg("Updated product")

	return &product, nil
}

// Delete removes a product within an organization.
func (s *ProductStore) Delete(ctx context.Context, orgID, productID uuid.UUID) error {
	query := `DELETE FROM products WHERE org_id = $1 AND product_id = $2`

	result, err := queryTarget(ctx, s.pool).Exec(ctx, query, orgID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrProductNotFound
	}

	log.Debug().
		Str("product_id", productID.String()).
		Str("org_id", orgID.String()).
		Msg("Deleted product")

	return nil
}

// DecrementStock atomically subtracts qty from a tracked product's stock.
// The WHERE clause carries the sufficiency check, so the stock read and the
// write are a single statement: concurrent decrements serialize on the row
// lock and the loser sees the already-reduced quantity. Zero rows affected
// with the product present means insufficient (or untracked) stock.
func (s *ProductStore) DecrementStock(ctx context.Context, orgID, productID uuid.UUID, qty int64) (bool, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $3
		WHERE org_id = $1 AND product_id = $2
		  AND quantity IS NOT NULL AND quantity >= $3
	`

	result, err := queryTarget(ctx, s.pool).Exec(ctx, query, orgID, productID, qty)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		// Distinguish "not enough stock" from "no such product".
		if _, err := s.Get(ctx, orgID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	log.Debug().
		Str("product_id", productID.String()).
		Str("org_id", orgID.String()).
		Int64("qty", qty).
		Msg("Decremented stock")

	return true, nil
}
