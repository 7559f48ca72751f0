package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/models"
)

// ErrOrderNotFound is returned when an order doesn't exist or belongs to a
// different organization. As with products, the two cases look the same to
// the caller.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore defines the interface for order storage operations.
// Every operation is scoped by organization ID.
type OrderStore interface {
	// Create persists a new order.
	Create(ctx context.Context, order *models.Order) error

	// Get retrieves an order by ID within an organization.
	// Returns ErrOrderNotFound if absent or owned by another organization.
	Get(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error)

	// GetForUpdate retrieves an order and locks its row for the duration of
	// the surrounding transaction, so concurrent fulfillment recomputes of
	// the same order serialize instead of both reading a stale flag.
	GetForUpdate(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error)

	// List returns all orders of an organization, newest first.
	List(ctx context.Context, orgID uuid.UUID) ([]*models.Order, error)

	// UpdateFulfillment writes the fulfilled flag of an order.
	// Returns ErrOrderNotFound if absent or owned by another organization.
	UpdateFulfillment(ctx context.Context, orgID, orderID uuid.UUID, fulfilled bool) error
}
