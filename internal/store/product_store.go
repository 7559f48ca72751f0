package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/models"
)

// ErrProductNotFound is returned when a product doesn't exist or belongs to
// a different organization. The two cases are deliberately indistinguishable
// so callers can't probe for products across tenants.
var ErrProductNotFound = errors.New("product not found")

// ProductUpdate describes a partial update to a product. Only non-nil fields
// overwrite the stored value. Quantity is special-cased with SetQuantity so
// "leave unchanged" and "set to untracked" remain distinct.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64

	// SetQuantity indicates Quantity should be written. When true and
	// Quantity is nil the product becomes untracked.
	SetQuantity bool
	Quantity    *int64
}

// Empty reports whether the update carries no changes.
func (u *ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && !u.SetQuantity
}

// ProductStore defines the interface for product storage operations.
// Every operation is scoped by organization ID.
type ProductStore interface {
	// Create creates a new product.
	Create(ctx context.Context, product *models.Product) error

	// Get retrieves a product by ID within an organization.
	// Returns ErrProductNotFound if absent or owned by another organization.
	Get(ctx context.Context, orgID, productID uuid.UUID) (*models.Product, error)

	// List returns all products of an organization ordered by name.
	List(ctx context.Context, orgID uuid.UUID) ([]*models.Product, error)

	// Update applies a partial update to a product.
	// Returns ErrProductNotFound if absent or owned by another organization.
	Update(ctx context.Context, orgID, productID uuid.UUID, update ProductUpdate) (*models.Product, error)

	// Delete removes a product.
	// Returns ErrProductNotFound if absent or owned by another organization.
	Delete(ctx context.Context, orgID, productID uuid.UUID) error

	// DecrementStock atomically subtracts qty from the product's quantity if
	// the product is tracked and has at least qty in stock. Returns true when
	// the decrement was applied, false when stock was insufficient or
	// untracked. The check and the write are a single atomic step so two
	// concurrent decrements can never oversell.
	// Returns ErrProductNotFound if absent or owned by another organization.
	DecrementStock(ctx context.Context, orgID, productID uuid.UUID, qty int64) (bool, error)
}
