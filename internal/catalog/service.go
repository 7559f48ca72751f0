package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
	"github.com/stockroomhq/stockroom/internal/telemetry"
)

// Validation errors for catalog operations
var (
	ErrNameRequired     = errors.New("product name is required")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeQuantity = errors.New("product quantity must not be negative")
)

// CreateProduct holds the caller-supplied fields for a new product. The
// organization is always taken from the authenticated caller, never from
// the payload.
type CreateProduct struct {
	Name        string
	Description *string
	Price       float64
	Quantity    *int64 // nil = untracked stock
}

// Service implements org-scoped product CRUD. Cross-tenant reads and writes
// surface as store.ErrProductNotFound so the existence of another tenant's
// products is never revealed.
type Service struct {
	products store.ProductStore
}

// NewService creates a catalog service over the given product store.
func NewService(products store.ProductStore) *Service {
	return &Service{
		products: products,
	}
}

// Create validates and persists a new product owned by orgID.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, input CreateProduct) (*models.Product, error) {
	if err := validate(input.Name, &input.Price, input.Quantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		ProductID:   uuid.Must(uuid.NewV7()),
		OrgID:       orgID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Info().
		Str("product_id", product.ProductID.String()).
		Str("org_id", orgID.String()).
		Str("name", product.Name).
		Msg("Created product")

	telemetry.GetMetrics().RecordProductCreated(ctx)

	return product, nil
}

// Get retrieves a product within the caller's organization.
func (s *Service) Get(ctx context.Context, orgID, productID uuid.UUID) (*models.Product, error) {
	return s.products.Get(ctx, orgID, productID)
}

// List returns the organization's products ordered by name.
func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]*models.Product, error) {
	return s.products.List(ctx, orgID)
}

// Update applies a partial update: only fields set in update overwrite the
// stored product.
func (s *Service) Update(ctx context.Context, orgID, productID uuid.UUID, update store.ProductUpdate) (*models.Product, error) {
	name := ""
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		update.Name = &name
	}
	if err := validate("-", update.Price, update.Quantity); err != nil {
		return nil, err
	}

	if update.Empty() {
		return s.products.Get(ctx, orgID, productID)
	}

	return s.products.Update(ctx, orgID, productID, update)
}

// Delete removes a product from the caller's organization. Deleting a
// product that is already gone (or was never theirs) reports not found.
func (s *Service) Delete(ctx context.Context, orgID, productID uuid.UUID) error {
	if err := s.products.Delete(ctx, orgID, productID); err != nil {
		return err
	}

	log.Info().
		Str("product_id", productID.String()).
		Str("org_id", orgID.String()).
		Msg("Deleted product")

	return nil
}

func validate(name string, price *float64, quantity *int64) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if price != nil && *price < 0 {
		return ErrNegativePrice
	}
	if quantity != nil && *quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}
