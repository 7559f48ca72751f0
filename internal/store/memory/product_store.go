package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

// ProductStore implements store.ProductStore using in-memory storage.
//
// Lookups always require the caller's org ID, so a product owned by another
// organization looks exactly like a missing one.
type ProductStore struct {
	mu sync.RWMutex

	products map[uuid.UUID]*models.Product // product_id -> Product
}

// NewProductStore creates a new in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[uuid.UUID]*models.Product),
	}
}

// get returns the stored product if it exists and belongs to orgID.
// Callers must hold the lock.
func (s *ProductStore) get(orgID, productID uuid.UUID) (*models.Product, bool) {
	product, exists := s.products[productID]
	if !exists || product.OrgID != orgID {
		return nil, false
	}
	return product, true
}

// Create creates a new product in memory.
func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := cloneProduct(product)
	s.products[product.ProductID] = clone

	return nil
}

// Get retrieves a product by ID within an organization.
func (s *ProductStore) Get(ctx context.Context, orgID, productID uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.get(orgID, productID)
	if !ok {
		return nil, store.ErrProductNotFound
	}

	return cloneProduct(product), nil
}

// List returns all products of an organization ordered by name.
func (s *ProductStore) List(ctx context.Context, orgID uuid.UUID) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var products []*models.Product
	for _, product := range s.products {
		if product.OrgID == orgID {
			products = append(products, cloneProduct(product))
		}
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// Update applies a partial update to a product.
func (s *ProductStore) Update(ctx context.Context, orgID, productID uuid.UUID, update store.ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.get(orgID, productID)
	if !ok {
		return nil, store.ErrProductNotFound
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		desc := *update.Description
		product.Description = &desc
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.SetQuantity {
		if update.Quantity == nil {
			product.Quantity = nil
		} else {
			qty := *update.Quantity
			product.Quantity = &qty
		}
	}

	return cloneProduct(product), nil
}

// Delete removes a product within an organization.
func (s *ProductStore) Delete(ctx context.Context, orgID, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.get(orgID, productID); !ok {
		return store.ErrProductNotFound
	}

	delete(s.products, productID)

	return nil
}

// DecrementStock atomically subtracts qty when enough tracked stock exists.
// The check and write happen under one lock acquisition, matching the
// postgres store's single-statement conditional update.
func (s *ProductStore) DecrementStock(ctx context.Context, orgID, productID uuid.UUID, qty int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.get(orgID, productID)
	if !ok {
		return false, store.ErrProductNotFound
	}

	if product.Quantity == nil || *product.Quantity < qty {
		return false, nil
	}

	remaining := *product.Quantity - qty
	product.Quantity = &remaining

	return true, nil
}

// snapshot returns clones of all products in an organization. Used by the
// in-memory analytics store.
func (s *ProductStore) snapshot(orgID uuid.UUID) []*models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var products []*models.Product
	for _, product := range s.products {
		if product.OrgID == orgID {
			products = append(products, cloneProduct(product))
		}
	}
	return products
}

// cloneProduct deep-copies a product including its nullable fields.
func cloneProduct(p *models.Product) *models.Product {
	clone := *p
	if p.Description != nil {
		desc := *p.Description
		clone.Description = &desc
	}
	if p.Quantity != nil {
		qty := *p.Quantity
		clone.Quantity = &qty
	}
	return &clone
}
