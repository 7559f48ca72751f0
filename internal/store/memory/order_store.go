package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

// OrderStore implements store.OrderStore using in-memory storage.
type OrderStore struct {
	mu sync.RWMutex

	orders map[uuid.UUID]*models.Order // order_id -> Order
}

// NewOrderStore creates a new in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[uuid.UUID]*models.Order),
	}
}

func (s *OrderStore) get(orgID, orderID uuid.UUID) (*models.Order, bool) {
	order, exists := s.orders[orderID]
	if !exists || order.OrgID != orgID {
		return nil, false
	}
	return order, true
}

// Create persists a new order in memory.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *order
	s.orders[order.OrderID] = &clone

	return nil
}

// Get retrieves an order by ID within an organization.
func (s *OrderStore) Get(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.get(orgID, orderID)
	if !ok {
		return nil, store.ErrOrderNotFound
	}

	clone := *order
	return &clone, nil
}

// GetForUpdate retrieves an order for a read-modify-write cycle. The
// in-memory transaction manager serializes transactions with a global
// mutex, so no per-row lock is needed here.
func (s *OrderStore) GetForUpdate(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	return s.Get(ctx, orgID, orderID)
}

// List returns all orders of an organization, newest first.
func (s *OrderStore) List(ctx context.Context, orgID uuid.UUID) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []*models.Order
	for _, order := range s.orders {
		if order.OrgID == orgID {
			clone := *order
			orders = append(orders, &clone)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderedAt.Equal(orders[j].OrderedAt) {
			return orders[i].OrderID.String() > orders[j].OrderID.String()
		}
		return orders[i].OrderedAt.After(orders[j].OrderedAt)
	})

	return orders, nil
}

// UpdateFulfillment writes the fulfilled flag of an order.
func (s *OrderStore) UpdateFulfillment(ctx context.Context, orgID, orderID uuid.UUID, fulfilled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.get(orgID, orderID)
	if !ok {
		return store.ErrOrderNotFound
	}

	order.Fulfilled = fulfilled

	return nil
}

// snapshot returns clones of all orders in an organization. Used by the
// in-memory analytics store.
func (s *OrderStore) snapshot(orgID uuid.UUID) []*models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []*models.Order
	for _, order := range s.orders {
		if order.OrgID == orgID {
			clone := *order
			orders = append(orders, &clone)
		}
	}
	return orders
}
