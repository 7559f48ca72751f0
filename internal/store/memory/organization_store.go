package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory
// storage. This implementation is for testing and development - data is lost
// on restart.
type OrganizationStore struct {
	mu sync.RWMutex

	orgs       map[uuid.UUID]*models.Organization // org_id -> Organization
	orgsByName map[string]*models.Organization    // name -> Organization
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{
		orgs:       make(map[uuid.UUID]*models.Organization),
		orgsByName: make(map[string]*models.Organization),
	}
}

// Create creates a new organization in memory.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[org.OrgID]; exists {
		return store.ErrOrganizationAlreadyExists
	}
	if _, exists := s.orgsByName[org.Name]; exists {
		return store.ErrOrganizationAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *org
	s.orgs[org.OrgID] = &clone
	s.orgsByName[org.Name] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.orgs[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.orgsByName[name]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}
