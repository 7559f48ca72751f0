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

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with the other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

// Create creates a new organization in the database.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			org_id, name, created_at
		) VALUES (
			$1, $2, $3
		)
	`

	_, err := queryTarget(ctx, s.pool).Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at
		FROM organizations
		WHERE org_id = $1
	`

	return s.scanOne(queryTarget(ctx, s.pool).QueryRow(ctx, query, orgID))
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at
		FROM organizations
		WHERE name = $1
	`

	return s.scanOne(queryTarget(ctx, s.pool).QueryRow(ctx, query, name))
}

func (s *OrganizationStore) scanOne(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(
		&org.OrgID,
		&org.Name,
		&org.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", mapPostgresError(err))
	}

	return &org, nil
}
