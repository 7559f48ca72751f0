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

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL-backed user store.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool: pool,
	}
}

// Create creates a new user in the database.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			user_id, org_id, email, password_hash, active, admin, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := queryTarget(ctx, s.pool).Exec(ctx, query,
		user.UserID,
		user.OrgID,
		user.Email,
		user.PasswordHash,
		user.Active,
		user.Admin,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Str("org_id", user.OrgID.String()).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT user_id, org_id, email, password_hash, active, admin, created_at
		FROM users
		WHERE user_id = $1
	`

	return s.scanOne(queryTarget(ctx, s.pool).QueryRow(ctx, query, userID))
}

// GetByEmail retrieves a user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, org_id, email, password_hash, active, admin, created_at
		FROM users
		WHERE email = $1
	`

	return s.scanOne(queryTarget(ctx, s.pool).QueryRow(ctx, query, email))
}

func (s *UserStore) scanOne(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.OrgID,
		&user.Email,
		&user.PasswordHash,
		&user.Active,
		&user.Admin,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", mapPostgresError(err))
	}

	return &user, nil
}
