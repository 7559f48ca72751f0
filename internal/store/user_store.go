package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// Create creates a new user.
	// Returns ErrEmailAlreadyExists if the email is already registered.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
