package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a member of an organization. Users authenticate with an
// email/password pair and act only within their own organization.
type User struct {
	UserID       uuid.UUID // UUIDv7
	OrgID        uuid.UUID // FK to organizations, immutable after creation
	Email        string    // Globally unique
	PasswordHash string    // bcrypt hash, never serialized
	Active       bool
	Admin        bool
	CreatedAt    time.Time
}
