package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Every user, product and
// order belongs to exactly one organization, and all data access is scoped
// by its ID.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string    // Unique, human-readable
	CreatedAt time.Time
}
