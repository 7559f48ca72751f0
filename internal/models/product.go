package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item in an organization's catalog.
//
// Quantity is nullable: nil means stock is not tracked for this product.
// Untracked products never fulfill orders and are excluded from inventory
// snapshots. A non-nil quantity never goes negative.
type Product struct {
	ProductID   uuid.UUID // UUIDv7
	OrgID       uuid.UUID // FK to organizations
	Name        string
	Description *string
	Price       float64 // Non-negative unit price
	Quantity    *int64  // nil = untracked stock
	CreatedAt   time.Time
}

// Tracked reports whether stock is tracked for this product.
func (p *Product) Tracked() bool {
	return p.Quantity != nil
}
