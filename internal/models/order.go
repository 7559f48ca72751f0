package models

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a request for a quantity of a single product.
//
// TotalPrice is snapshotted at placement time (quantity x unit price) and is
// never recomputed when the product's price changes later. Fulfilled is
// derived from the stock check at placement (or a later recompute) and is
// never caller-supplied.
type Order struct {
	OrderID    uuid.UUID // UUIDv7
	OrgID      uuid.UUID // FK to organizations, always equals the product's org
	ProductID  uuid.UUID // FK to products
	Quantity   int64     // Positive requested quantity
	TotalPrice float64
	Fulfilled  bool
	OrderedAt  time.Time
}
