package store

import (
	"context"
	"errors"
)

// ErrTxConflict wraps transient transaction conflicts (serialization
// failures, deadlocks). Callers may retry the whole transaction.
var ErrTxConflict = errors.New("transaction conflict")

// TxManager runs a function inside a transaction boundary. Store operations
// invoked with the context passed to fn participate in the same transaction;
// if fn returns an error every write inside it is rolled back.
//
// The postgres implementation opens a pgx transaction, the memory
// implementation serializes writers behind a single lock.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
