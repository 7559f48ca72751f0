package memory

import (
	"context"
	"sync"
)

// TxManager implements store.TxManager for the in-memory stores by
// serializing all transactional sections behind one lock. There is no
// rollback: callers must order their writes so later steps can't fail
// (the order engine decrements stock with an atomic conditional write
// before inserting the order, and in-memory inserts don't fail).
type TxManager struct {
	mu sync.Mutex
}

// NewTxManager creates an in-memory transaction manager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// WithTx runs fn while holding the global write lock.
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx)
}
