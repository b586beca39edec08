package mocks

import (
	"context"
	"sync"

	"github.com/fukushu-app/fukushu-api/internal/store"
)

// TxRunner is a store.TxRunner fake. It invokes the transaction function
// with a nil *sql.Tx; the in-memory stores in this package ignore the
// transaction handle, so services under test behave as if every operation
// committed immediately.
type TxRunner struct {
	// RunFn overrides the default behavior when set.
	RunFn func(ctx context.Context, fn store.TxFn) error

	mu    sync.Mutex
	calls int
}

var _ store.TxRunner = (*TxRunner)(nil)

// RunInTransaction implements store.TxRunner.
func (r *TxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.RunFn != nil {
		return r.RunFn(ctx, fn)
	}
	return fn(ctx, nil)
}

// Calls returns how many transactions have been started.
func (r *TxRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
