package repositories

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type txKey struct{}

type txState struct {
	db *gorm.DB

	mu          sync.Mutex
	afterCommit []func(context.Context)
}

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction begins a transaction and hands fn a context carrying it.
// When ctx already carries a transaction fn joins it, so repository methods
// compose into one atomic unit. A non-nil error from fn rolls back.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	state := &txState{}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.db = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return storeErr(err)
	}

	state.mu.Lock()
	hooks := state.afterCommit
	state.mu.Unlock()
	for _, hook := range hooks {
		hook(context.WithoutCancel(ctx))
	}
	return nil
}

// AfterCommit defers fn until the transaction carried by ctx commits. It
// is dropped on rollback. Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	state := txFromContext(ctx)
	if state == nil {
		fn(ctx)
		return
	}
	state.mu.Lock()
	state.afterCommit = append(state.afterCommit, fn)
	state.mu.Unlock()
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	return txFromContext(ctx) != nil
}

func txFromContext(ctx context.Context) *txState {
	state, _ := ctx.Value(txKey{}).(*txState)
	return state
}

// conn picks the transaction carried by ctx, or the pool.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if state := txFromContext(ctx); state != nil {
		return state.db.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
