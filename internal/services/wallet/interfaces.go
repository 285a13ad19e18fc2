package wallet

import (
	"context"
	"time"

	"github.com/Raghu0511/canteen-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Service defines the main wallet service interface
type Service interface {
	// Balance operations
	Profile(ctx context.Context, regNo string) (*models.Student, error)
	BalanceOf(ctx context.Context, regNo string) (decimal.Decimal, error)
	LockOwner(ctx context.Context, regNo string) (*models.Student, error)

	// Core ledger operations; both return the balance after the change.
	TryDebit(ctx context.Context, regNo string, amount decimal.Decimal, ref Ref) (decimal.Decimal, error)
	Credit(ctx context.Context, regNo string, amount decimal.Decimal, ref Ref) (decimal.Decimal, error)
	// TopUp is a counter top-up: a Credit bounded by WalletConfig.MaxCredit.
	TopUp(ctx context.Context, regNo string, amount decimal.Decimal) (decimal.Decimal, error)

	// History and audit
	Transactions(ctx context.Context, regNo string, limit, offset int) ([]models.WalletTransaction, error)
	Reconcile(ctx context.Context, regNo string) (*Reconciliation, error)

	// OpenAccount creates the student and records the opening balance as a
	// credit. It reports false when the student already existed.
	OpenAccount(ctx context.Context, student *models.Student, opening decimal.Decimal) (bool, error)
}

// Cache is the subset of cache.CacheService the wallet uses.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
}
