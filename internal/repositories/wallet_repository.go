package repositories

import (
	"context"

	"github.com/Raghu0511/canteen-backend/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerEntry describes one balance change. Reference must be unique
// across the ledger.
type LedgerEntry struct {
	RegNo     string
	Amount    decimal.Decimal
	OrderID   *uint
	Reference string
}

// LedgerTotals sums a student's ledger by direction.
type LedgerTotals struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
}

// WalletRepository defines the interface for wallet-related database operations
type WalletRepository interface {
	FindStudent(ctx context.Context, regNo string) (*models.Student, error)
	// LockStudent reads the student row with FOR UPDATE. It must run inside
	// a transaction for the lock to outlive the statement.
	LockStudent(ctx context.Context, regNo string) (*models.Student, error)

	// Debit subtracts entry.Amount only if the balance covers it and appends
	// the ledger row in the same transaction. It returns the new balance.
	Debit(ctx context.Context, entry LedgerEntry) (decimal.Decimal, error)
	Credit(ctx context.Context, entry LedgerEntry) (decimal.Decimal, error)

	Transactions(ctx context.Context, regNo string, limit, offset int) ([]models.WalletTransaction, error)
	Totals(ctx context.Context, regNo string) (*LedgerTotals, error)

	// CreateStudent inserts a student with zero balance. It reports false
	// when the student already existed.
	CreateStudent(ctx context.Context, student *models.Student) (bool, error)
}
