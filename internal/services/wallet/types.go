package wallet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ref ties a ledger entry to its cause. Key must be unique per entry; an
// empty Key gets a random one.
type Ref struct {
	OrderID *uint
	Key     string
}

// OrderDebit is the reference used when an order is paid.
func OrderDebit(orderID uint) Ref {
	return Ref{OrderID: &orderID, Key: fmt.Sprintf("order-%d-debit", orderID)}
}

// OrderRefund is the reference used when a cancelled order is refunded.
// Its fixed key keeps an order from being refunded twice.
func OrderRefund(orderID uint) Ref {
	return Ref{OrderID: &orderID, Key: fmt.Sprintf("order-%d-refund", orderID)}
}

func (r Ref) key() string {
	if r.Key != "" {
		return r.Key
	}
	return uuid.NewString()
}

// WalletConfig holds configuration for wallet operations
type WalletConfig struct {
	ProfileTTL time.Duration
	// MaxCredit caps a single top-up.
	MaxCredit decimal.Decimal
}

type Reconciliation struct {
	RegNo    string          `json:"regNo"`
	Balance  decimal.Decimal `json:"balance"`
	Credits  decimal.Decimal `json:"credits"`
	Debits   decimal.Decimal `json:"debits"`
	Expected decimal.Decimal `json:"expected"`
	Balanced bool            `json:"balanced"`
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}
