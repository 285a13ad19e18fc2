package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

// Ledger entry types
const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

// WalletTransaction is an append-only ledger row. Every balance change writes
// exactly one of these in the same database transaction.
type WalletTransaction struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	RegNo     string          `gorm:"column:reg_no;size:32;not null;index" json:"regNo"`
	Student   *Student        `gorm:"foreignKey:RegNo;references:RegNo;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null;check:wallet_tx_amount_positive,amount > 0" json:"amount"`
	Type      TransactionType `gorm:"column:type;type:varchar(8);not null" json:"type"`
	OrderID   *uint           `gorm:"index" json:"orderId,omitempty"`
	Reference string          `gorm:"size:64;not null;uniqueIndex" json:"reference"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
