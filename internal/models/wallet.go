package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student owns exactly one prepaid wallet; the balance lives on the student row.
type Student struct {
	RegNo         string          `gorm:"column:reg_no;primaryKey;size:32" json:"regNo"`
	Name          string          `gorm:"size:120;not null" json:"name"`
	WalletBalance decimal.Decimal `gorm:"column:wallet_balance;type:numeric(12,2);not null;default:0;check:wallet_balance_non_negative,wallet_balance >= 0" json:"walletBalance"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

func (Student) TableName() string {
	return "students"
}
