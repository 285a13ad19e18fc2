package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID        uint            `gorm:"column:item_id;primaryKey" json:"item_id"`
	Name      string          `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null;check:menu_price_positive,price > 0" json:"price"`
	Available bool            `gorm:"column:availability;not null" json:"availability"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// PriceInfo is the catalog's answer for one item id at placement time.
type PriceInfo struct {
	Price     decimal.Decimal
	Available bool
}
