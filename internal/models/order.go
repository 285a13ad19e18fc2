package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

var orderProgress = map[OrderStatus]int{
	OrderPending:   1,
	OrderPreparing: 2,
	OrderReady:     3,
	OrderCompleted: 4,
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo allows forward moves along Pending, Preparing, Ready,
// Completed (steps may be skipped) and cancellation of any open order.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	from, ok := orderProgress[s]
	if !ok {
		return false
	}
	to, ok := orderProgress[next]
	return ok && to > from
}

type Order struct {
	ID          uint            `gorm:"column:order_id;primaryKey" json:"order_id"`
	RegNo       string          `gorm:"column:reg_no;size:32;not null;index:idx_orders_owner_time,priority:1" json:"regNo"`
	Student     *Student        `gorm:"foreignKey:RegNo;references:RegNo;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;check:order_total_positive,total_amount > 0" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:varchar(16);not null" json:"status"`
	OrderTime   time.Time       `gorm:"column:order_time;autoCreateTime;index:idx_orders_owner_time,priority:2" json:"order_time"`
	UpdatedAt   time.Time       `json:"-"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE" json:"items"`
	Slot        *TokenSlot      `gorm:"foreignKey:OrderID;references:ID" json:"token,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine snapshots the item price at the moment the order was placed.
type OrderLine struct {
	ID           uint            `gorm:"primarykey" json:"-"`
	OrderID      uint            `gorm:"not null;index" json:"-"`
	ItemID       uint            `gorm:"not null" json:"item_id"`
	Item         *MenuItem       `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity     int             `gorm:"not null;check:order_line_quantity_positive,quantity >= 1" json:"quantity"`
	PriceAtOrder decimal.Decimal `gorm:"column:price_at_order;type:numeric(12,2);not null" json:"price_at_order"`
}

func (OrderLine) TableName() string {
	return "order_details"
}

// ItemName is empty unless the line was loaded with its menu item.
func (l OrderLine) ItemName() string {
	if l.Item == nil {
		return ""
	}
	return l.Item.Name
}

// Subtotal is price_at_order times quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtOrder.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
