package placement

import (
	"context"
	"time"

	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"

	"github.com/shopspring/decimal"
)

// Request limits
const (
	MaxCartLines   = 50
	MaxQuantity    = 100
	DefaultTimeout = 5 * time.Second
)

type CartLine struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gte=0,lte=100"`
}

type Request struct {
	RegNo string     `json:"regNo" validate:"required,max=32"`
	Cart  []CartLine `json:"cart" validate:"required,min=1,max=50,dive"`
}

type ReceiptLine struct {
	ItemID       uint            `json:"item_id"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Receipt is returned for a committed order.
type Receipt struct {
	OrderID     uint            `json:"orderId"`
	TokenID     uint            `json:"tokenId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Balance     decimal.Decimal `json:"balance"`
	Lines       []ReceiptLine   `json:"items"`
	// Skipped lists cart item ids that were missing or unavailable and
	// were left out of the order.
	Skipped []uint `json:"skipped_items"`
}

// Collaborators. Every method joins the transaction carried by ctx.

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type MenuReader interface {
	PriceAndAvailability(ctx context.Context, ids []uint) (map[uint]models.PriceInfo, error)
}

type Ledger interface {
	LockOwner(ctx context.Context, regNo string) (*models.Student, error)
	TryDebit(ctx context.Context, regNo string, amount decimal.Decimal, ref wallet.Ref) (decimal.Decimal, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, regNo string, total decimal.Decimal, lines []models.OrderLine) (*models.Order, error)
}

type SlotAllocator interface {
	AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error)
}
