// Package notify publishes domain events for the kitchen display and other
// consumers. Publishing happens after the database commit and is best
// effort: a failed publish never undoes a committed change.
package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventTokenStatusChanged = "token.status_changed"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type OrderPlaced struct {
	OrderID     uint            `json:"order_id"`
	RegNo       string          `json:"reg_no"`
	TokenID     uint            `json:"token_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       int             `json:"items"`
	PlacedAt    time.Time       `json:"placed_at"`
}

type OrderStatusChanged struct {
	OrderID uint   `json:"order_id"`
	RegNo   string `json:"reg_no"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type TokenStatusChanged struct {
	TokenID uint   `json:"token_id"`
	OrderID *uint  `json:"order_id,omitempty"`
	Status  string `json:"status"`
	Colour  string `json:"colour"`
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
