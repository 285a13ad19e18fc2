// Package placement turns a cart into a paid order holding a pickup token.
//
// PlaceOrder runs as a single database transaction across the menu, the
// wallet ledger, the order store and the token pool:
//
//  1. price the cart against the live menu, dropping unavailable items
//  2. lock the owner's wallet row and check the balance covers the total
//  3. write the order and its lines
//  4. bind a free token slot to the order
//  5. debit the wallet and append the ledger entry
//
// Any failure rolls back every step, so a rejected attempt leaves no order,
// no bound slot and no balance change behind.
package placement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"

	"github.com/shopspring/decimal"
)

type Service interface {
	PlaceOrder(ctx context.Context, req Request) (*Receipt, error)
}

type Deps struct {
	Tx     Transactor
	Menu   MenuReader
	Wallet Ledger
	Orders OrderWriter
	Slots  SlotAllocator
	Events notify.Publisher
	Log    *slog.Logger
}

type service struct {
	tx      Transactor
	menu    MenuReader
	wallet  Ledger
	orders  OrderWriter
	slots   SlotAllocator
	events  notify.Publisher
	log     *slog.Logger
	timeout time.Duration
}

// NewService wires the orchestrator. timeout bounds each attempt; zero
// selects DefaultTimeout.
func NewService(deps Deps, timeout time.Duration) Service {
	if deps.Tx == nil || deps.Menu == nil || deps.Wallet == nil || deps.Orders == nil || deps.Slots == nil {
		panic("placement: all collaborators are required")
	}
	if deps.Events == nil {
		deps.Events = notify.NoopPublisher{}
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &service{
		tx:      deps.Tx,
		menu:    deps.Menu,
		wallet:  deps.Wallet,
		orders:  deps.Orders,
		slots:   deps.Slots,
		events:  deps.Events,
		log:     deps.Log,
		timeout: timeout,
	}
}

func (s *service) PlaceOrder(ctx context.Context, req Request) (*Receipt, error) {
	regNo, cart, err := normalize(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var receipt *Receipt
	err = s.tx.WithinTransaction(txCtx, func(txCtx context.Context) error {
		var err error
		receipt, err = s.place(txCtx, regNo, cart)
		return err
	})
	if err != nil {
		err = classify(txCtx, err)
		s.logFailure(regNo, err, time.Since(start))
		return nil, err
	}

	s.announce(ctx, regNo, receipt)
	s.log.Info("order placed",
		slog.String("reg_no", regNo),
		slog.Uint64("order_id", uint64(receipt.OrderID)),
		slog.Uint64("token_id", uint64(receipt.TokenID)),
		slog.String("total", receipt.TotalAmount.StringFixed(2)),
		slog.Int("skipped", len(receipt.Skipped)),
		slog.Duration("duration", time.Since(start)))
	return receipt, nil
}

func (s *service) place(ctx context.Context, regNo string, cart []CartLine) (*Receipt, error) {
	prices, err := s.menu.PriceAndAvailability(ctx, distinctIDs(cart))
	if err != nil {
		return nil, err
	}

	lines, skipped, total := priceCart(cart, prices)
	if len(lines) == 0 {
		return nil, apperrors.Newf(apperrors.ErrNoItemsAvailable, "none of the %d requested items can be ordered", len(cart))
	}
	if !total.IsPositive() {
		return nil, apperrors.Wrap(apperrors.ErrInternalConsistency,
			fmt.Errorf("computed total %s for %d lines", total, len(lines)))
	}

	student, err := s.wallet.LockOwner(ctx, regNo)
	if err != nil {
		return nil, err
	}
	if student.WalletBalance.LessThan(total) {
		return nil, apperrors.Newf(apperrors.ErrInsufficientFunds,
			"balance %s, order total %s", student.WalletBalance.StringFixed(2), total.StringFixed(2))
	}

	order, err := s.orders.CreateOrder(ctx, regNo, total, lines)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.AcquireFree(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	balance, err := s.wallet.TryDebit(ctx, regNo, total, wallet.OrderDebit(order.ID))
	if err != nil {
		// The wallet row is locked and was checked above.
		if apperrors.Is(err, apperrors.ErrInsufficientFunds) || apperrors.Is(err, apperrors.ErrUnknownOwner) {
			return nil, apperrors.Wrap(apperrors.ErrInternalConsistency,
				fmt.Errorf("debit of order %d rejected after balance check: %v", order.ID, err))
		}
		return nil, err
	}

	receipt := &Receipt{
		OrderID:     order.ID,
		TokenID:     slot.ID,
		TotalAmount: total,
		Balance:     balance,
		Lines:       make([]ReceiptLine, 0, len(lines)),
		Skipped:     skipped,
	}
	for _, line := range lines {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			ItemID:       line.ItemID,
			Quantity:     line.Quantity,
			PriceAtOrder: line.PriceAtOrder,
			Subtotal:     line.Subtotal(),
		})
	}
	return receipt, nil
}

func (s *service) announce(ctx context.Context, regNo string, r *Receipt) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	err := s.events.Publish(pubCtx, notify.EventOrderPlaced, notify.OrderPlaced{
		OrderID:     r.OrderID,
		RegNo:       regNo,
		TokenID:     r.TokenID,
		TotalAmount: r.TotalAmount,
		Items:       len(r.Lines),
		PlacedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("publish order placed event failed",
			slog.Uint64("order_id", uint64(r.OrderID)),
			slog.Any("error", err))
	}
}

func (s *service) logFailure(regNo string, err error, elapsed time.Duration) {
	attrs := []any{
		slog.String("reg_no", regNo),
		slog.String("code", apperrors.CodeOf(err)),
		slog.Duration("duration", elapsed),
	}
	if apperrors.IsInfrastructure(err) {
		s.log.Error("order placement failed", append(attrs, slog.Any("error", err))...)
		return
	}
	s.log.Info("order rejected", append(attrs, slog.String("reason", err.Error()))...)
}

// classify makes sure every error leaving the orchestrator is in the taxonomy.
func classify(ctx context.Context, err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, fmt.Errorf("%w: %v", ctxErr, err))
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}

func normalize(req Request) (string, []CartLine, error) {
	regNo := strings.TrimSpace(req.RegNo)
	if regNo == "" {
		return "", nil, apperrors.Newf(apperrors.ErrInvalidRequest, "regNo is required")
	}
	if len(req.Cart) == 0 {
		return "", nil, apperrors.Newf(apperrors.ErrInvalidRequest, "cart is empty")
	}
	if len(req.Cart) > MaxCartLines {
		return "", nil, apperrors.Newf(apperrors.ErrInvalidRequest, "cart has more than %d lines", MaxCartLines)
	}

	cart := make([]CartLine, len(req.Cart))
	for i, line := range req.Cart {
		switch {
		case line.ItemID == 0:
			return "", nil, apperrors.Newf(apperrors.ErrInvalidRequest, "line %d: item_id is required", i+1)
		case line.Quantity < 0:
			return "", nil, apperrors.Newf(apperrors.ErrInvalidRequest, "line %d: quantity cannot be negative", i+1)
		case line.Quantity > MaxQuantity:
			return "", nil, apperrors.Newf(apperrors.ErrInvalidRequest, "line %d: quantity above %d", i+1, MaxQuantity)
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		cart[i] = line
	}
	return regNo, cart, nil
}

func distinctIDs(cart []CartLine) []uint {
	seen := make(map[uint]struct{}, len(cart))
	ids := make([]uint, 0, len(cart))
	for _, line := range cart {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}
	return ids
}

// priceCart keeps cart order. Each cart line becomes one order line, so a
// repeated item id yields repeated lines.
func priceCart(cart []CartLine, prices map[uint]models.PriceInfo) ([]models.OrderLine, []uint, decimal.Decimal) {
	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(cart))
	var skipped []uint

	for _, c := range cart {
		info, ok := prices[c.ItemID]
		if !ok || !info.Available {
			skipped = append(skipped, c.ItemID)
			continue
		}
		line := models.OrderLine{
			ItemID:       c.ItemID,
			Quantity:     c.Quantity,
			PriceAtOrder: info.Price,
		}
		lines = append(lines, line)
		total = total.Add(line.Subtotal())
	}
	return lines, skipped, total
}
