// Package orders is the order store: order records, their lines, history
// and the staff driven status lifecycle.
package orders

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"

	"github.com/shopspring/decimal"
)

type Service interface {
	// CreateOrder persists a Pending order and all its lines atomically.
	CreateOrder(ctx context.Context, regNo string, total decimal.Decimal, lines []models.OrderLine) (*models.Order, error)
	History(ctx context.Context, regNo string) ([]models.Order, error)
	Get(ctx context.Context, orderID uint) (*models.Order, error)
	// UpdateStatus moves an order forward and keeps its token slot and the
	// wallet in step in the same transaction.
	UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error)
}

// SlotController is the part of the token pool the status lifecycle drives.
type SlotController interface {
	FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error)
	Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error)
	Release(ctx context.Context, slotID uint) (*models.TokenSlot, error)
}

// Refunder credits a cancelled order back to its owner.
type Refunder interface {
	Credit(ctx context.Context, regNo string, amount decimal.Decimal, ref wallet.Ref) (decimal.Decimal, error)
}

type service struct {
	repo   repositories.OrderRepository
	tx     repositories.Transactor
	slots  SlotController
	wallet Refunder
	events notify.Publisher
	log    *slog.Logger
}

func NewService(
	repo repositories.OrderRepository,
	tx repositories.Transactor,
	slots SlotController,
	refunder Refunder,
	events notify.Publisher,
	log *slog.Logger,
) Service {
	if events == nil {
		events = notify.NoopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo:   repo,
		tx:     tx,
		slots:  slots,
		wallet: refunder,
		events: events,
		log:    log,
	}
}

func (s *service) CreateOrder(ctx context.Context, regNo string, total decimal.Decimal, lines []models.OrderLine) (*models.Order, error) {
	if strings.TrimSpace(regNo) == "" {
		return nil, apperrors.Newf(apperrors.ErrInvalidRequest, "regNo is required")
	}
	if len(lines) == 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidRequest, "an order needs at least one line")
	}
	if !total.IsPositive() {
		return nil, apperrors.Newf(apperrors.ErrInvalidAmount, "order total must be positive")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, apperrors.Newf(apperrors.ErrInvalidRequest, "quantity for item %d must be at least 1", line.ItemID)
		}
	}

	order := &models.Order{
		RegNo:       regNo,
		TotalAmount: total,
		Status:      models.OrderPending,
		Lines:       lines,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) History(ctx context.Context, regNo string) ([]models.Order, error) {
	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		return nil, apperrors.Newf(apperrors.ErrInvalidRequest, "regNo is required")
	}
	return s.repo.History(ctx, regNo)
}

func (s *service) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *service) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var changed notify.OrderStatusChanged

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.Lock(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return apperrors.Newf(apperrors.ErrInvalidTransition,
				"order %d is %s and cannot become %s", orderID, order.Status, next)
		}
		if err := s.repo.SetStatus(ctx, orderID, next); err != nil {
			return err
		}
		if err := s.syncSlot(ctx, order, next); err != nil {
			return err
		}
		if next == models.OrderCancelled {
			if _, err := s.wallet.Credit(ctx, order.RegNo, order.TotalAmount, wallet.OrderRefund(order.ID)); err != nil {
				return err
			}
		}

		changed = notify.OrderStatusChanged{
			OrderID: order.ID,
			RegNo:   order.RegNo,
			From:    string(order.Status),
			To:      string(next),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	repositories.AfterCommit(ctx, func(ctx context.Context) {
		if err := s.events.Publish(ctx, notify.EventOrderStatusChanged, changed); err != nil {
			s.log.Warn("publish order status event failed",
				slog.Uint64("order_id", uint64(orderID)),
				slog.Any("error", err))
		}
	})
	s.log.Info("order status changed",
		slog.Uint64("order_id", uint64(orderID)),
		slog.String("from", changed.From),
		slog.String("to", changed.To))

	return s.repo.Get(ctx, orderID)
}

// syncSlot moves the order's token along with the order: Ready lights the
// token green, Completed and Cancelled hand it back to the pool.
func (s *service) syncSlot(ctx context.Context, order *models.Order, next models.OrderStatus) error {
	slot, err := s.slots.FindByOrder(ctx, order.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSlotNotFound) {
			return nil
		}
		return err
	}

	switch next {
	case models.OrderReady:
		if slot.Status == models.SlotOccupied {
			_, err = s.slots.Advance(ctx, slot.ID, models.SlotReady)
		}
	case models.OrderCompleted:
		if slot.Status == models.SlotReady {
			_, err = s.slots.Advance(ctx, slot.ID, models.SlotFree)
		} else {
			_, err = s.slots.Release(ctx, slot.ID)
		}
	case models.OrderCancelled:
		_, err = s.slots.Release(ctx, slot.ID)
	}
	return err
}
