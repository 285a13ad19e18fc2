// Package tokens manages the fixed pool of physical pickup tokens.
package tokens

import (
	"context"
	"log/slog"

	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
)

type Service interface {
	AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error)
	Release(ctx context.Context, slotID uint) (*models.TokenSlot, error)
	Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error)
	Get(ctx context.Context, slotID uint) (*models.TokenSlot, error)
	FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error)
	List(ctx context.Context) ([]repositories.SlotView, error)
	EnsurePool(ctx context.Context, size int) (int, error)
}

type service struct {
	repo   repositories.TokenRepository
	events notify.Publisher
	log    *slog.Logger
}

func NewService(repo repositories.TokenRepository, events notify.Publisher, log *slog.Logger) Service {
	if events == nil {
		events = notify.NoopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{repo: repo, events: events, log: log}
}

func (s *service) AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	return s.repo.AcquireFree(ctx, orderID)
}

func (s *service) Release(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	slot, err := s.repo.Release(ctx, slotID)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, slot)
	return slot, nil
}

func (s *service) Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error) {
	slot, err := s.repo.Advance(ctx, slotID, next)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, slot)
	return slot, nil
}

func (s *service) Get(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	return s.repo.Get(ctx, slotID)
}

func (s *service) FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	return s.repo.FindByOrder(ctx, orderID)
}

func (s *service) List(ctx context.Context) ([]repositories.SlotView, error) {
	return s.repo.List(ctx)
}

func (s *service) EnsurePool(ctx context.Context, size int) (int, error) {
	return s.repo.EnsurePool(ctx, size)
}

// announce publishes once the surrounding transaction, if any, commits.
func (s *service) announce(ctx context.Context, slot *models.TokenSlot) {
	event := notify.TokenStatusChanged{
		TokenID: slot.ID,
		OrderID: slot.OrderID,
		Status:  string(slot.Status),
		Colour:  slot.Status.Colour(),
	}
	repositories.AfterCommit(ctx, func(ctx context.Context) {
		if err := s.events.Publish(ctx, notify.EventTokenStatusChanged, event); err != nil {
			s.log.Warn("publish token event failed",
				slog.Uint64("token_id", uint64(slot.ID)),
				slog.Any("error", err))
		}
	})
}
