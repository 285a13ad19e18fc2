// Package catalog serves the canteen menu and answers price and
// availability lookups for order placement.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/repositories/cache"
)

const (
	DefaultMenuTTL = 5 * time.Minute

	availableKey = "available"
)

type Service interface {
	// PriceAndAvailability returns an entry for every id that exists. It
	// always reads the database so placement sees the live menu.
	PriceAndAvailability(ctx context.Context, ids []uint) (map[uint]models.PriceInfo, error)
	// ListMenu returns the available items by name, served from cache when possible.
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	// ListAll is the staff view including unavailable items.
	ListAll(ctx context.Context) ([]models.MenuItem, error)
	SetAvailability(ctx context.Context, id uint, available bool) error
	UpsertItem(ctx context.Context, item *models.MenuItem) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
}

type service struct {
	repo  repositories.MenuRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewService(repo repositories.MenuRepository, cache Cache, ttl time.Duration, log *slog.Logger) Service {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (s *service) PriceAndAvailability(ctx context.Context, ids []uint) (map[uint]models.PriceInfo, error) {
	items, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]models.PriceInfo, len(items))
	for _, item := range items {
		out[item.ID] = models.PriceInfo{Price: item.Price, Available: item.Available}
	}
	return out, nil
}

func (s *service) menuKey() string {
	return s.cache.GenerateKey(cache.EntityMenu, "list", availableKey)
}

func (s *service) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	key := s.menuKey()

	var items []models.MenuItem
	found, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		s.log.Warn("menu cache read failed", slog.Any("error", err))
	}
	if found {
		return items, nil
	}

	items, err = s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWithTTL(ctx, key, items, s.ttl); err != nil {
		s.log.Warn("menu cache write failed", slog.Any("error", err))
	}
	return items, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	return s.repo.List(ctx, false)
}

func (s *service) SetAvailability(ctx context.Context, id uint, available bool) error {
	if id == 0 {
		return apperrors.Newf(apperrors.ErrInvalidRequest, "item id is required")
	}
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) UpsertItem(ctx context.Context, item *models.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return apperrors.Newf(apperrors.ErrInvalidRequest, "item name is required")
	}
	if !item.Price.IsPositive() {
		return apperrors.Newf(apperrors.ErrInvalidAmount, "price of %s must be positive", item.Name)
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	repositories.AfterCommit(ctx, func(ctx context.Context) {
		if err := s.cache.Delete(ctx, s.menuKey()); err != nil {
			s.log.Warn("menu cache invalidation failed", slog.Any("error", err))
		}
	})
}
