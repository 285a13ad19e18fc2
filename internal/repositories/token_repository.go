package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotView is a token slot joined with the status of the order it holds.
type SlotView struct {
	models.TokenSlot
	OrderStatus *models.OrderStatus `gorm:"column:order_status"`
	RegNo       *string             `gorm:"column:reg_no"`
}

type TokenRepository interface {
	// AcquireFree binds the lowest numbered free slot to orderID.
	AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error)
	// Release returns a slot to the pool whatever its current state.
	Release(ctx context.Context, slotID uint) (*models.TokenSlot, error)
	// Advance moves a slot one step along occupied, ready, free.
	Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error)
	Get(ctx context.Context, slotID uint) (*models.TokenSlot, error)
	FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error)
	List(ctx context.Context) ([]SlotView, error)
	// EnsurePool tops the pool up to size free slots and reports how many were added.
	EnsurePool(ctx context.Context, size int) (int, error)
}

type tokenRepository struct {
	db *gorm.DB
	tx *TxManager
}

func NewTokenRepository(db *gorm.DB, tx *TxManager) TokenRepository {
	return &tokenRepository{db: db, tx: tx}
}

func (r *tokenRepository) AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	var slot models.TokenSlot
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		// SKIP LOCKED lets concurrent placements each take a different slot
		// instead of queueing behind the first one.
		err := db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", models.SlotFree).
			Order("token_id ASC").
			Take(&slot).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNoFreeSlots
			}
			return storeErr(fmt.Errorf("select free slot: %w", err))
		}

		now := time.Now()
		res := db.Model(&models.TokenSlot{}).
			Where("token_id = ? AND status = ?", slot.ID, models.SlotFree).
			Updates(map[string]any{
				"status":       models.SlotOccupied,
				"order_id":     orderID,
				"last_updated": now,
			})
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return apperrors.Wrap(apperrors.ErrInternalConsistency,
					fmt.Errorf("order %d already holds a slot", orderID))
			}
			return storeErr(fmt.Errorf("claim slot: %w", res.Error))
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNoFreeSlots
		}

		slot.Status = models.SlotOccupied
		slot.OrderID = &orderID
		slot.LastUpdated = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *tokenRepository) Release(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	var slot *models.TokenSlot
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := r.lockSlot(ctx, slotID)
		if err != nil {
			return err
		}
		slot, err = r.setState(ctx, locked, models.SlotFree)
		return err
	})
	return slot, err
}

func (r *tokenRepository) Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error) {
	var slot *models.TokenSlot
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := r.lockSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if !locked.Status.CanAdvanceTo(next) {
			return apperrors.Newf(apperrors.ErrInvalidTransition,
				"token %d is %s and cannot become %s", slotID, locked.Status, next)
		}
		slot, err = r.setState(ctx, locked, next)
		return err
	})
	return slot, err
}

func (r *tokenRepository) lockSlot(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	var slot models.TokenSlot
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_id = ?", slotID).
		Take(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrSlotNotFound, "token %d", slotID)
		}
		return nil, storeErr(fmt.Errorf("lock slot: %w", err))
	}
	return &slot, nil
}

func (r *tokenRepository) setState(ctx context.Context, slot *models.TokenSlot, next models.SlotState) (*models.TokenSlot, error) {
	updates := map[string]any{
		"status":       next,
		"last_updated": time.Now(),
	}
	if next == models.SlotFree {
		updates["order_id"] = nil
	}
	if err := conn(ctx, r.db).Model(&models.TokenSlot{}).Where("token_id = ?", slot.ID).Updates(updates).Error; err != nil {
		return nil, storeErr(fmt.Errorf("update slot: %w", err))
	}

	slot.Status = next
	slot.LastUpdated = updates["last_updated"].(time.Time)
	if next == models.SlotFree {
		slot.OrderID = nil
	}
	return slot, nil
}

func (r *tokenRepository) Get(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	var slot models.TokenSlot
	if err := conn(ctx, r.db).Where("token_id = ?", slotID).Take(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrSlotNotFound, "token %d", slotID)
		}
		return nil, storeErr(fmt.Errorf("get slot: %w", err))
	}
	return &slot, nil
}

func (r *tokenRepository) FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	var slot models.TokenSlot
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).Take(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrSlotNotFound, "no token for order %d", orderID)
		}
		return nil, storeErr(fmt.Errorf("find slot by order: %w", err))
	}
	return &slot, nil
}

func (r *tokenRepository) List(ctx context.Context) ([]SlotView, error) {
	var slots []SlotView
	err := conn(ctx, r.db).
		Table("token_slots AS t").
		Select("t.token_id, t.order_id, t.status, t.last_updated, o.status AS order_status, o.reg_no").
		Joins("LEFT JOIN orders o ON o.order_id = t.order_id").
		Order("t.token_id ASC").
		Scan(&slots).Error
	if err != nil {
		return nil, storeErr(fmt.Errorf("list slots: %w", err))
	}
	return slots, nil
}

func (r *tokenRepository) EnsurePool(ctx context.Context, size int) (int, error) {
	added := 0
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		var count int64
		if err := db.Model(&models.TokenSlot{}).Count(&count).Error; err != nil {
			return storeErr(fmt.Errorf("count slots: %w", err))
		}
		missing := size - int(count)
		if missing <= 0 {
			return nil
		}

		slots := make([]models.TokenSlot, missing)
		for i := range slots {
			slots[i].Status = models.SlotFree
		}
		if err := db.Create(&slots).Error; err != nil {
			return storeErr(fmt.Errorf("create slots: %w", err))
		}
		added = missing
		return nil
	})
	return added, err
}
