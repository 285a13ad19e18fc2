package repositories

import (
	"context"
	"fmt"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	// List returns items ordered by name, optionally only available ones.
	List(ctx context.Context, onlyAvailable bool) ([]models.MenuItem, error)
	SetAvailability(ctx context.Context, id uint, available bool) error
	// Upsert inserts item or updates price and availability by name.
	Upsert(ctx context.Context, item *models.MenuItem) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	if err := conn(ctx, r.db).Where("item_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, storeErr(fmt.Errorf("find menu items: %w", err))
	}
	return items, nil
}

func (r *menuRepository) List(ctx context.Context, onlyAvailable bool) ([]models.MenuItem, error) {
	q := conn(ctx, r.db).Order("name ASC")
	if onlyAvailable {
		q = q.Where("availability = ?", true)
	}
	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, storeErr(fmt.Errorf("list menu items: %w", err))
	}
	return items, nil
}

func (r *menuRepository) SetAvailability(ctx context.Context, id uint, available bool) error {
	res := conn(ctx, r.db).Model(&models.MenuItem{}).
		Where("item_id = ?", id).
		Update("availability", available)
	if res.Error != nil {
		return storeErr(fmt.Errorf("update availability: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.ErrItemNotFound, "item %d", id)
	}
	return nil
}

func (r *menuRepository) Upsert(ctx context.Context, item *models.MenuItem) error {
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "availability", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return storeErr(fmt.Errorf("upsert menu item: %w", err))
	}
	return nil
}
