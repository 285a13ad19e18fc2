package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// Create writes the order and all of its lines in one statement batch.
	Create(ctx context.Context, order *models.Order) error
	// History returns the owner's orders newest first with lines, item names and slot.
	History(ctx context.Context, regNo string) ([]models.Order, error)
	Get(ctx context.Context, orderID uint) (*models.Order, error)
	Lock(ctx context.Context, orderID uint) (*models.Order, error)
	SetStatus(ctx context.Context, orderID uint, status models.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
	tx *TxManager
}

func NewOrderRepository(db *gorm.DB, tx *TxManager) OrderRepository {
	return &orderRepository{db: db, tx: tx}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := conn(ctx, r.db).Omit("Slot").Create(order).Error; err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.Wrap(apperrors.ErrInternalConsistency,
					fmt.Errorf("order references unknown student or item: %w", err))
			}
			return storeErr(fmt.Errorf("create order: %w", err))
		}
		return nil
	})
}

func (r *orderRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Item").
		Preload("Slot")
}

func (r *orderRepository) History(ctx context.Context, regNo string) ([]models.Order, error) {
	var orders []models.Order
	err := r.withDetails(conn(ctx, r.db)).
		Where("reg_no = ?", regNo).
		Order("order_time DESC, order_id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, storeErr(fmt.Errorf("order history: %w", err))
	}
	return orders, nil
}

func (r *orderRepository) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(conn(ctx, r.db)).Where("order_id = ?", orderID).Take(&order).Error; err != nil {
		return nil, r.notFound(err, orderID)
	}
	return &order, nil
}

func (r *orderRepository) Lock(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		Take(&order).Error
	if err != nil {
		return nil, r.notFound(err, orderID)
	}
	return &order, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	res := conn(ctx, r.db).Model(&models.Order{}).Where("order_id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return storeErr(fmt.Errorf("update order status: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.ErrOrderNotFound, "order %d", orderID)
	}
	return nil
}

func (r *orderRepository) notFound(err error, orderID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Newf(apperrors.ErrOrderNotFound, "order %d", orderID)
	}
	return storeErr(fmt.Errorf("get order %d: %w", orderID, err))
}
