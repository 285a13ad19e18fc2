package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
	tx *TxManager
}

func NewWalletRepository(db *gorm.DB, tx *TxManager) WalletRepository {
	return &walletRepository{
		db: db,
		tx: tx,
	}
}

func (r *walletRepository) FindStudent(ctx context.Context, regNo string) (*models.Student, error) {
	return r.findStudent(conn(ctx, r.db), regNo)
}

func (r *walletRepository) LockStudent(ctx context.Context, regNo string) (*models.Student, error) {
	return r.findStudent(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), regNo)
}

func (r *walletRepository) findStudent(db *gorm.DB, regNo string) (*models.Student, error) {
	var student models.Student
	if err := db.Where("reg_no = ?", regNo).Take(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrUnknownOwner, "%s", regNo)
		}
		return nil, storeErr(fmt.Errorf("find student: %w", err))
	}
	return &student, nil
}

func (r *walletRepository) Debit(ctx context.Context, entry LedgerEntry) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		// The guard and the decrement are one statement, so two debits can
		// never both pass against the same pre-debit balance.
		res := db.Model(&models.Student{}).
			Where("reg_no = ? AND wallet_balance >= ?", entry.RegNo, entry.Amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", entry.Amount))
		if res.Error != nil {
			if isCheckViolation(res.Error) {
				return apperrors.ErrInsufficientFunds
			}
			return storeErr(fmt.Errorf("debit wallet: %w", res.Error))
		}
		if res.RowsAffected == 0 {
			student, err := r.findStudent(db, entry.RegNo)
			if err != nil {
				return err
			}
			return apperrors.Newf(apperrors.ErrInsufficientFunds,
				"balance %s, required %s", student.WalletBalance.StringFixed(2), entry.Amount.StringFixed(2))
		}

		if err := r.appendEntry(db, entry, models.TransactionDebit); err != nil {
			return err
		}

		var err error
		balance, err = r.currentBalance(db, entry.RegNo)
		return err
	})
	return balance, err
}

func (r *walletRepository) Credit(ctx context.Context, entry LedgerEntry) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		res := db.Model(&models.Student{}).
			Where("reg_no = ?", entry.RegNo).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", entry.Amount))
		if res.Error != nil {
			return storeErr(fmt.Errorf("credit wallet: %w", res.Error))
		}
		if res.RowsAffected == 0 {
			return apperrors.Newf(apperrors.ErrUnknownOwner, "%s", entry.RegNo)
		}

		if err := r.appendEntry(db, entry, models.TransactionCredit); err != nil {
			return err
		}

		var err error
		balance, err = r.currentBalance(db, entry.RegNo)
		return err
	})
	return balance, err
}

func (r *walletRepository) appendEntry(db *gorm.DB, entry LedgerEntry, typ models.TransactionType) error {
	row := &models.WalletTransaction{
		RegNo:     entry.RegNo,
		Amount:    entry.Amount,
		Type:      typ,
		OrderID:   entry.OrderID,
		Reference: entry.Reference,
	}
	if err := db.Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrInternalConsistency,
				fmt.Errorf("duplicate ledger reference %q", entry.Reference))
		}
		return storeErr(fmt.Errorf("append ledger entry: %w", err))
	}
	return nil
}

func (r *walletRepository) currentBalance(db *gorm.DB, regNo string) (decimal.Decimal, error) {
	var student models.Student
	if err := db.Select("wallet_balance").Where("reg_no = ?", regNo).Take(&student).Error; err != nil {
		return decimal.Zero, storeErr(fmt.Errorf("read balance: %w", err))
	}
	return student.WalletBalance, nil
}

func (r *walletRepository) Transactions(ctx context.Context, regNo string, limit, offset int) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := conn(ctx, r.db).
		Where("reg_no = ?", regNo).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, storeErr(fmt.Errorf("list wallet transactions: %w", err))
	}
	return txns, nil
}

func (r *walletRepository) Totals(ctx context.Context, regNo string) (*LedgerTotals, error) {
	var rows []struct {
		Type  models.TransactionType
		Total decimal.Decimal
	}
	err := conn(ctx, r.db).
		Model(&models.WalletTransaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("reg_no = ?", regNo).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr(fmt.Errorf("sum wallet transactions: %w", err))
	}

	totals := &LedgerTotals{Credits: decimal.Zero, Debits: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionCredit:
			totals.Credits = row.Total
		case models.TransactionDebit:
			totals.Debits = row.Total
		}
	}
	return totals, nil
}

func (r *walletRepository) CreateStudent(ctx context.Context, student *models.Student) (bool, error) {
	student.WalletBalance = decimal.Zero
	res := conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "reg_no"}}, DoNothing: true}).
		Create(student)
	if res.Error != nil {
		return false, storeErr(fmt.Errorf("create student: %w", res.Error))
	}
	return res.RowsAffected == 1, nil
}
