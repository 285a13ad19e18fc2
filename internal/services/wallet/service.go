package wallet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories"

	"github.com/shopspring/decimal"
)

type service struct {
	repo    repositories.WalletRepository
	tx      repositories.Transactor
	cache   Cache
	config  WalletConfig
	metrics MetricsCollector
	log     *slog.Logger
}

// NewService creates a new wallet service
func NewService(
	repo repositories.WalletRepository,
	tx repositories.Transactor,
	cache Cache,
	config WalletConfig,
	metrics MetricsCollector,
	log *slog.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	if config.ProfileTTL == 0 {
		config.ProfileTTL = DefaultProfileTTL
	}
	if config.MaxCredit.IsZero() {
		config.MaxCredit = DefaultMaxCredit
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &service{
		repo:    repo,
		tx:      tx,
		cache:   cache,
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

func (s *service) Profile(ctx context.Context, regNo string) (*models.Student, error) {
	regNo, err := normalizeOwner(regNo)
	if err != nil {
		return nil, err
	}
	if student, ok := s.cachedProfile(ctx, regNo); ok {
		return student, nil
	}

	student, err := s.repo.FindStudent(ctx, regNo)
	if err != nil {
		return nil, err
	}
	s.storeProfile(ctx, student)
	return student, nil
}

// storeProfile caches student and drops the entry again if the row changed
// after it was read.
func (s *service) storeProfile(ctx context.Context, student *models.Student) {
	s.cacheProfile(ctx, student)

	current, err := s.repo.FindStudent(ctx, student.RegNo)
	if err != nil {
		s.invalidate(ctx, student.RegNo)
		return
	}
	if !current.WalletBalance.Equal(student.WalletBalance) || !current.UpdatedAt.Equal(student.UpdatedAt) {
		s.invalidate(ctx, student.RegNo)
	}
}

func (s *service) BalanceOf(ctx context.Context, regNo string) (decimal.Decimal, error) {
	regNo, err := normalizeOwner(regNo)
	if err != nil {
		return decimal.Zero, err
	}
	student, err := s.repo.FindStudent(ctx, regNo)
	if err != nil {
		return decimal.Zero, err
	}
	return student.WalletBalance, nil
}

func (s *service) LockOwner(ctx context.Context, regNo string) (*models.Student, error) {
	regNo, err := normalizeOwner(regNo)
	if err != nil {
		return nil, err
	}
	return s.repo.LockStudent(ctx, regNo)
}

func (s *service) TryDebit(ctx context.Context, regNo string, amount decimal.Decimal, ref Ref) (decimal.Decimal, error) {
	return s.apply(ctx, "debit", regNo, amount, ref, s.repo.Debit)
}

func (s *service) Credit(ctx context.Context, regNo string, amount decimal.Decimal, ref Ref) (decimal.Decimal, error) {
	return s.apply(ctx, "credit", regNo, amount, ref, s.repo.Credit)
}

// TopUp credits cash handed over at the counter. Unlike Credit it is capped
// per call; refunds and opening balances are not.
func (s *service) TopUp(ctx context.Context, regNo string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.GreaterThan(s.config.MaxCredit) {
		s.metrics.RecordOperationResult("topup", "invalid_amount")
		return decimal.Zero, apperrors.Newf(apperrors.ErrInvalidAmount,
			"a single top-up is limited to %s", s.config.MaxCredit.StringFixed(2))
	}
	return s.apply(ctx, "topup", regNo, amount, Ref{}, s.repo.Credit)
}

func (s *service) apply(
	ctx context.Context,
	op string,
	regNo string,
	amount decimal.Decimal,
	ref Ref,
	write func(context.Context, repositories.LedgerEntry) (decimal.Decimal, error),
) (decimal.Decimal, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(op, time.Since(start)) }()

	regNo, err := normalizeOwner(regNo)
	if err != nil {
		return decimal.Zero, err
	}
	if err := validateAmount(amount); err != nil {
		s.metrics.RecordOperationResult(op, "invalid_amount")
		return decimal.Zero, err
	}

	balance, err := write(ctx, repositories.LedgerEntry{
		RegNo:     regNo,
		Amount:    amount,
		OrderID:   ref.OrderID,
		Reference: ref.key(),
	})
	if err != nil {
		s.metrics.RecordOperationResult(op, apperrors.CodeOf(err))
		return decimal.Zero, err
	}

	repositories.AfterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, regNo)
	})
	s.metrics.RecordOperationResult(op, "ok")
	return balance, nil
}

func (s *service) Transactions(ctx context.Context, regNo string, limit, offset int) ([]models.WalletTransaction, error) {
	regNo, err := normalizeOwner(regNo)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if _, err := s.repo.FindStudent(ctx, regNo); err != nil {
		return nil, err
	}
	return s.repo.Transactions(ctx, regNo, limit, offset)
}

func (s *service) Reconcile(ctx context.Context, regNo string) (*Reconciliation, error) {
	regNo, err := normalizeOwner(regNo)
	if err != nil {
		return nil, err
	}

	var rec *Reconciliation
	// The row lock keeps a concurrent debit from landing between the two reads.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		student, err := s.repo.LockStudent(ctx, regNo)
		if err != nil {
			return err
		}
		totals, err := s.repo.Totals(ctx, regNo)
		if err != nil {
			return err
		}
		expected := totals.Credits.Sub(totals.Debits)
		rec = &Reconciliation{
			RegNo:    regNo,
			Balance:  student.WalletBalance,
			Credits:  totals.Credits,
			Debits:   totals.Debits,
			Expected: expected,
			Balanced: expected.Equal(student.WalletBalance),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !rec.Balanced {
		s.log.Error("wallet ledger out of balance",
			slog.String("reg_no", regNo),
			slog.String("balance", rec.Balance.StringFixed(2)),
			slog.String("expected", rec.Expected.StringFixed(2)))
	}
	return rec, nil
}

func (s *service) OpenAccount(ctx context.Context, student *models.Student, opening decimal.Decimal) (bool, error) {
	regNo, err := normalizeOwner(student.RegNo)
	if err != nil {
		return false, err
	}
	student.RegNo = regNo
	if opening.IsNegative() {
		return false, apperrors.Newf(apperrors.ErrInvalidAmount, "opening balance cannot be negative")
	}

	created := false
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.CreateStudent(ctx, student)
		if err != nil || !created || opening.IsZero() {
			return err
		}
		_, err = s.repo.Credit(ctx, repositories.LedgerEntry{
			RegNo:     regNo,
			Amount:    opening,
			Reference: "opening-" + regNo,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	repositories.AfterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, regNo)
	})
	return created, nil
}

func normalizeOwner(regNo string) (string, error) {
	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		return "", apperrors.Newf(apperrors.ErrInvalidRequest, "regNo is required")
	}
	return regNo, nil
}

// validateAmount accepts positive values with at most two decimal places.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Newf(apperrors.ErrInvalidAmount, "amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperrors.Newf(apperrors.ErrInvalidAmount, "at most two decimal places are allowed")
	}
	return nil
}
