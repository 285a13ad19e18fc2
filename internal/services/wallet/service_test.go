package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/logger"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct {
	mock.Mock
}

type MockCache struct {
	mock.Mock
}

// passthroughTx runs fn without a database, so AfterCommit hooks fire immediately.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(repo *MockRepo, c *MockCache) Service {
	return NewService(repo, passthroughTx{}, c, WalletConfig{}, &NoopMetricsCollector{}, logger.Discard())
}

func TestWalletService_Credit(t *testing.T) {
	tests := []struct {
		name      string
		regNo     string
		amount    decimal.Decimal
		setupMock func(*MockRepo, *MockCache)
		wantErr   error
		want      decimal.Decimal
	}{
		{
			name:   "successful credit",
			regNo:  "CB.EN.U4CSE21001",
			amount: dec("150.00"),
			setupMock: func(repo *MockRepo, c *MockCache) {
				repo.On("Credit", mock.Anything, mock.MatchedBy(func(e repositories.LedgerEntry) bool {
					return e.RegNo == "CB.EN.U4CSE21001" && e.Amount.Equal(dec("150")) && e.Reference != ""
				})).Return(dec("250.00"), nil)
				c.On("Delete", mock.Anything, []string{"wallet:profile:CB.EN.U4CSE21001"}).Return(nil)
			},
			want: dec("250.00"),
		},
		{
			name:    "zero amount",
			regNo:   "CB.EN.U4CSE21001",
			amount:  decimal.Zero,
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			regNo:   "CB.EN.U4CSE21001",
			amount:  dec("-10"),
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "sub paisa amount",
			regNo:   "CB.EN.U4CSE21001",
			amount:  dec("10.005"),
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "missing owner",
			regNo:   "  ",
			amount:  dec("10"),
			wantErr: apperrors.ErrInvalidRequest,
		},
		{
			name:   "unknown owner",
			regNo:  "nobody",
			amount: dec("10"),
			setupMock: func(repo *MockRepo, c *MockCache) {
				repo.On("Credit", mock.Anything, mock.Anything).Return(decimal.Zero, apperrors.ErrUnknownOwner)
			},
			wantErr: apperrors.ErrUnknownOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			c := new(MockCache)
			if tt.setupMock != nil {
				tt.setupMock(repo, c)
			}

			got, err := newTestService(repo, c).Credit(context.Background(), tt.regNo, tt.amount, Ref{})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.want.Equal(got), "balance %s", got)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestWalletService_RefundAboveTopUpLimit(t *testing.T) {
	repo := new(MockRepo)
	c := new(MockCache)
	repo.On("Credit", mock.Anything, mock.MatchedBy(func(e repositories.LedgerEntry) bool {
		return e.Reference == "order-7-refund" && e.Amount.Equal(dec("15000"))
	})).Return(dec("15000.00"), nil)
	c.On("Delete", mock.Anything, []string{"wallet:profile:S1"}).Return(nil)

	balance, err := newTestService(repo, c).Credit(context.Background(), "S1", dec("15000.00"), OrderRefund(7))

	require.NoError(t, err)
	assert.True(t, dec("15000").Equal(balance))
	repo.AssertExpectations(t)
}

func TestWalletService_TopUp(t *testing.T) {
	t.Run("within the limit", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		repo.On("Credit", mock.Anything, mock.MatchedBy(func(e repositories.LedgerEntry) bool {
			return e.Amount.Equal(dec("10000")) && e.OrderID == nil && e.Reference != ""
		})).Return(dec("10050.00"), nil)
		c.On("Delete", mock.Anything, mock.Anything).Return(nil)

		balance, err := newTestService(repo, c).TopUp(context.Background(), "S1", dec("10000.00"))

		require.NoError(t, err)
		assert.True(t, dec("10050").Equal(balance))
	})

	t.Run("over the limit", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)

		_, err := newTestService(repo, c).TopUp(context.Background(), "S1", dec("10000.01"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		assert.Equal(t, "invalid amount: a single top-up is limited to 10000.00", err.Error())
		repo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
	})

	t.Run("non positive amount says so", func(t *testing.T) {
		_, err := newTestService(new(MockRepo), new(MockCache)).TopUp(context.Background(), "S1", decimal.Zero)

		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		assert.Equal(t, "invalid amount: amount must be greater than zero", err.Error())
	})
}

func TestWalletService_TryDebit(t *testing.T) {
	t.Run("uses the order reference", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		repo.On("Debit", mock.Anything, mock.MatchedBy(func(e repositories.LedgerEntry) bool {
			return e.Reference == "order-7-debit" && e.OrderID != nil && *e.OrderID == 7
		})).Return(dec("5.00"), nil)
		c.On("Delete", mock.Anything, mock.Anything).Return(nil)

		balance, err := newTestService(repo, c).TryDebit(context.Background(), "S1", dec("45.00"), OrderDebit(7))

		require.NoError(t, err)
		assert.True(t, dec("5").Equal(balance))
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("insufficient funds leaves cache alone", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		repo.On("Debit", mock.Anything, mock.Anything).Return(decimal.Zero, apperrors.ErrInsufficientFunds)

		_, err := newTestService(repo, c).TryDebit(context.Background(), "S1", dec("45.00"), Ref{})

		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		c.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("cache failure does not fail the debit", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		repo.On("Debit", mock.Anything, mock.Anything).Return(dec("1.00"), nil)
		c.On("Delete", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		_, err := newTestService(repo, c).TryDebit(context.Background(), "S1", dec("1.00"), Ref{})

		assert.NoError(t, err)
	})
}

func TestWalletService_Profile(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		c.On("Get", mock.Anything, "wallet:profile:S1", mock.Anything).
			Run(func(args mock.Arguments) {
				dest := args.Get(2).(*models.Student)
				*dest = models.Student{RegNo: "S1", Name: "Asha", WalletBalance: dec("80")}
			}).
			Return(true, nil)

		student, err := newTestService(repo, c).Profile(context.Background(), "S1")

		require.NoError(t, err)
		assert.Equal(t, "Asha", student.Name)
		repo.AssertNotCalled(t, "FindStudent", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		c.On("Get", mock.Anything, "wallet:profile:S1", mock.Anything).Return(false, nil)
		repo.On("FindStudent", mock.Anything, "S1").Return(&models.Student{RegNo: "S1", WalletBalance: dec("80")}, nil)
		c.On("SetWithTTL", mock.Anything, "wallet:profile:S1", mock.Anything, DefaultProfileTTL).Return(nil)

		student, err := newTestService(repo, c).Profile(context.Background(), "S1")

		require.NoError(t, err)
		assert.True(t, dec("80").Equal(student.WalletBalance))
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("balance changed while storing drops the entry", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		c.On("Get", mock.Anything, "wallet:profile:S1", mock.Anything).Return(false, nil)
		repo.On("FindStudent", mock.Anything, "S1").Return(&models.Student{RegNo: "S1", WalletBalance: dec("80")}, nil).Once()
		c.On("SetWithTTL", mock.Anything, "wallet:profile:S1", mock.Anything, DefaultProfileTTL).Return(nil)
		repo.On("FindStudent", mock.Anything, "S1").Return(&models.Student{RegNo: "S1", WalletBalance: dec("35")}, nil).Once()
		c.On("Delete", mock.Anything, []string{"wallet:profile:S1"}).Return(nil)

		student, err := newTestService(repo, c).Profile(context.Background(), "S1")

		require.NoError(t, err)
		assert.True(t, dec("80").Equal(student.WalletBalance))
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("cache error falls back to the database", func(t *testing.T) {
		repo := new(MockRepo)
		c := new(MockCache)
		c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("timeout"))
		repo.On("FindStudent", mock.Anything, "S1").Return(&models.Student{RegNo: "S1"}, nil)
		c.On("SetWithTTL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := newTestService(repo, c).Profile(context.Background(), "S1")

		assert.NoError(t, err)
	})
}

func TestWalletService_Reconcile(t *testing.T) {
	tests := []struct {
		name     string
		balance  string
		credits  string
		debits   string
		balanced bool
	}{
		{name: "balanced", balance: "55.00", credits: "100.00", debits: "45.00", balanced: true},
		{name: "drift", balance: "60.00", credits: "100.00", debits: "45.00", balanced: false},
		{name: "empty ledger", balance: "0", credits: "0", debits: "0", balanced: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			repo.On("LockStudent", mock.Anything, "S1").Return(&models.Student{RegNo: "S1", WalletBalance: dec(tt.balance)}, nil)
			repo.On("Totals", mock.Anything, "S1").Return(&repositories.LedgerTotals{Credits: dec(tt.credits), Debits: dec(tt.debits)}, nil)

			rec, err := newTestService(repo, new(MockCache)).Reconcile(context.Background(), "S1")

			require.NoError(t, err)
			assert.Equal(t, tt.balanced, rec.Balanced)
		})
	}
}

func TestWalletService_OpenAccount(t *testing.T) {
	repo := new(MockRepo)
	c := new(MockCache)
	repo.On("CreateStudent", mock.Anything, mock.Anything).Return(true, nil)
	repo.On("Credit", mock.Anything, mock.MatchedBy(func(e repositories.LedgerEntry) bool {
		return e.Reference == "opening-S9" && e.Amount.Equal(dec("500"))
	})).Return(dec("500"), nil)
	c.On("Delete", mock.Anything, mock.Anything).Return(nil)

	created, err := newTestService(repo, c).OpenAccount(context.Background(), &models.Student{RegNo: " S9 ", Name: "Ravi"}, dec("500"))

	require.NoError(t, err)
	assert.True(t, created)
	repo.AssertExpectations(t)
}

func TestWalletService_TransactionsClampsPaging(t *testing.T) {
	repo := new(MockRepo)
	repo.On("FindStudent", mock.Anything, "S1").Return(&models.Student{RegNo: "S1"}, nil)
	repo.On("Transactions", mock.Anything, "S1", maxPageSize, 0).Return([]models.WalletTransaction{}, nil)

	_, err := newTestService(repo, new(MockCache)).Transactions(context.Background(), "S1", 5000, -3)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

// Implement required mock methods
func (m *MockRepo) FindStudent(ctx context.Context, regNo string) (*models.Student, error) {
	args := m.Called(ctx, regNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockRepo) LockStudent(ctx context.Context, regNo string) (*models.Student, error) {
	args := m.Called(ctx, regNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockRepo) Debit(ctx context.Context, entry repositories.LedgerEntry) (decimal.Decimal, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepo) Credit(ctx context.Context, entry repositories.LedgerEntry) (decimal.Decimal, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepo) Transactions(ctx context.Context, regNo string, limit, offset int) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, regNo, limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

func (m *MockRepo) Totals(ctx context.Context, regNo string) (*repositories.LedgerTotals, error) {
	args := m.Called(ctx, regNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.LedgerTotals), args.Error(1)
}

func (m *MockRepo) CreateStudent(ctx context.Context, student *models.Student) (bool, error) {
	args := m.Called(ctx, student)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) GenerateKey(entityType, keyType string, value interface{}) string {
	return entityType + ":" + keyType + ":" + value.(string)
}
