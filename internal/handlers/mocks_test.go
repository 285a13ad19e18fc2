package handlers

import (
	"context"

	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/services/placement"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPlacement struct{ mock.Mock }
type MockOrders struct{ mock.Mock }
type MockWallet struct{ mock.Mock }
type MockCatalog struct{ mock.Mock }
type MockTokens struct{ mock.Mock }

func (m *MockPlacement) PlaceOrder(ctx context.Context, req placement.Request) (*placement.Receipt, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*placement.Receipt); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrders) CreateOrder(ctx context.Context, regNo string, total decimal.Decimal, lines []models.OrderLine) (*models.Order, error) {
	args := m.Called(ctx, regNo, total, lines)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrders) History(ctx context.Context, regNo string) ([]models.Order, error) {
	args := m.Called(ctx, regNo)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *MockOrders) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrders) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, next)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWallet) Profile(ctx context.Context, regNo string) (*models.Student, error) {
	args := m.Called(ctx, regNo)
	return studentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWallet) BalanceOf(ctx context.Context, regNo string) (decimal.Decimal, error) {
	args := m.Called(ctx, regNo)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWallet) LockOwner(ctx context.Context, regNo string) (*models.Student, error) {
	args := m.Called(ctx, regNo)
	return studentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockWallet) TryDebit(ctx context.Context, regNo string, amount decimal.Decimal, ref wallet.Ref) (decimal.Decimal, error) {
	args := m.Called(ctx, regNo, amount, ref)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWallet) Credit(ctx context.Context, regNo string, amount decimal.Decimal, ref wallet.Ref) (decimal.Decimal, error) {
	args := m.Called(ctx, regNo, amount, ref)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWallet) TopUp(ctx context.Context, regNo string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, regNo, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWallet) Transactions(ctx context.Context, regNo string, limit, offset int) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, regNo, limit, offset)
	entries, _ := args.Get(0).([]models.WalletTransaction)
	return entries, args.Error(1)
}

func (m *MockWallet) Reconcile(ctx context.Context, regNo string) (*wallet.Reconciliation, error) {
	args := m.Called(ctx, regNo)
	rec, _ := args.Get(0).(*wallet.Reconciliation)
	return rec, args.Error(1)
}

func (m *MockWallet) OpenAccount(ctx context.Context, student *models.Student, opening decimal.Decimal) (bool, error) {
	args := m.Called(ctx, student, opening)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalog) PriceAndAvailability(ctx context.Context, ids []uint) (map[uint]models.PriceInfo, error) {
	args := m.Called(ctx, ids)
	prices, _ := args.Get(0).(map[uint]models.PriceInfo)
	return prices, args.Error(1)
}

func (m *MockCatalog) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.MenuItem)
	return items, args.Error(1)
}

func (m *MockCatalog) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.MenuItem)
	return items, args.Error(1)
}

func (m *MockCatalog) SetAvailability(ctx context.Context, id uint, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func (m *MockCatalog) UpsertItem(ctx context.Context, item *models.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockTokens) AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, orderID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokens) Release(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, slotID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokens) Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error) {
	args := m.Called(ctx, slotID, next)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokens) Get(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, slotID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokens) FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, orderID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokens) List(ctx context.Context) ([]repositories.SlotView, error) {
	args := m.Called(ctx)
	views, _ := args.Get(0).([]repositories.SlotView)
	return views, args.Error(1)
}

func (m *MockTokens) EnsurePool(ctx context.Context, size int) (int, error) {
	args := m.Called(ctx, size)
	return args.Int(0), args.Error(1)
}

func orderOrNil(v interface{}) *models.Order {
	o, _ := v.(*models.Order)
	return o
}

func studentOrNil(v interface{}) *models.Student {
	s, _ := v.(*models.Student)
	return s
}

func slotOrNil(v interface{}) *models.TokenSlot {
	s, _ := v.(*models.TokenSlot)
	return s
}
