package tokens

import (
	"context"
	"testing"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/logger"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenRepo struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

func TestTokens_AdvancePublishesEvent(t *testing.T) {
	repo := new(MockTokenRepo)
	events := new(MockPublisher)
	orderID := uint(12)
	repo.On("Advance", mock.Anything, uint(3), models.SlotReady).
		Return(&models.TokenSlot{ID: 3, OrderID: &orderID, Status: models.SlotReady}, nil)
	events.On("Publish", mock.Anything, notify.EventTokenStatusChanged, notify.TokenStatusChanged{
		TokenID: 3, OrderID: &orderID, Status: "ready", Colour: "Green",
	}).Return(nil)

	slot, err := NewService(repo, events, logger.Discard()).Advance(context.Background(), 3, models.SlotReady)

	require.NoError(t, err)
	assert.Equal(t, models.SlotReady, slot.Status)
	events.AssertExpectations(t)
}

func TestTokens_AdvanceRejectedTransition(t *testing.T) {
	repo := new(MockTokenRepo)
	events := new(MockPublisher)
	repo.On("Advance", mock.Anything, uint(3), models.SlotFree).
		Return(nil, apperrors.Newf(apperrors.ErrInvalidTransition, "token 3 is occupied and cannot become free"))

	_, err := NewService(repo, events, logger.Discard()).Advance(context.Background(), 3, models.SlotFree)

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokens_ReleasePublishesFreeSlot(t *testing.T) {
	repo := new(MockTokenRepo)
	events := new(MockPublisher)
	repo.On("Release", mock.Anything, uint(8)).Return(&models.TokenSlot{ID: 8, Status: models.SlotFree}, nil)
	events.On("Publish", mock.Anything, notify.EventTokenStatusChanged, mock.MatchedBy(func(e notify.TokenStatusChanged) bool {
		return e.TokenID == 8 && e.OrderID == nil && e.Colour == "Gray"
	})).Return(nil)

	_, err := NewService(repo, events, logger.Discard()).Release(context.Background(), 8)

	require.NoError(t, err)
	events.AssertExpectations(t)
}

func TestTokens_AcquireFreeNoSlots(t *testing.T) {
	repo := new(MockTokenRepo)
	repo.On("AcquireFree", mock.Anything, uint(1)).Return(nil, apperrors.ErrNoFreeSlots)

	_, err := NewService(repo, nil, logger.Discard()).AcquireFree(context.Background(), 1)

	assert.ErrorIs(t, err, apperrors.ErrNoFreeSlots)
}

func slotOrNil(v interface{}) *models.TokenSlot {
	if v == nil {
		return nil
	}
	return v.(*models.TokenSlot)
}

func (m *MockTokenRepo) AcquireFree(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, orderID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokenRepo) Release(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, slotID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokenRepo) Advance(ctx context.Context, slotID uint, next models.SlotState) (*models.TokenSlot, error) {
	args := m.Called(ctx, slotID, next)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokenRepo) Get(ctx context.Context, slotID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, slotID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokenRepo) FindByOrder(ctx context.Context, orderID uint) (*models.TokenSlot, error) {
	args := m.Called(ctx, orderID)
	return slotOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTokenRepo) List(ctx context.Context) ([]repositories.SlotView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repositories.SlotView), args.Error(1)
}

func (m *MockTokenRepo) EnsurePool(ctx context.Context, size int) (int, error) {
	args := m.Called(ctx, size)
	return args.Int(0), args.Error(1)
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
