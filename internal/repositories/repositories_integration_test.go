package repositories_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepositoryPostgres(t *testing.T) {
	db := testutil.NewTestDB(t)
	txm := repositories.NewTxManager(db)
	repo := repositories.NewWalletRepository(db, txm)
	ctx := context.Background()
	testutil.InsertStudent(t, db, "S1", "50.00")

	balance, err := repo.Debit(ctx, repositories.LedgerEntry{RegNo: "S1", Amount: decimal.RequireFromString("20.25"), Reference: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "29.75", balance.String())

	_, err = repo.Debit(ctx, repositories.LedgerEntry{RegNo: "S1", Amount: decimal.RequireFromString("30.00"), Reference: "r2"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	_, err = repo.Debit(ctx, repositories.LedgerEntry{RegNo: "NOPE", Amount: decimal.NewFromInt(1), Reference: "r3"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownOwner)

	_, err = repo.Credit(ctx, repositories.LedgerEntry{RegNo: "S1", Amount: decimal.NewFromInt(5), Reference: "r1"})
	assert.ErrorIs(t, err, apperrors.ErrInternalConsistency, "ledger references are unique")

	balance, err = repo.Credit(ctx, repositories.LedgerEntry{RegNo: "S1", Amount: decimal.NewFromInt(5), Reference: "r4"})
	require.NoError(t, err)
	assert.Equal(t, "34.75", balance.String())

	totals, err := repo.Totals(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, totals.Credits.Sub(totals.Debits).Equal(balance))

	created, err := repo.CreateStudent(ctx, &models.Student{RegNo: "S1", Name: "again"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestTokenRepositoryPostgres(t *testing.T) {
	db := testutil.NewTestDB(t)
	txm := repositories.NewTxManager(db)
	slots := repositories.NewTokenRepository(db, txm)
	orders := repositories.NewOrderRepository(db, txm)
	ctx := context.Background()

	testutil.InsertStudent(t, db, "S1", "10.00")
	item := testutil.InsertMenuItem(t, db, "Tea", "10.00", true)

	added, err := slots.EnsurePool(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	added, err = slots.EnsurePool(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, added)

	order := &models.Order{
		RegNo:       "S1",
		TotalAmount: decimal.NewFromInt(10),
		Status:      models.OrderPending,
		Lines:       []models.OrderLine{{ItemID: item.ID, Quantity: 1, PriceAtOrder: item.Price}},
	}
	require.NoError(t, orders.Create(ctx, order))

	slot, err := slots.AcquireFree(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), slot.ID)
	assert.Equal(t, models.SlotOccupied, slot.Status)

	_, err = slots.AcquireFree(ctx, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInternalConsistency, "an order holds at most one slot")

	_, err = slots.Advance(ctx, slot.ID, models.SlotFree)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	slot, err = slots.Advance(ctx, slot.ID, models.SlotReady)
	require.NoError(t, err)
	assert.Equal(t, models.SlotReady, slot.Status)

	board, err := slots.List(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	require.NotNil(t, board[0].OrderStatus)
	assert.Equal(t, models.OrderPending, *board[0].OrderStatus)

	slot, err = slots.Advance(ctx, slot.ID, models.SlotFree)
	require.NoError(t, err)
	assert.Nil(t, slot.OrderID)

	_, err = slots.Get(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrSlotNotFound)

	_, err = slots.Release(ctx, 99)
	assert.True(t, errors.Is(err, apperrors.ErrSlotNotFound))
}

func TestOrderRepositoryPostgres(t *testing.T) {
	db := testutil.NewTestDB(t)
	txm := repositories.NewTxManager(db)
	orders := repositories.NewOrderRepository(db, txm)
	ctx := context.Background()

	testutil.InsertStudent(t, db, "S1", "0")
	item := testutil.InsertMenuItem(t, db, "Tea", "10.00", true)

	err := orders.Create(ctx, &models.Order{
		RegNo:       "GHOST",
		TotalAmount: decimal.NewFromInt(10),
		Status:      models.OrderPending,
		Lines:       []models.OrderLine{{ItemID: item.ID, Quantity: 1, PriceAtOrder: item.Price}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInternalConsistency)

	for i := 0; i < 2; i++ {
		require.NoError(t, orders.Create(ctx, &models.Order{
			RegNo:       "S1",
			TotalAmount: decimal.NewFromInt(20),
			Status:      models.OrderPending,
			Lines: []models.OrderLine{
				{ItemID: item.ID, Quantity: 1, PriceAtOrder: item.Price},
				{ItemID: item.ID, Quantity: 1, PriceAtOrder: item.Price},
			},
		}))
	}

	history, err := orders.History(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Greater(t, history[0].ID, history[1].ID, "newest first")
	assert.Len(t, history[0].Lines, 2)
	assert.Equal(t, "Tea", history[0].Lines[0].ItemName())

	empty, err := orders.History(ctx, "NOBODY")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = orders.Get(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}
