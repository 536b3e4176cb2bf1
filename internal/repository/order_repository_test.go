package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

func setupOrderTest(t *testing.T) (*OrderRepository, *models.Vendor, context.Context) {
	t.Helper()

	tx := database.TestTx(t)
	ctx := context.Background()

	createTestUser(t, NewUserRepository(tx), ctx, 900)

	vendor := &models.Vendor{
		Name:            "Order Test Vendor",
		PromptPayID:     "0899999999",
		DeliveryBaseFee: decimal.NewFromInt(15),
		DeliveryPerKm:   decimal.NewFromInt(7),
	}
	require.NoError(t, NewVendorRepository(tx).Create(ctx, vendor))

	return NewOrderRepository(tx), vendor, ctx
}

func TestOrderRepository_Create(t *testing.T) {
	orderRepo, vendor, ctx := setupOrderTest(t)

	order := &models.Order{
		UserID:      900,
		VendorID:    vendor.ID,
		Amount:      decimal.RequireFromString("250.00"),
		DeliveryFee: decimal.RequireFromString("35.50"),
	}
	require.NoError(t, orderRepo.Create(ctx, order))
	require.NotZero(t, order.ID)
	require.Equal(t, models.OrderStatusPending, order.Status)

	got, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, got.Total().Equal(decimal.RequireFromString("285.50")), "got %s", got.Total())
}

func TestOrderRepository_GetByUserID(t *testing.T) {
	orderRepo, vendor, ctx := setupOrderTest(t)

	for range 3 {
		order := &models.Order{UserID: 900, VendorID: vendor.ID, Amount: decimal.NewFromInt(100)}
		require.NoError(t, orderRepo.Create(ctx, order))
	}

	orders, err := orderRepo.GetByUserID(ctx, 900, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Newest first.
	require.GreaterOrEqual(t, orders[0].ID, orders[1].ID)
}

func TestOrderRepository_MarkPaid(t *testing.T) {
	orderRepo, vendor, ctx := setupOrderTest(t)

	order := &models.Order{UserID: 900, VendorID: vendor.ID, Amount: decimal.NewFromInt(100)}
	require.NoError(t, orderRepo.Create(ctx, order))

	t.Run("wrong user is ignored", func(t *testing.T) {
		n, err := orderRepo.MarkPaid(ctx, order.ID, 1234)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("owner marks paid once", func(t *testing.T) {
		n, err := orderRepo.MarkPaid(ctx, order.ID, 900)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		// Already paid, nothing to flip.
		n, err = orderRepo.MarkPaid(ctx, order.ID, 900)
		require.NoError(t, err)
		require.Zero(t, n)

		got, err := orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, models.OrderStatusPaid, got.Status)
	})
}
