package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

func TestVendorRepository_CreateAndGet(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	vendorRepo := NewVendorRepository(tx)

	v := &models.Vendor{
		Name:            "Test Grocer",
		City:            "Bangkok",
		PromptPayID:     "0812345678",
		DeliveryBaseFee: decimal.NewFromInt(20),
		DeliveryPerKm:   decimal.RequireFromString("7.50"),
		Lat:             13.75,
		Lng:             100.50,
	}
	require.NoError(t, vendorRepo.Create(ctx, v))
	require.NotZero(t, v.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := vendorRepo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		require.Equal(t, "Test Grocer", got.Name)
		require.True(t, got.DeliveryPerKm.Equal(decimal.RequireFromString("7.50")))
		require.InDelta(t, 13.75, got.Lat, 1e-9)
	})

	t.Run("by name", func(t *testing.T) {
		got, err := vendorRepo.GetByName(ctx, "Test Grocer")
		require.NoError(t, err)
		require.Equal(t, v.ID, got.ID)
	})

	t.Run("missing vendor errors", func(t *testing.T) {
		_, err := vendorRepo.GetByName(ctx, "No Such Shop")
		require.Error(t, err)
	})
}

func TestVendorRepository_List(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	vendorRepo := NewVendorRepository(tx)

	vendors, err := vendorRepo.List(ctx)
	require.NoError(t, err)
	// Seed data guarantees at least the starter vendors.
	require.GreaterOrEqual(t, len(vendors), 3)

	for i := 1; i < len(vendors); i++ {
		require.LessOrEqual(t, vendors[i-1].Name, vendors[i].Name)
	}
}
