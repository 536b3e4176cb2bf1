package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/napatw/pantry-bot/internal/bot/mocks"
	"gitlab.com/napatw/pantry-bot/internal/config"
	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
	"gitlab.com/napatw/pantry-bot/internal/notify"
	"gitlab.com/napatw/pantry-bot/internal/repository"
)

const testUserID = 123456

// setupTestBot creates a Bot wired to a rolled-back test transaction and a
// MockBot for outgoing messages.
func setupTestBot(t *testing.T) (*Bot, *mocks.MockBot) {
	t.Helper()

	tx := database.TestTx(t)
	mockBot := mocks.NewMockBot()

	cfg := &config.Config{
		TelegramBotToken:   "test-token",
		DatabaseURL:        "test-url",
		WhitelistedUserIDs: []int64{testUserID},
		WarningWindowDays:  3,
		AlertHour:          20,
		AlertTimezone:      "UTC",
		MerchantCity:       "Bangkok",
	}

	b := &Bot{
		cfg:            cfg,
		loc:            time.UTC,
		messageSender:  mockBot,
		userRepo:       repository.NewUserRepository(tx),
		ingredientRepo: repository.NewIngredientRepository(tx),
		vendorRepo:     repository.NewVendorRepository(tx),
		groupRepo:      repository.NewGroupRepository(tx),
		orderRepo:      repository.NewOrderRepository(tx),
		throttle:       notify.NewThrottle(notify.NewMemoryStore()),
	}

	registerBotTestUser(t, b, testUserID)

	return b, mockBot
}

// registerBotTestUser upserts a user so foreign keys hold in handler tests.
func registerBotTestUser(t *testing.T, b *Bot, userID int64) {
	t.Helper()

	err := b.userRepo.UpsertUser(context.Background(), &models.User{
		ID:        userID,
		Username:  "testuser",
		FirstName: "Test",
	})
	require.NoError(t, err)
}
