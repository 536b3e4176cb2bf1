package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/napatw/pantry-bot/internal/bot/mocks"
)

func TestHandleAddCore(t *testing.T) {
	b, mockBot := setupTestBot(t)
	ctx := context.Background()

	t.Run("adds ingredient with Thai expiry", func(t *testing.T) {
		mockBot.Reset()
		update := mocks.MessageUpdate(1, testUserID, "/add นมสด, 1 ลิตร, 9 ส.ค. 2568")

		b.handleAddCore(ctx, mockBot, update)

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "✅ Added")
		require.Contains(t, msg.Text, "นมสด")
		require.Contains(t, msg.Text, "1 ลิตร")
	})

	t.Run("unparseable expiry is stored raw with a warning", func(t *testing.T) {
		mockBot.Reset()
		update := mocks.MessageUpdate(1, testUserID, "/add yogurt, 2, sometime soon")

		b.handleAddCore(ctx, mockBot, update)

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "✅ Added")
		require.Contains(t, msg.Text, "Couldn't read the expiry date")
	})

	t.Run("missing args shows usage", func(t *testing.T) {
		mockBot.Reset()
		update := mocks.MessageUpdate(1, testUserID, "/add")

		b.handleAddCore(ctx, mockBot, update)

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Usage:")
	})
}

func TestHandleListCore(t *testing.T) {
	b, mockBot := setupTestBot(t)
	ctx := context.Background()

	t.Run("empty pantry", func(t *testing.T) {
		mockBot.Reset()
		b.handleListCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/list"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "empty")
	})

	t.Run("lists added ingredients", func(t *testing.T) {
		b.handleAddCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/add rice, 5 kg"))
		b.handleAddCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/add tofu"))

		mockBot.Reset()
		b.handleListCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/list"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "2 items")
		require.Contains(t, msg.Text, "rice")
		require.Contains(t, msg.Text, "tofu")
	})
}

func TestHandleExpiringCore(t *testing.T) {
	b, mockBot := setupTestBot(t)
	ctx := context.Background()

	t.Run("nothing urgent", func(t *testing.T) {
		mockBot.Reset()
		b.handleExpiringCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/expiring"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Nothing is expired")
	})

	t.Run("reports expired and warning buckets", func(t *testing.T) {
		today := b.now()
		expired := today.AddDate(0, 0, -2).Format("2006-01-02")
		soon := today.AddDate(0, 0, 1).Format("2006-01-02")

		b.handleAddCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/add old milk, 1, "+expired))
		b.handleAddCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/add fresh eggs, 10, "+soon))

		mockBot.Reset()
		b.handleExpiringCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/expiring"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Expired")
		require.Contains(t, msg.Text, "old milk")
		require.Contains(t, msg.Text, "Expiring soon")
		require.Contains(t, msg.Text, "fresh eggs")
	})
}

func TestRemoveIngredientCore(t *testing.T) {
	b, mockBot := setupTestBot(t)
	ctx := context.Background()

	addIngredient := func(t *testing.T, name string) int {
		t.Helper()
		mockBot.Reset()
		b.handleAddCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/add "+name))
		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		var id int
		_, err := fmt.Sscanf(msg.Text[indexOfHash(msg.Text):], "#%d", &id)
		require.NoError(t, err)
		return id
	}

	t.Run("use removes own ingredient", func(t *testing.T) {
		id := addIngredient(t, "leftover curry")

		mockBot.Reset()
		b.removeIngredientCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, fmt.Sprintf("/use %d", id)), "/use", "🍳 Used up")

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Used up")
		require.Contains(t, msg.Text, "leftover curry")
	})

	t.Run("unknown id", func(t *testing.T) {
		mockBot.Reset()
		b.removeIngredientCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/delete 999999"), "/delete", "🗑 Removed")

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "not found")
	})

	t.Run("non-numeric id shows usage", func(t *testing.T) {
		mockBot.Reset()
		b.removeIngredientCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/delete abc"), "/delete", "🗑 Removed")

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Usage:")
	})

	t.Run("someone else's ingredient is refused", func(t *testing.T) {
		id := addIngredient(t, "private snack")
		registerBotTestUser(t, b, 777)

		mockBot.Reset()
		b.removeIngredientCore(ctx, mockBot, mocks.MessageUpdate(2, 777, fmt.Sprintf("/delete %d", id)), "/delete", "🗑 Removed")

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "belongs to someone else")
	})
}

// indexOfHash returns the position of the last '#' in s.
func indexOfHash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '#' {
			return i
		}
	}
	return 0
}
