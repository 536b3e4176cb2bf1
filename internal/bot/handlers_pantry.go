package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/napatw/pantry-bot/internal/expiry"
	"gitlab.com/napatw/pantry-bot/internal/logger"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// handleAdd handles the /add command.
func (b *Bot) handleAdd(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleAddCore(ctx, tgBot, update)
}

// handleAddCore is the testable implementation of handleAdd.
func (b *Bot) handleAddCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	args := extractCommandArgs(update.Message.Text, "/add")
	if args == "" {
		b.sendText(ctx, tg, chatID, "Usage: <code>/add &lt;name&gt;[, quantity[, expiry]]</code>\nExample: <code>/add นมสด, 1 ลิตร, 9 ส.ค. 2568</code>")
		return
	}

	input, err := ParseIngredientInput(args)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameTooLong):
			b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ Ingredient name is too long (max %d characters).", models.MaxIngredientNameLength))
		default:
			b.sendText(ctx, tg, chatID, "❌ Couldn't read that. Try <code>/add นมสด, 1 ลิตร, 9 ส.ค. 2568</code>")
		}
		return
	}

	ing := &models.Ingredient{
		UserID:    userID,
		Name:      input.Name,
		Quantity:  input.Quantity,
		ExpiryRaw: input.ExpiryRaw,
	}
	if group, err := b.groupRepo.GetByMember(ctx, userID); err == nil {
		ing.GroupID = &group.ID
	}
	if exp, ok := expiry.ParseDate(input.ExpiryRaw, b.loc); ok {
		ing.ExpiresAt = &exp
	}

	if err := b.ingredientRepo.Create(ctx, ing); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create ingredient")
		b.sendText(ctx, tg, chatID, "❌ Failed to save the ingredient. Please try again.")
		return
	}

	b.sendText(ctx, tg, chatID, formatAddedMessage(ing, b.now()))
}

// formatAddedMessage builds the confirmation for a newly added ingredient.
func formatAddedMessage(ing *models.Ingredient, today time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Added <b>%s</b>", escapeHTML(ing.Name)))
	if ing.Quantity != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", escapeHTML(ing.Quantity)))
	}
	sb.WriteString(fmt.Sprintf(" — #%d", ing.ID))

	switch {
	case ing.ExpiresAt != nil:
		sb.WriteString("\n📅 " + expiry.DaysLeftLabel(expiry.DaysBetween(today, *ing.ExpiresAt)))
	case ing.ExpiryRaw != "" && ing.ExpiryRaw != "-":
		sb.WriteString(fmt.Sprintf("\n⚠️ Couldn't read the expiry date %q, stored it as-is.", ing.ExpiryRaw))
	}
	return sb.String()
}

// handleList handles the /list command.
func (b *Bot) handleList(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleListCore(ctx, tgBot, update)
}

// handleListCore is the testable implementation of handleList.
func (b *Bot) handleListCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	items, err := b.ingredientRepo.GetVisibleToUser(ctx, update.Message.From.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list ingredients")
		b.sendText(ctx, tg, chatID, "❌ Failed to fetch your pantry. Please try again.")
		return
	}
	if len(items) == 0 {
		b.sendText(ctx, tg, chatID, "Your pantry is empty. Add something with /add or send a label photo.")
		return
	}

	today := b.now()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧺 <b>Your Pantry</b> (%d items)\n\n", len(items)))
	for _, ing := range items {
		sb.WriteString(fmt.Sprintf("#%d %s", ing.ID, escapeHTML(ing.Name)))
		if ing.Quantity != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", escapeHTML(ing.Quantity)))
		}
		if ing.ExpiresAt != nil {
			sb.WriteString(" — " + expiry.DaysLeftLabel(expiry.DaysBetween(today, *ing.ExpiresAt)))
		}
		if ing.GroupID != nil {
			sb.WriteString(" 👥")
		}
		sb.WriteString("\n")
	}

	b.sendText(ctx, tg, chatID, sb.String())
}

// handleExpiring handles the /expiring command.
func (b *Bot) handleExpiring(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleExpiringCore(ctx, tgBot, update)
}

// handleExpiringCore is the testable implementation of handleExpiring.
func (b *Bot) handleExpiringCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	items, err := b.ingredientRepo.GetVisibleToUser(ctx, update.Message.From.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to fetch ingredients for /expiring")
		b.sendText(ctx, tg, chatID, "❌ Failed to fetch your pantry. Please try again.")
		return
	}

	c := expiry.Classify(items, b.cfg.WarningWindowDays, b.now())
	if c.Total() == 0 {
		b.sendText(ctx, tg, chatID, "🎉 Nothing is expired or expiring soon.")
		return
	}

	var sb strings.Builder
	if len(c.Expired) > 0 {
		sb.WriteString("🗑 <b>Expired</b>\n")
		for _, item := range c.Expired {
			sb.WriteString(fmt.Sprintf("#%d %s — %s\n", item.ID, escapeHTML(item.Name), expiry.DaysLeftLabel(item.DaysLeft)))
		}
	}
	if len(c.Warning) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("⏰ <b>Expiring soon</b>\n")
		for _, item := range c.Warning {
			sb.WriteString(fmt.Sprintf("#%d %s — %s\n", item.ID, escapeHTML(item.Name), expiry.DaysLeftLabel(item.DaysLeft)))
		}
	}
	// Items deliberately stored without an expiry also land in Skipped;
	// only flag the ones where the user gave a date we failed to parse.
	unreadable := 0
	for _, ing := range c.Skipped {
		if ing.ExpiryRaw != "" && ing.ExpiryRaw != "-" {
			unreadable++
		}
	}
	if unreadable > 0 {
		sb.WriteString(fmt.Sprintf("\n%d item(s) have expiry dates I couldn't read.", unreadable))
	}

	b.sendText(ctx, tg, chatID, sb.String())
}

// handleUse handles the /use command, removing a consumed ingredient.
func (b *Bot) handleUse(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.removeIngredientCore(ctx, tgBot, update, "/use", "🍳 Used up")
}

// handleDelete handles the /delete command.
func (b *Bot) handleDelete(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.removeIngredientCore(ctx, tgBot, update, "/delete", "🗑 Removed")
}

// removeIngredientCore deletes the ingredient named by the command argument.
// /use and /delete share it; only the confirmation changes.
func (b *Bot) removeIngredientCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, command, verb string) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	args := extractCommandArgs(update.Message.Text, command)
	id, err := strconv.Atoi(strings.TrimPrefix(args, "#"))
	if err != nil || id <= 0 {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("Usage: <code>%s &lt;id&gt;</code> (the number from /list)", command))
		return
	}

	ing, err := b.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ Ingredient #%d not found.", id))
		return
	}

	n, err := b.ingredientRepo.Delete(ctx, id, userID)
	if err != nil {
		logger.Log.Error().Err(err).Int("ingredient_id", id).Msg("Failed to delete ingredient")
		b.sendText(ctx, tg, chatID, "❌ Failed to remove the ingredient. Please try again.")
		return
	}
	if n == 0 {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ Ingredient #%d belongs to someone else.", id))
		return
	}

	b.sendText(ctx, tg, chatID, fmt.Sprintf("%s <b>%s</b>.", verb, escapeHTML(ing.Name)))
}

// sendText sends an HTML message and logs delivery failures.
func (b *Bot) sendText(ctx context.Context, tg TelegramAPI, chatID int64, text string) {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// now returns the current time in the bot's configured timezone.
func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}
