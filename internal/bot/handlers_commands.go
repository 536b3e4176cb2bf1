package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gitlab.com/napatw/pantry-bot/internal/logger"
)

// escapeHTML escapes user-provided text for the HTML parse mode.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// formatGreeting returns a greeting suffix with the user's name.
func formatGreeting(firstName string) string {
	if firstName == "" {
		return ""
	}
	return ", " + escapeHTML(firstName)
}

// handleStart handles the /start command.
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleStartCore(ctx, tgBot, update)
}

// handleStartCore is the testable implementation of handleStart.
func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	firstName := ""
	if update.Message.From != nil {
		firstName = update.Message.From.FirstName
	}

	text := fmt.Sprintf(`👋 Welcome%s!

I keep track of what's in your pantry and warn you before food expires.

<b>Quick Start:</b>
• Add an ingredient: <code>/add นมสด, 1 ลิตร, 9 ส.ค. 2568</code>
• Snap a photo of a food label to add it automatically
• Check what needs eating: /expiring
• Pay a vendor with PromptPay: <code>/pay &lt;vendor&gt; &lt;amount&gt;</code>

Use /help to see all available commands.`,
		formatGreeting(firstName))

	logger.Log.Debug().Int64("chat_id", update.Message.Chat.ID).Msg("Sending /start response")
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send /start response")
	}
}

// handleHelp handles the /help command.
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

// handleHelpCore is the testable implementation of handleHelp.
func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := `📚 <b>Available Commands</b>

<b>Pantry:</b>
• <code>/add &lt;name&gt;[, quantity[, expiry]]</code> - Add an ingredient
• Send a photo of a food label to add it automatically
• Or just type a grocery list like <code>ซื้อนม 1 ลิตร กับไข่ 10 ฟอง</code>
• <code>/list</code> - Show everything in your pantry
• <code>/expiring</code> - Show expired and soon-to-expire items
• <code>/use &lt;id&gt;</code> - Mark an ingredient as used up
• <code>/delete &lt;id&gt;</code> - Remove an ingredient
• <code>/chart</code> - Freshness chart of your pantry

<b>Expiry dates I understand:</b>
• Thai: <code>9 ส.ค. 2568</code> (Buddhist year works)
• Slash: <code>09/08/2025</code>
• ISO: <code>2025-08-09</code>
• <code>-</code> for no expiry

<b>Shopping &amp; Payment:</b>
• <code>/vendors</code> - List local vendors
• <code>/fee &lt;vendor&gt; &lt;lat&gt; &lt;lng&gt;</code> - Delivery fee quote
• <code>/pay &lt;vendor&gt; &lt;amount&gt;</code> - PromptPay QR payload for a vendor

<b>Shared Pantry:</b>
• <code>/newgroup &lt;name&gt;</code> - Create a shared pantry
• <code>/join &lt;code&gt;</code> - Join with an invite code
• <code>/members</code> - List group members
• <code>/leave</code> - Leave your group
• <code>/dissolve</code> - Dissolve the group (host only)

<b>Other:</b>
• <code>/help</code> - Show this help message`

	logger.Log.Debug().Int64("chat_id", update.Message.Chat.ID).Msg("Sending /help response")
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send /help response")
	}
}
