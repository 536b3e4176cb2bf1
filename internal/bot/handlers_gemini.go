package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gitlab.com/napatw/pantry-bot/internal/expiry"
	"gitlab.com/napatw/pantry-bot/internal/gemini"
	"gitlab.com/napatw/pantry-bot/internal/logger"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// maxDownloadBytes caps Telegram file downloads. Label photos are small;
// anything bigger is not worth sending to Gemini.
const maxDownloadBytes = 10 << 20

var fileClient = &http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
}

// handleLabelPhotoCore reads a food label photo and adds the items on it.
func (b *Bot) handleLabelPhotoCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil || len(update.Message.Photo) == 0 {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if b.geminiClient == nil {
		b.sendText(ctx, tg, chatID, "📷 Label reading is not configured. Add ingredients with <code>/add &lt;name&gt;[, quantity[, expiry]]</code>")
		return
	}

	// Telegram orders photo sizes smallest first.
	largestPhoto := update.Message.Photo[len(update.Message.Photo)-1]

	b.sendText(ctx, tg, chatID, "📷 Reading the label...")

	imageBytes, err := b.downloadFile(ctx, tg, largestPhoto.FileID)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to download photo")
		b.sendText(ctx, tg, chatID, "❌ Failed to download the photo. Please try again.")
		return
	}

	items, err := b.geminiClient.ParseLabel(ctx, imageBytes, "image/jpeg")
	if err != nil {
		b.replyParseFailure(ctx, tg, chatID, err)
		return
	}

	b.addParsedItems(ctx, tg, chatID, userID, largestPhoto.FileID, items)
}

// handleFreeTextCore tries to interpret a plain message as a grocery list.
// Returns false when free-text parsing is unavailable or found nothing, so
// the caller can fall back to the generic hint.
func (b *Bot) handleFreeTextCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || b.geminiClient == nil {
		return false
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	items, err := b.geminiClient.ParseGroceryList(ctx, text)
	if err != nil {
		if errors.Is(err, gemini.ErrNoItems) {
			return false
		}
		logger.Log.Warn().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Free-text grocery parsing failed")
		return false
	}

	b.addParsedItems(ctx, tg, chatID, userID, "", items)
	return true
}

// addParsedItems stores Gemini-extracted items and reports the outcome.
func (b *Bot) addParsedItems(ctx context.Context, tg TelegramAPI, chatID, userID int64, imageFileID string, items []gemini.GroceryItem) {
	var groupID *int
	if group, err := b.groupRepo.GetByMember(ctx, userID); err == nil {
		groupID = &group.ID
	}

	var sb strings.Builder
	added := 0
	today := b.now()
	for _, item := range items {
		ing := &models.Ingredient{
			UserID:      userID,
			GroupID:     groupID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			Category:    item.Category,
			ExpiryRaw:   item.Expiry,
			ImageFileID: imageFileID,
		}
		if exp, ok := expiry.ParseDate(item.Expiry, b.loc); ok {
			ing.ExpiresAt = &exp
		}

		if err := b.ingredientRepo.Create(ctx, ing); err != nil {
			logger.Log.Error().Err(err).Str("name", item.Name).Msg("Failed to save parsed ingredient")
			continue
		}
		added++
		sb.WriteString(fmt.Sprintf("• #%d %s", ing.ID, escapeHTML(ing.Name)))
		if ing.Quantity != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", escapeHTML(ing.Quantity)))
		}
		if ing.ExpiresAt != nil {
			sb.WriteString(" — " + expiry.DaysLeftLabel(expiry.DaysBetween(today, *ing.ExpiresAt)))
		}
		sb.WriteString("\n")
	}

	if added == 0 {
		b.sendText(ctx, tg, chatID, "❌ Couldn't save any of the items. Please try /add instead.")
		return
	}
	b.sendText(ctx, tg, chatID, fmt.Sprintf("✅ Added %d ingredient(s):\n%s", added, sb.String()))
}

// replyParseFailure maps Gemini errors to user-facing messages.
func (b *Bot) replyParseFailure(ctx context.Context, tg TelegramAPI, chatID int64, err error) {
	logger.Log.Error().Err(err).Msg("Failed to parse label")

	switch {
	case errors.Is(err, gemini.ErrParseTimeout):
		b.sendText(ctx, tg, chatID, "⏱️ Label reading timed out. Please try again or use <code>/add &lt;name&gt;</code>")
	case errors.Is(err, gemini.ErrNoItems):
		b.sendText(ctx, tg, chatID, "❌ Couldn't find any food items on this label. Try <code>/add &lt;name&gt;</code>")
	default:
		b.sendText(ctx, tg, chatID, "❌ Couldn't read this label. Try <code>/add &lt;name&gt;</code>")
	}
}

// downloadFile fetches a Telegram file's contents by file ID.
func (b *Bot) downloadFile(ctx context.Context, tg TelegramAPI, fileID string) ([]byte, error) {
	file, err := tg.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	url := tg.FileDownloadLink(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := fileClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}
