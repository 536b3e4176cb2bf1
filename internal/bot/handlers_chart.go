package bot

import (
	"bytes"
	"context"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/napatw/pantry-bot/internal/logger"
)

// handleChart handles the /chart command.
func (b *Bot) handleChart(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleChartCore(ctx, tgBot, update)
}

// handleChartCore is the testable implementation of handleChart.
func (b *Bot) handleChartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	items, err := b.ingredientRepo.GetVisibleToUser(ctx, update.Message.From.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to fetch ingredients for /chart")
		b.sendText(ctx, tg, chatID, "❌ Failed to fetch your pantry. Please try again.")
		return
	}
	if len(items) == 0 {
		b.sendText(ctx, tg, chatID, "Your pantry is empty, nothing to chart.")
		return
	}

	today := b.now()
	png, err := GenerateFreshnessChart(items, b.cfg.WarningWindowDays, today)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to generate freshness chart")
		b.sendText(ctx, tg, chatID, "❌ Failed to generate the chart. Please try again.")
		return
	}

	_, err = tg.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &tgmodels.InputFileUpload{
			Filename: chartFilename(today),
			Data:     bytes.NewReader(png),
		},
		Caption: "Pantry freshness",
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send chart photo")
		b.sendText(ctx, tg, chatID, "❌ Failed to send the chart.")
	}
}
