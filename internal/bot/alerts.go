package bot

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gitlab.com/napatw/pantry-bot/internal/expiry"
	"gitlab.com/napatw/pantry-bot/internal/logger"
	"gitlab.com/napatw/pantry-bot/internal/notify"
)

const (
	// AlertCheckInterval is how often the alert loop checks whether to send
	// expiry alerts.
	AlertCheckInterval = 30 * time.Minute
	// AlertTimeout is the maximum time a single alert sweep can take.
	AlertTimeout = 2 * time.Minute
)

var (
	alertTracer  = otel.Tracer("pantry-bot/alerts")
	alertMeter   = otel.Meter("pantry-bot/alerts")
	alertCounter metric.Int64Counter
)

func init() {
	var err error
	alertCounter, err = alertMeter.Int64Counter("expiry_alerts_sent",
		metric.WithDescription("Number of expiry alert messages delivered"))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create alert counter")
	}
}

// startExpiryAlertLoop runs a periodic loop that warns users about expired
// and soon-to-expire ingredients once per day at the configured hour.
func (b *Bot) startExpiryAlertLoop(ctx context.Context) {
	if !b.cfg.ExpiryAlertEnabled {
		logger.Log.Info().Msg("Expiry alerts are disabled")
		return
	}

	logger.Log.Info().
		Int("hour", b.cfg.AlertHour).
		Str("timezone", b.cfg.AlertTimezone).
		Msg("Expiry alert loop started")

	ticker := time.NewTicker(AlertCheckInterval)
	defer ticker.Stop()

	// Run one sweep immediately so alerts aren't skipped when the process
	// starts during the configured alert hour.
	b.runAlertSweep(ctx, time.Now().In(b.loc))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Expiry alert loop stopped")
			return
		case <-ticker.C:
			b.runAlertSweep(ctx, time.Now().In(b.loc))
		}
	}
}

// runAlertSweep checks every known user's pantry and delivers at most one
// alert per user per day. Persistent markers make the dedup survive restarts.
func (b *Bot) runAlertSweep(ctx context.Context, now time.Time) {
	if now.Hour() != b.cfg.AlertHour {
		return
	}

	sweepCtx, cancel := context.WithTimeout(ctx, AlertTimeout)
	defer cancel()

	sweepCtx, span := alertTracer.Start(sweepCtx, "expiry_alert_sweep")
	defer span.End()

	userIDs, err := b.userRepo.ListUserIDs(sweepCtx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to fetch users for expiry alerts")
		return
	}
	span.SetAttributes(attribute.Int("users", len(userIDs)))

	sent := 0
	for _, userID := range userIDs {
		if b.alertUser(sweepCtx, userID, now) {
			sent++
		}
	}

	span.SetAttributes(attribute.Int("alerts_sent", sent))
	if sent > 0 {
		logger.Log.Info().Int("alerts_sent", sent).Msg("Expiry alert sweep finished")
	}
}

// alertUser classifies one user's pantry and sends an alert when due.
// Reports whether a message was delivered.
func (b *Bot) alertUser(ctx context.Context, userID int64, now time.Time) bool {
	items, err := b.ingredientRepo.GetVisibleToUser(ctx, userID)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to fetch ingredients for alert")
		return false
	}

	c := expiry.Classify(items, b.cfg.WarningWindowDays, now)
	if !b.throttle.ShouldNotify(ctx, userID, c, now) {
		return false
	}

	title, body, ok := notify.ComposeAlert(c)
	if !ok {
		return false
	}

	// ComposeAlert produces plain text; no parse mode so ingredient names
	// cannot break the markup.
	_, err = b.messageSender.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: userID,
		Text:   title + "\n\n" + body,
	})
	if err != nil {
		logger.Log.Warn().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to send expiry alert")
		return false
	}

	b.throttle.MarkNotified(ctx, userID, now)
	if alertCounter != nil {
		alertCounter.Add(ctx, 1)
	}
	logger.Log.Debug().Str("user_hash", logger.HashUserID(userID)).Msg("Sent expiry alert")
	return true
}
