// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"gitlab.com/napatw/pantry-bot/internal/config"
	"gitlab.com/napatw/pantry-bot/internal/gemini"
	"gitlab.com/napatw/pantry-bot/internal/logger"
	"gitlab.com/napatw/pantry-bot/internal/models"
	"gitlab.com/napatw/pantry-bot/internal/notify"
	"gitlab.com/napatw/pantry-bot/internal/repository"
)

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot           *bot.Bot
	messageSender TelegramAPI
	cfg           *config.Config
	loc           *time.Location

	userRepo       *repository.UserRepository
	ingredientRepo *repository.IngredientRepository
	vendorRepo     *repository.VendorRepository
	groupRepo      *repository.GroupRepository
	orderRepo      *repository.OrderRepository

	throttle     *notify.Throttle
	geminiClient *gemini.Client
}

// New creates a new Bot instance.
func New(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*Bot, error) {
	loc, err := time.LoadLocation(cfg.AlertTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.AlertTimezone, err)
	}

	b := &Bot{
		cfg:            cfg,
		loc:            loc,
		userRepo:       repository.NewUserRepository(pool),
		ingredientRepo: repository.NewIngredientRepository(pool),
		vendorRepo:     repository.NewVendorRepository(pool),
		groupRepo:      repository.NewGroupRepository(pool),
		orderRepo:      repository.NewOrderRepository(pool),
		throttle:       notify.NewThrottle(notify.NewPGStore(pool)),
	}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		b.geminiClient = client
	} else {
		logger.Log.Warn().Msg("GEMINI_API_KEY not set, photo and free-text parsing disabled")
	}

	opts := []bot.Option{
		bot.WithMiddlewares(b.whitelistMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.messageSender = telegramBot
	b.registerHandlers()

	return b, nil
}

// Start begins polling for updates and runs the expiry alert loop until the
// context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	go b.startExpiryAlertLoop(ctx)

	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// registerHandlers sets up command handlers.
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, b.handleAdd)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/list", bot.MatchTypePrefix, b.handleList)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/expiring", bot.MatchTypePrefix, b.handleExpiring)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/use", bot.MatchTypePrefix, b.handleUse)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, b.handleDelete)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/vendors", bot.MatchTypePrefix, b.handleVendors)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/fee", bot.MatchTypePrefix, b.handleFee)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pay", bot.MatchTypePrefix, b.handlePay)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newgroup", bot.MatchTypePrefix, b.handleNewGroup)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/join", bot.MatchTypePrefix, b.handleJoin)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/members", bot.MatchTypePrefix, b.handleMembers)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/leave", bot.MatchTypePrefix, b.handleLeave)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/dissolve", bot.MatchTypePrefix, b.handleDissolve)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/chart", bot.MatchTypePrefix, b.handleChart)
}

// whitelistMiddleware checks if the user is whitelisted before processing.
func (b *Bot) whitelistMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		userID := extractUserID(update)
		if userID == 0 {
			return
		}

		username := extractUsername(update)
		logUserAction(userID, update)

		if !b.cfg.IsUserWhitelisted(userID, username) {
			logger.Log.Warn().
				Str("user_hash", logger.HashUserID(userID)).
				Msg("Blocked non-whitelisted user")
			if update.Message != nil {
				_, _ = tgBot.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: update.Message.Chat.ID,
					Text:   "⛔ Sorry, you are not authorized to use this bot.",
				})
			}
			return
		}

		if err := b.ensureUserRegistered(ctx, update); err != nil {
			logger.Log.Error().
				Str("user_hash", logger.HashUserID(userID)).
				Err(err).
				Msg("Failed to register user")
		}

		next(ctx, tgBot, update)
	}
}

// logUserAction logs the user's input/action.
func logUserAction(userID int64, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	event := logger.Log.Info().
		Str("user_hash", logger.HashUserID(userID)).
		Int64("chat_id", msg.Chat.ID)

	if msg.Text != "" {
		event = event.Str("text", logger.SanitizeText(msg.Text))
	}
	if len(msg.Photo) > 0 {
		event = event.Str("type", "photo")
	}

	event.Msg("User input")
}

// extractUsername gets the username from the update.
func extractUsername(update *tgmodels.Update) string {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.Username
	}
	return ""
}

// extractUserID gets the user ID from the update.
func extractUserID(update *tgmodels.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	return 0
}

// ensureUserRegistered creates or updates the user record.
func (b *Bot) ensureUserRegistered(ctx context.Context, update *tgmodels.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	from := update.Message.From
	user := &models.User{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}

	if err := b.userRepo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// defaultHandler handles messages that are not commands: label photos and
// free-text grocery lists.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.defaultHandlerCore(ctx, tgBot, update)
}

// defaultHandlerCore is the testable implementation of defaultHandler.
func (b *Bot) defaultHandlerCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	if len(update.Message.Photo) > 0 {
		b.handleLabelPhotoCore(ctx, tg, update)
		return
	}

	if b.handleFreeTextCore(ctx, tg, update) {
		return
	}

	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      "I didn't understand that. Use /help to see available commands, or add an ingredient like <code>/add นมสด, 1 ลิตร, 9 ส.ค. 2568</code>",
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send default response")
	}
}
