package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"gitlab.com/napatw/pantry-bot/internal/delivery"
	"gitlab.com/napatw/pantry-bot/internal/logger"
	"gitlab.com/napatw/pantry-bot/internal/models"
	"gitlab.com/napatw/pantry-bot/internal/promptpay"
)

var (
	payMeter   = otel.Meter("pantry-bot/payments")
	payCounter metric.Int64Counter
)

func init() {
	var err error
	payCounter, err = payMeter.Int64Counter("promptpay_payloads_built",
		metric.WithDescription("Number of PromptPay payloads generated for orders"))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create payment counter")
	}
}

// handleVendors handles the /vendors command.
func (b *Bot) handleVendors(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleVendorsCore(ctx, tgBot, update)
}

// handleVendorsCore is the testable implementation of handleVendors.
func (b *Bot) handleVendorsCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	vendors, err := b.vendorRepo.List(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list vendors")
		b.sendText(ctx, tg, chatID, "❌ Failed to fetch vendors. Please try again.")
		return
	}
	if len(vendors) == 0 {
		b.sendText(ctx, tg, chatID, "No vendors registered yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏪 <b>Vendors</b>\n\n")
	for _, v := range vendors {
		sb.WriteString(fmt.Sprintf("• <b>%s</b> (%s)\n  base fee ฿%s + ฿%s/km\n",
			escapeHTML(v.Name), escapeHTML(v.City),
			v.DeliveryBaseFee.StringFixed(2), v.DeliveryPerKm.StringFixed(2)))
	}
	sb.WriteString("\nOrder with <code>/pay &lt;vendor&gt; &lt;amount&gt;</code>, quote delivery with <code>/fee &lt;vendor&gt; &lt;lat&gt; &lt;lng&gt;</code>")

	b.sendText(ctx, tg, chatID, sb.String())
}

// handleFee handles the /fee command.
func (b *Bot) handleFee(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleFeeCore(ctx, tgBot, update)
}

// handleFeeCore is the testable implementation of handleFee. The last two
// arguments are the customer's coordinates; everything before them is the
// vendor name.
func (b *Bot) handleFeeCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := extractCommandArgs(update.Message.Text, "/fee")
	fields := strings.Fields(args)
	if len(fields) < 3 {
		b.sendText(ctx, tg, chatID, "Usage: <code>/fee &lt;vendor&gt; &lt;lat&gt; &lt;lng&gt;</code>\nExample: <code>/fee Or Tor Kor Market 13.7563 100.5018</code>")
		return
	}

	lat, latErr := strconv.ParseFloat(fields[len(fields)-2], 64)
	lng, lngErr := strconv.ParseFloat(fields[len(fields)-1], 64)
	if latErr != nil || lngErr != nil {
		b.sendText(ctx, tg, chatID, "❌ The last two arguments must be latitude and longitude.")
		return
	}
	vendorName := strings.Join(fields[:len(fields)-2], " ")

	vendor, err := b.vendorRepo.GetByName(ctx, vendorName)
	if err != nil {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ Vendor %q not found. See /vendors.", vendorName))
		return
	}

	q := delivery.QuoteFee(*vendor, lat, lng)
	b.sendText(ctx, tg, chatID, fmt.Sprintf(
		"🛵 <b>%s</b> → you: %.1f km\nBase ฿%s + distance ฿%s = <b>฿%s</b>",
		escapeHTML(vendor.Name), q.DistanceKm,
		q.BaseFee.StringFixed(2), q.PerKmFee.StringFixed(2), q.Total.StringFixed(2)))
}

// handlePay handles the /pay command.
func (b *Bot) handlePay(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handlePayCore(ctx, tgBot, update)
}

// handlePayCore is the testable implementation of handlePay. It records a
// pending order and replies with the PromptPay payload for the vendor.
func (b *Bot) handlePayCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	args := extractCommandArgs(update.Message.Text, "/pay")
	fields := strings.Fields(args)
	if len(fields) < 2 {
		b.sendText(ctx, tg, chatID, "Usage: <code>/pay &lt;vendor&gt; &lt;amount&gt;</code>\nExample: <code>/pay Or Tor Kor Market 350.50</code>")
		return
	}

	amount, err := decimal.NewFromString(fields[len(fields)-1])
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		b.sendText(ctx, tg, chatID, "❌ The last argument must be a positive amount in THB.")
		return
	}
	vendorName := strings.Join(fields[:len(fields)-1], " ")

	vendor, err := b.vendorRepo.GetByName(ctx, vendorName)
	if err != nil {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ Vendor %q not found. See /vendors.", vendorName))
		return
	}

	payload, err := promptpay.Build(promptpay.Payment{
		PromptPayID:  vendor.PromptPayID,
		Amount:       amount,
		MerchantName: vendor.Name,
		MerchantCity: vendor.City,
	})
	if err != nil {
		logger.Log.Error().Err(err).Str("vendor", vendor.Name).Msg("Failed to build PromptPay payload")
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ %s has an invalid PromptPay ID on file.", escapeHTML(vendor.Name)))
		return
	}

	order := &models.Order{UserID: userID, VendorID: vendor.ID, Amount: amount}
	if err := b.orderRepo.Create(ctx, order); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to record order")
		b.sendText(ctx, tg, chatID, "❌ Failed to record the order. Please try again.")
		return
	}
	if payCounter != nil {
		payCounter.Add(ctx, 1)
	}

	b.sendText(ctx, tg, chatID, fmt.Sprintf(
		"💸 Order #%d — pay <b>฿%s</b> to <b>%s</b>\n\nScan this PromptPay payload with your banking app:\n<code>%s</code>",
		order.ID, amount.StringFixed(2), escapeHTML(vendor.Name), payload))
}
