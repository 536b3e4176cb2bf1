package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/napatw/pantry-bot/internal/logger"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// handleNewGroup handles the /newgroup command.
func (b *Bot) handleNewGroup(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleNewGroupCore(ctx, tgBot, update)
}

// handleNewGroupCore is the testable implementation of handleNewGroup.
func (b *Bot) handleNewGroupCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	name := extractCommandArgs(update.Message.Text, "/newgroup")
	if name == "" {
		b.sendText(ctx, tg, chatID, "Usage: <code>/newgroup &lt;name&gt;</code>")
		return
	}
	if len([]rune(name)) > models.MaxGroupNameLength {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ Group name is too long (max %d characters).", models.MaxGroupNameLength))
		return
	}

	if existing, err := b.groupRepo.GetByMember(ctx, userID); err == nil {
		b.sendText(ctx, tg, chatID, fmt.Sprintf("❌ You're already in <b>%s</b>. Leave it first with /leave.", escapeHTML(existing.Name)))
		return
	}

	group, err := b.groupRepo.Create(ctx, name, userID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create group")
		b.sendText(ctx, tg, chatID, "❌ Failed to create the group. Please try again.")
		return
	}

	b.sendText(ctx, tg, chatID, fmt.Sprintf(
		"👥 Created <b>%s</b>!\nShare this code so others can join: <code>%s</code>",
		escapeHTML(group.Name), group.JoinCode))
}

// handleJoin handles the /join command.
func (b *Bot) handleJoin(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleJoinCore(ctx, tgBot, update)
}

// handleJoinCore is the testable implementation of handleJoin.
func (b *Bot) handleJoinCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	code := strings.ToUpper(extractCommandArgs(update.Message.Text, "/join"))
	if code == "" {
		b.sendText(ctx, tg, chatID, "Usage: <code>/join &lt;code&gt;</code>")
		return
	}

	group, err := b.groupRepo.GetByJoinCode(ctx, code)
	if err != nil {
		b.sendText(ctx, tg, chatID, "❌ No group with that code.")
		return
	}

	if err := b.groupRepo.AddMember(ctx, group.ID, userID); err != nil {
		logger.Log.Error().Err(err).Int("group_id", group.ID).Msg("Failed to join group")
		b.sendText(ctx, tg, chatID, "❌ Failed to join the group. Please try again.")
		return
	}

	b.sendText(ctx, tg, chatID, fmt.Sprintf("👥 You joined <b>%s</b>. New ingredients you add are shared with the group.", escapeHTML(group.Name)))
}

// handleMembers handles the /members command.
func (b *Bot) handleMembers(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleMembersCore(ctx, tgBot, update)
}

// handleMembersCore is the testable implementation of handleMembers.
func (b *Bot) handleMembersCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	group, err := b.groupRepo.GetByMember(ctx, update.Message.From.ID)
	if err != nil {
		b.sendText(ctx, tg, chatID, "You're not in a group. Create one with /newgroup or /join one.")
		return
	}

	members, err := b.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		logger.Log.Error().Err(err).Int("group_id", group.ID).Msg("Failed to list group members")
		b.sendText(ctx, tg, chatID, "❌ Failed to fetch members. Please try again.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 <b>%s</b> — %d member(s)\n", escapeHTML(group.Name), len(members)))
	for _, m := range members {
		name := memberDisplayName(ctx, b, m.UserID)
		if m.IsHost {
			sb.WriteString(fmt.Sprintf("• %s (host)\n", escapeHTML(name)))
		} else {
			sb.WriteString(fmt.Sprintf("• %s\n", escapeHTML(name)))
		}
	}
	sb.WriteString(fmt.Sprintf("\nInvite code: <code>%s</code>", group.JoinCode))

	b.sendText(ctx, tg, chatID, sb.String())
}

// memberDisplayName resolves a user's display name, falling back to the ID.
func memberDisplayName(ctx context.Context, b *Bot, userID int64) string {
	user, err := b.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return fmt.Sprintf("user %d", userID)
}

// handleLeave handles the /leave command.
func (b *Bot) handleLeave(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleLeaveCore(ctx, tgBot, update)
}

// handleLeaveCore is the testable implementation of handleLeave.
func (b *Bot) handleLeaveCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	group, err := b.groupRepo.GetByMember(ctx, userID)
	if err != nil {
		b.sendText(ctx, tg, chatID, "You're not in a group.")
		return
	}
	if group.HostID == userID {
		b.sendText(ctx, tg, chatID, "❌ You're the host. Use /dissolve to disband the group instead.")
		return
	}

	if _, err := b.groupRepo.RemoveMember(ctx, group.ID, userID); err != nil {
		logger.Log.Error().Err(err).Int("group_id", group.ID).Msg("Failed to leave group")
		b.sendText(ctx, tg, chatID, "❌ Failed to leave the group. Please try again.")
		return
	}

	b.sendText(ctx, tg, chatID, fmt.Sprintf("👋 You left <b>%s</b>.", escapeHTML(group.Name)))
}

// handleDissolve handles the /dissolve command.
func (b *Bot) handleDissolve(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleDissolveCore(ctx, tgBot, update)
}

// handleDissolveCore is the testable implementation of handleDissolve.
func (b *Bot) handleDissolveCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	group, err := b.groupRepo.GetByMember(ctx, userID)
	if err != nil {
		b.sendText(ctx, tg, chatID, "You're not in a group.")
		return
	}
	if group.HostID != userID {
		b.sendText(ctx, tg, chatID, "❌ Only the host can dissolve the group.")
		return
	}

	if err := b.groupRepo.Dissolve(ctx, group.ID, userID); err != nil {
		logger.Log.Error().Err(err).Int("group_id", group.ID).Msg("Failed to dissolve group")
		b.sendText(ctx, tg, chatID, "❌ Failed to dissolve the group. Please try again.")
		return
	}

	b.sendText(ctx, tg, chatID, fmt.Sprintf(
		"💥 <b>%s</b> is dissolved. Shared ingredients went back to whoever added them.",
		escapeHTML(group.Name)))
}
