package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/napatw/pantry-bot/internal/bot/mocks"
)

const friendUserID int64 = 654321

func TestGroupCommands(t *testing.T) {
	b, mockBot := setupTestBot(t)
	ctx := context.Background()
	registerBotTestUser(t, b, friendUserID)

	t.Run("newgroup requires a name", func(t *testing.T) {
		mockBot.Reset()
		b.handleNewGroupCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/newgroup"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Usage:")
	})

	t.Run("newgroup replies with a join code", func(t *testing.T) {
		mockBot.Reset()
		b.handleNewGroupCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/newgroup บ้านเรา"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "👥 Created")
		require.Contains(t, msg.Text, "บ้านเรา")

		group, err := b.groupRepo.GetByMember(ctx, testUserID)
		require.NoError(t, err)
		require.Contains(t, msg.Text, group.JoinCode)
	})

	t.Run("newgroup while already in one is refused", func(t *testing.T) {
		mockBot.Reset()
		b.handleNewGroupCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/newgroup another"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "already in")
	})

	t.Run("join with a bad code", func(t *testing.T) {
		mockBot.Reset()
		b.handleJoinCore(ctx, mockBot, mocks.MessageUpdate(2, friendUserID, "/join NOPE99"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "No group with that code")
	})

	t.Run("join accepts lowercase codes", func(t *testing.T) {
		group, err := b.groupRepo.GetByMember(ctx, testUserID)
		require.NoError(t, err)

		mockBot.Reset()
		b.handleJoinCore(ctx, mockBot, mocks.MessageUpdate(2, friendUserID, "/join "+strings.ToLower(group.JoinCode)))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "You joined")
		require.Contains(t, msg.Text, "บ้านเรา")
	})

	t.Run("members lists host and guest with the invite code", func(t *testing.T) {
		mockBot.Reset()
		b.handleMembersCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/members"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "2 member(s)")
		require.Contains(t, msg.Text, "(host)")
		require.Contains(t, msg.Text, "Invite code:")
	})

	t.Run("host cannot leave", func(t *testing.T) {
		mockBot.Reset()
		b.handleLeaveCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/leave"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "/dissolve")
	})

	t.Run("guest can leave", func(t *testing.T) {
		mockBot.Reset()
		b.handleLeaveCore(ctx, mockBot, mocks.MessageUpdate(2, friendUserID, "/leave"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "You left")

		_, err := b.groupRepo.GetByMember(ctx, friendUserID)
		require.Error(t, err)
	})

	t.Run("only the host can dissolve", func(t *testing.T) {
		group, err := b.groupRepo.GetByMember(ctx, testUserID)
		require.NoError(t, err)
		require.NoError(t, b.groupRepo.AddMember(ctx, group.ID, friendUserID))

		mockBot.Reset()
		b.handleDissolveCore(ctx, mockBot, mocks.MessageUpdate(2, friendUserID, "/dissolve"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "Only the host")
	})

	t.Run("host dissolves the group", func(t *testing.T) {
		mockBot.Reset()
		b.handleDissolveCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/dissolve"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "dissolved")

		_, err := b.groupRepo.GetByMember(ctx, testUserID)
		require.Error(t, err)
	})

	t.Run("commands outside a group", func(t *testing.T) {
		mockBot.Reset()
		b.handleMembersCore(ctx, mockBot, mocks.MessageUpdate(1, testUserID, "/members"))

		msg := mockBot.LastSentMessage()
		require.NotNil(t, msg)
		require.Contains(t, msg.Text, "not in a group")
	})
}
