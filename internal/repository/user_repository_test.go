package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

func TestUserRepository(t *testing.T) {
	tx := database.TestTx(t)
	repo := NewUserRepository(tx)
	ctx := context.Background()

	t.Run("upsert creates then updates", func(t *testing.T) {
		err := repo.UpsertUser(ctx, &models.User{
			ID:        200,
			Username:  "napat",
			FirstName: "Napat",
		})
		require.NoError(t, err)

		user, err := repo.GetUserByID(ctx, 200)
		require.NoError(t, err)
		require.Equal(t, "napat", user.Username)

		err = repo.UpsertUser(ctx, &models.User{
			ID:        200,
			Username:  "napat_w",
			FirstName: "Napat",
			LastName:  "W",
		})
		require.NoError(t, err)

		user, err = repo.GetUserByID(ctx, 200)
		require.NoError(t, err)
		require.Equal(t, "napat_w", user.Username)
		require.Equal(t, "W", user.LastName)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetUserByID(ctx, 987654)
		require.Error(t, err)
	})

	t.Run("list ids", func(t *testing.T) {
		require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: 201, Username: "friend"}))

		ids, err := repo.ListUserIDs(ctx)
		require.NoError(t, err)
		require.Contains(t, ids, int64(200))
		require.Contains(t, ids, int64(201))
	})
}
