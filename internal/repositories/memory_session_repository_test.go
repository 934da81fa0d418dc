package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnspace/back/internal/models"
)

func TestSessionRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	session := &models.Session{
		Token:     "tok",
		Username:  "admin",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	got.CurrentSpaceID = "space-1"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "space-1", got.CurrentSpaceID)

	require.NoError(t, repo.Delete(ctx, "tok"))
	_, err = repo.GetByToken(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepositoryUpdateUnknownToken(t *testing.T) {
	repo := NewMemorySessionRepository()

	err := repo.Update(context.Background(), &models.Session{Token: "tok"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	require.NoError(t, repo.Create(ctx, &models.Session{
		Token:     "live",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &models.Session{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	require.NoError(t, repo.DeleteExpired(ctx))

	_, err := repo.GetByToken(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.GetByToken(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}
