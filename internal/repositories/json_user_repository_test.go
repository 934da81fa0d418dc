package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/utils"
)

func TestUserRepositorySeedsDefaultAccount(t *testing.T) {
	dir := t.TempDir()
	repo := NewJSONUserRepository(dir)

	user, err := repo.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, utils.VerifyPassword("password", user.PasswordHash))

	// The first read materializes the data file.
	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	var stored map[string]string
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Contains(t, stored, "admin")
	assert.NotEqual(t, "password", stored["admin"], "passwords are stored hashed")
}

func TestUserRepositoryUnknownUser(t *testing.T) {
	repo := NewJSONUserRepository(t.TempDir())

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryCreatePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewJSONUserRepository(dir)

	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", PasswordHash: hash}))

	// A fresh repository instance reads the same file.
	reopened := NewJSONUserRepository(dir)
	user, err := reopened.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword("s3cret", user.PasswordHash))
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONUserRepository(t.TempDir())

	err := repo.Create(ctx, &models.User{Username: "admin", PasswordHash: "x"})
	assert.Error(t, err)
}

func TestUserRepositoryRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

	repo := NewJSONUserRepository(dir)

	user, err := repo.GetByUsername(context.Background(), "admin")
	require.NoError(t, err, "a corrupt file is reset to the seeded default")
	assert.True(t, utils.VerifyPassword("password", user.PasswordHash))
}

func TestUserRepositoryResetDropsPartiallyDecodedEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Valid JSON with a wrong value type: the decoder lands "zombie"
	// before failing on "bad". The reset must not keep it.
	corrupt := `{"zombie": "some-hash", "bad": 123}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(corrupt), 0o644))

	repo := NewJSONUserRepository(dir)

	_, err := repo.GetByUsername(ctx, "zombie")
	assert.ErrorIs(t, err, ErrNotFound, "entries from the broken file must not survive the reset")

	user, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword("password", user.PasswordHash))
}
