package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/repositories"
)

const validResourcesJSON = `{
	"books": [{"title": "HTTP: The Definitive Guide", "author": "Gourley & Totty", "description": "Protocol reference."}],
	"courses": [{"platform": "edX", "title": "Web Protocols", "link": "generic-url-placeholder", "description": "Intro course."}],
	"websites": [{"name": "MDN", "description": "Web documentation."}]
}`

func TestCreateSpace(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{"# HTTP\n\nAn overview.", validResourcesJSON}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	id, err := spaces.Create(ctx, "admin", "HTTP", models.DefaultCustomization())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	space, err := spaces.Get(ctx, "admin", id)
	require.NoError(t, err)
	assert.Equal(t, "HTTP", space.Topic)
	assert.Equal(t, "# HTTP\n\nAn overview.", space.Content)
	assert.Equal(t, space.CreatedAt, space.LastAccessed)
	assert.False(t, space.HasQuiz)
	assert.Empty(t, space.QuizQuestions)
	require.Len(t, space.Resources.Books, 1)
	assert.Empty(t, space.Resources.Courses[0].Link)
}

func TestCreateSpaceDegradesOnGenerationFailure(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{err: errors.New("service unavailable")}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	id, err := spaces.Create(ctx, "admin", "HTTP", models.DefaultCustomization())
	require.NoError(t, err, "a completion outage never blocks space creation")

	space, err := spaces.Get(ctx, "admin", id)
	require.NoError(t, err)
	assert.Equal(t, "Error generating content: service unavailable", space.Content)
	assert.True(t, space.Resources.IsEmpty())
}

func TestListPreservesCreationOrder(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{"overview"}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	var ids []string
	for _, topic := range []string{"HTTP", "TCP", "DNS"} {
		id, err := spaces.Create(ctx, "admin", topic, models.DefaultCustomization())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	listed, err := spaces.List(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, space := range listed {
		assert.Equal(t, ids[i], space.ID)
	}
}

func TestDeletePreservesOrderOfRemaining(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{"overview"}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	var ids []string
	for _, topic := range []string{"HTTP", "TCP", "DNS"} {
		id, err := spaces.Create(ctx, "admin", topic, models.DefaultCustomization())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, spaces.Delete(ctx, "admin", ids[1]))

	listed, err := spaces.List(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, ids[0], listed[0].ID)
	assert.Equal(t, ids[2], listed[1].ID)

	_, err = spaces.Get(ctx, "admin", ids[1])
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRegenerateReplacesContentOnly(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{"first overview", validResourcesJSON, "second overview"}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	id, err := spaces.Create(ctx, "admin", "HTTP", models.DefaultCustomization())
	require.NoError(t, err)

	before, err := spaces.Get(ctx, "admin", id)
	require.NoError(t, err)

	c := models.DefaultCustomization()
	c.DifficultyLevel = "Expert"
	after, err := spaces.Regenerate(ctx, "admin", id, c)
	require.NoError(t, err)

	assert.Equal(t, "second overview", after.Content)
	assert.Equal(t, before.Resources, after.Resources, "resources survive regeneration")
	assert.Equal(t, before.HasQuiz, after.HasQuiz)
	assert.Equal(t, before.QuizQuestions, after.QuizQuestions)

	stored, err := spaces.Get(ctx, "admin", id)
	require.NoError(t, err)
	assert.Equal(t, "second overview", stored.Content)
}

func TestEnsureQuizGeneratesOnce(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{"overview", validResourcesJSON, validQuizJSON}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	id, err := spaces.Create(ctx, "admin", "HTTP", models.DefaultCustomization())
	require.NoError(t, err)

	space, err := spaces.EnsureQuiz(ctx, "admin", id, "intermediate")
	require.NoError(t, err)
	assert.True(t, space.HasQuiz)
	assert.Len(t, space.QuizQuestions, 2)

	calls := len(client.calls)
	space, err = spaces.EnsureQuiz(ctx, "admin", id, "intermediate")
	require.NoError(t, err)
	assert.Len(t, space.QuizQuestions, 2)
	assert.Equal(t, calls, len(client.calls), "an existing quiz is never regenerated")
}

func TestEnsureResourcesBackfills(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{validResourcesJSON}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	require.NoError(t, repo.Append(ctx, "admin", models.LearningSpace{
		ID:           "space-1",
		Topic:        "HTTP",
		CreatedAt:    "2026-08-28 10:00:00",
		LastAccessed: "2026-08-28 10:00:00",
	}))

	space, err := spaces.EnsureResources(ctx, "admin", "space-1")
	require.NoError(t, err)
	assert.False(t, space.Resources.IsEmpty())

	stored, err := repo.GetByID(ctx, "admin", "space-1")
	require.NoError(t, err)
	assert.False(t, stored.Resources.IsEmpty())
}

func TestEnsureResourcesEmptyResultNotPersisted(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{err: errors.New("down")}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	require.NoError(t, repo.Append(ctx, "admin", models.LearningSpace{
		ID:           "space-1",
		Topic:        "HTTP",
		CreatedAt:    "2026-08-28 10:00:00",
		LastAccessed: "2026-08-28 10:00:00",
	}))

	space, err := spaces.EnsureResources(ctx, "admin", "space-1")
	require.NoError(t, err)
	assert.True(t, space.Resources.IsEmpty())

	calls := len(client.calls)
	_, err = spaces.EnsureResources(ctx, "admin", "space-1")
	require.NoError(t, err)
	assert.Equal(t, calls+1, len(client.calls), "an empty result is retried on the next visit")
}

func TestTouchUpdatesLastAccessed(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(&scriptedClient{}))

	require.NoError(t, repo.Append(ctx, "admin", models.LearningSpace{
		ID:           "space-1",
		Topic:        "HTTP",
		CreatedAt:    "2020-01-01 00:00:00",
		LastAccessed: "2020-01-01 00:00:00",
	}))

	require.NoError(t, spaces.Touch(ctx, "admin", "space-1"))

	space, err := spaces.Get(ctx, "admin", "space-1")
	require.NoError(t, err)
	assert.NotEqual(t, "2020-01-01 00:00:00", space.LastAccessed)
	assert.Equal(t, "2020-01-01 00:00:00", space.CreatedAt)
}

func TestSpacesAreScopedToUser(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{replies: []string{"overview"}}
	repo := repositories.NewJSONSpaceRepository(t.TempDir())
	spaces := NewSpaceService(repo, NewGeneratorService(client))

	id, err := spaces.Create(ctx, "alice", "HTTP", models.DefaultCustomization())
	require.NoError(t, err)

	_, err = spaces.Get(ctx, "bob", id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	listed, err := spaces.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, listed)
}
