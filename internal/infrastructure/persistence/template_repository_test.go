package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/shared"
)

func TestGormTemplateRepository_FindLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTemplateRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	older := notification.NewTemplate(&projectID, notification.KindTodo, "old {{title}}", "old body")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, older))

	newer := notification.NewTemplate(&projectID, notification.KindTodo, "new {{title}}", "new body")
	require.NoError(t, repo.Save(ctx, newer))

	t.Run("returns most recently created match", func(t *testing.T) {
		got, err := repo.FindLatest(ctx, &projectID, notification.KindTodo)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, got.ID)
	})

	t.Run("kind mismatch yields ErrTemplateNotFound", func(t *testing.T) {
		_, err := repo.FindLatest(ctx, &projectID, notification.KindWebhook)
		assert.ErrorIs(t, err, shared.ErrTemplateNotFound)
	})

	t.Run("project scoping excludes other projects", func(t *testing.T) {
		other := uuid.New()
		_, err := repo.FindLatest(ctx, &other, notification.KindTodo)
		assert.ErrorIs(t, err, shared.ErrTemplateNotFound)
	})

	t.Run("nil project matches global templates only", func(t *testing.T) {
		_, err := repo.FindLatest(ctx, nil, notification.KindTodo)
		assert.ErrorIs(t, err, shared.ErrTemplateNotFound)

		global := notification.NewTemplate(nil, notification.KindTodo, "global", "g")
		require.NoError(t, repo.Save(ctx, global))

		got, err := repo.FindLatest(ctx, nil, notification.KindTodo)
		require.NoError(t, err)
		assert.Equal(t, global.ID, got.ID)
	})
}

func TestGormTemplateRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTemplateRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	tpl := notification.NewTemplate(&projectID, notification.KindFile, "s", "b")
	require.NoError(t, repo.Save(ctx, tpl))

	found, err := repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.KindFile, found.Kind)
	require.NotNil(t, found.ProjectID)
	assert.Equal(t, projectID, *found.ProjectID)

	all, err := repo.FindAll(ctx, &projectID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, tpl.ID))
	_, err = repo.FindByID(ctx, tpl.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tpl.ID), shared.ErrNotFound)
}
