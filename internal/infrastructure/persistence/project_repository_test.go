package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/backend/internal/domain/project"
	"github.com/taskhub/backend/internal/domain/shared"
)

func TestGormProjectRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p := project.NewProject("Website relaunch", "Q3 marketing site")
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website relaunch", found.Name)
	assert.Equal(t, project.StatusActive, found.Status)

	p.Archive()
	require.NoError(t, repo.Save(ctx, p))

	list, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, list, "archived projects excluded from listings")

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormProjectRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, project.NewProject("Alpha launch", "")))
	require.NoError(t, repo.Save(ctx, project.NewProject("Beta cleanup", "")))

	list, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "alpha"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha launch", list[0].Name)
}

func TestGormTodoRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTodoRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	todo := project.NewTodo(projectID, "Write migration")
	require.NoError(t, repo.Save(ctx, todo))

	todo.Done = true
	todo.Touch()
	require.NoError(t, repo.Save(ctx, todo))

	found, err := repo.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, found.Done)

	list, err := repo.FindByProject(ctx, projectID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	count, err := repo.CountByProject(ctx, projectID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.Delete(ctx, todo.ID))
	assert.ErrorIs(t, repo.Delete(ctx, todo.ID), shared.ErrNotFound)
}
