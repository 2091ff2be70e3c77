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

func TestGormNotificationRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	n := notification.NewNotification(projectID, "Todo changed", "something happened", notification.KindTodo)
	n.Data = map[string]any{"title": "A", "projectId": projectID.String()}
	require.NoError(t, repo.Save(ctx, n))

	found, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Todo changed", found.Title)
	assert.Equal(t, notification.KindTodo, found.Kind)
	assert.Equal(t, notification.StatusActive, found.Status)
	assert.Equal(t, "A", found.Data["title"])
}

func TestGormNotificationRepository_FindByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormNotificationRepository_FindByProject(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	projectID := uuid.New()
	otherProject := uuid.New()

	for i, title := range []string{"first", "second", "third"} {
		n := notification.NewNotification(projectID, title, "body", notification.KindTodo)
		n.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Save(ctx, n))
	}
	require.NoError(t, repo.Save(ctx,
		notification.NewNotification(otherProject, "elsewhere", "body", notification.KindFile)))

	deleted := notification.NewNotification(projectID, "gone", "body", notification.KindTodo)
	deleted.SoftDelete()
	require.NoError(t, repo.Save(ctx, deleted))

	list, err := repo.FindByProject(ctx, projectID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, list, 3, "soft-deleted and foreign records excluded")
	assert.Equal(t, "third", list[0].Title, "newest first")

	count, err := repo.CountByProject(ctx, projectID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestGormNotificationRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	n := notification.NewNotification(uuid.New(), "t", "m", notification.KindResource)
	require.NoError(t, repo.Save(ctx, n))

	n.SoftDelete()
	require.NoError(t, repo.Save(ctx, n))

	// The record still exists, it is only hidden from project listings.
	found, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDeleted())
}

func TestGormNotificationRepository_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	for i := 0; i < 25; i++ {
		n := notification.NewNotification(projectID, "n", "b", notification.KindTodo)
		n.CreatedAt = time.Now().Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, repo.Save(ctx, n))
	}

	page1, err := repo.FindByProject(ctx, projectID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	page3, err := repo.FindByProject(ctx, projectID, shared.Filter{Page: 3, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, page1, 10)
	assert.Len(t, page3, 5)
}
