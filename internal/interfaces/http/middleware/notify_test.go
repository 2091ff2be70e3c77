package middleware

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/backend/internal/application/notify"
	"github.com/taskhub/backend/internal/domain/notification"
	"github.com/taskhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type stubTemplates struct{}

func (stubTemplates) FindByID(ctx context.Context, id uuid.UUID) (*notification.Template, error) {
	return nil, shared.ErrNotFound
}

func (stubTemplates) FindAll(ctx context.Context, projectID *uuid.UUID, filter shared.Filter) ([]notification.Template, error) {
	return nil, nil
}

func (stubTemplates) FindLatest(ctx context.Context, projectID *uuid.UUID, kind notification.ResourceKind) (*notification.Template, error) {
	return nil, shared.ErrTemplateNotFound
}

func (stubTemplates) Save(ctx context.Context, t *notification.Template) error { return nil }
func (stubTemplates) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

type recordingNotifications struct {
	mu    sync.Mutex
	saved []*notification.Notification
}

func (r *recordingNotifications) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return nil, shared.ErrNotFound
}

func (r *recordingNotifications) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	return nil, nil
}

func (r *recordingNotifications) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *recordingNotifications) Save(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, n)
	return nil
}

func (r *recordingNotifications) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []any
}

func (r *recordingPublisher) Publish(ctx context.Context, topic string, message any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func newNotifyRouter(notifications *recordingNotifications) *gin.Engine {
	synthesizer := notify.NewSynthesizer(
		notify.NewRenderer(stubTemplates{}),
		notifications,
		&recordingPublisher{},
		"notification-events",
		zap.NewNop(),
	)

	router := gin.New()
	router.Use(ProjectScope())
	router.Use(Notify(synthesizer))
	handler := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.POST("/api/v1/todos", handler)
	router.GET("/api/v1/todos", handler)
	router.DELETE("/api/v1/todos/:id", handler)
	router.POST("/api/v1/fail", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad"})
	})
	return router
}

func TestNotify_FiresOnSuccessfulMutation(t *testing.T) {
	notifications := &recordingNotifications{}
	router := newNotifyRouter(notifications)
	projectID := uuid.New().String()

	w := perform(router, http.MethodPost, "/api/v1/todos",
		`{"title":"A","projectId":"`+projectID+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		return notifications.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotify_SkipsWhenNotApplicable(t *testing.T) {
	projectID := uuid.New().String()

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"GET request", http.MethodGet, "/api/v1/todos?projectId=" + projectID, ""},
		{"DELETE request", http.MethodDelete, "/api/v1/todos/t1?projectId=" + projectID, ""},
		{"no project scope", http.MethodPost, "/api/v1/todos", `{"title":"A"}`},
		{"failed request", http.MethodPost, "/api/v1/fail", `{"projectId":"` + projectID + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifications := &recordingNotifications{}
			router := newNotifyRouter(notifications)
			perform(router, tt.method, tt.target, tt.body, nil)

			time.Sleep(100 * time.Millisecond)
			assert.Equal(t, 0, notifications.count())
		})
	}
}
