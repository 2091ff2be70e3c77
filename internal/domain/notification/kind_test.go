package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForRoute(t *testing.T) {
	tests := []struct {
		route string
		want  ResourceKind
	}{
		{"/api/v1/todos", KindTodo},
		{"/api/v1/todos/:id", KindTodo},
		{"/api/v1/gantt-tasks/:id", KindGanttTask},
		{"/api/v1/history", KindHistory},
		{"/api/v1/permissions/:id", KindPermission},
		{"/api/v1/files", KindFile},
		{"/api/v1/assets/:id", KindAsset},
		{"/api/v1/users", KindUser},
		{"/api/v1/locations", KindLocation},
		{"/api/v1/webhooks/:id", KindWebhook},
		{"/api/v1/linked-items", KindLinkedItem},
		{"/api/v1/projects/:projectId", KindResource},
		{"", KindResource},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindForRoute(tt.route), "route %q", tt.route)
	}
}

func TestKindForRouteIgnoresParamSegments(t *testing.T) {
	// A parameter name containing a kind fragment must not classify the route.
	assert.Equal(t, KindResource, KindForRoute("/api/v1/projects/:userId"))
	// Precedence: first table entry wins when multiple fragments appear.
	assert.Equal(t, KindTodo, KindForRoute("/api/v1/users/todo-lists"))
}
