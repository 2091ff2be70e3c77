package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewWithClient(client, config.CacheConfig{TTL: time.Hour}, zap.NewNop())
	return c, mr
}

func TestResponseCache_Key(t *testing.T) {
	c, _ := newTestCache(t)

	assert.Equal(t,
		"cache:10.0.0.1:GET:/api/v1/todos",
		c.Key("10.0.0.1", "GET", "/api/v1/todos", ""))
	assert.Equal(t,
		"cache:10.0.0.1:GET:/api/v1/todos:project:p1",
		c.Key("10.0.0.1", "GET", "/api/v1/todos", "p1"))
}

func TestResponseCache_GetSet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := c.Key("10.0.0.1", "GET", "/api/v1/todos", "p1")

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte(`{"data":[],"message":"Success"}`))

	val, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"data":[],"message":"Success"}`, string(val))

	// Entries expire after the TTL.
	mr.FastForward(2 * time.Hour)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestResponseCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	projectKey := c.Key("10.0.0.1", "GET", "/api/v1/todos", "proj-1")
	resourceKey := c.Key("10.0.0.2", "GET", "/api/v1/todos/res-9", "")
	unrelated := c.Key("10.0.0.1", "GET", "/api/v1/todos", "proj-2")
	postKey := c.Key("10.0.0.1", "POST", "/api/v1/todos", "proj-1")

	for _, k := range []string{projectKey, resourceKey, unrelated, postKey} {
		c.Set(ctx, k, []byte("x"))
	}

	deleted := c.Invalidate(ctx, c.ProjectPattern("proj-1"), c.ResourcePattern("res-9"))
	assert.Equal(t, 2, deleted)

	_, ok := c.Get(ctx, projectKey)
	assert.False(t, ok)
	_, ok = c.Get(ctx, resourceKey)
	assert.False(t, ok)
	_, ok = c.Get(ctx, unrelated)
	assert.True(t, ok, "other projects untouched")
	_, ok = c.Get(ctx, postKey)
	assert.True(t, ok, "only GET entries are invalidated")
}

func TestResponseCache_InvalidateOverlappingPatterns(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// One key matches both the project and the resource pattern; it must be
	// counted once.
	key := c.Key("10.0.0.1", "GET", "/api/v1/todos/res-9", "proj-1")
	c.Set(ctx, key, []byte("x"))

	deleted := c.Invalidate(ctx, c.ProjectPattern("proj-1"), c.ResourcePattern("res-9"))
	assert.Equal(t, 1, deleted)
}

func TestResponseCache_DegradesOnStoreOutage(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := c.Key("10.0.0.1", "GET", "/x", "")

	mr.Close()

	// All operations fall through silently.
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	c.Set(ctx, key, []byte("x"))
	assert.Zero(t, c.Invalidate(ctx, c.ProjectPattern("p")))
}
