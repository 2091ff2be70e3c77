package broker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestPublisher_Publish(t *testing.T) {
	mr, client := newTestRedis(t)
	p := NewPublisherWithClient(client, config.BrokerConfig{}, zap.NewNop())

	msg := map[string]any{"type": "notification", "projectId": "p1"}
	require.NoError(t, p.Publish(context.Background(), "notification-events", msg))

	entries, err := mr.Stream("notification-events")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values[1]), &got))
	assert.Equal(t, "notification", got["type"])
	assert.Equal(t, "p1", got["projectId"])
}

func TestPublisher_PreservesPublishOrder(t *testing.T) {
	mr, client := newTestRedis(t)
	p := NewPublisherWithClient(client, config.BrokerConfig{}, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Publish(context.Background(), "todo-events", map[string]int{"seq": i}))
	}

	entries, err := mr.Stream("todo-events")
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i, e := range entries {
		var got map[string]int
		require.NoError(t, json.Unmarshal([]byte(e.Values[1]), &got))
		assert.Equal(t, i, got["seq"])
	}
}

func TestPublisher_RetriesThenFails(t *testing.T) {
	mr, client := newTestRedis(t)
	p := NewPublisherWithClient(client, config.BrokerConfig{
		PublishRetries: 2,
		PublishBackoff: time.Millisecond,
	}, zap.NewNop())

	mr.Close()

	err := p.Publish(context.Background(), "notification-events", "x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestPublisher_RejectsUnserializableMessage(t *testing.T) {
	_, client := newTestRedis(t)
	p := NewPublisherWithClient(client, config.BrokerConfig{}, zap.NewNop())

	err := p.Publish(context.Background(), "notification-events", func() {})
	assert.Error(t, err)
}

func TestConsumer_DeliversInOrder(t *testing.T) {
	_, client := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPublisherWithClient(client, config.BrokerConfig{}, zap.NewNop())
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Publish(ctx, "todo-events", map[string]int{"seq": i}))
	}

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	c := NewConsumer(client, "todo-events", config.BrokerConfig{
		ConsumeBlock:   50 * time.Millisecond,
		ReconnectDelay: 10 * time.Millisecond,
	}, zap.NewNop(), WithStartID("0"))

	go c.Run(ctx, func(payload []byte) {
		var msg map[string]int
		require.NoError(t, json.Unmarshal(payload, &msg))
		mu.Lock()
		got = append(got, msg["seq"])
		if len(got) == 3 {
			close(done)
		}
		mu.Unlock()
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestConsumer_SurvivesHandlerPanic(t *testing.T) {
	_, client := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPublisherWithClient(client, config.BrokerConfig{}, zap.NewNop())
	require.NoError(t, p.Publish(ctx, "todo-events", map[string]int{"seq": 0}))
	require.NoError(t, p.Publish(ctx, "todo-events", map[string]int{"seq": 1}))

	delivered := make(chan int, 2)
	c := NewConsumer(client, "todo-events", config.BrokerConfig{
		ConsumeBlock:   50 * time.Millisecond,
		ReconnectDelay: 10 * time.Millisecond,
	}, zap.NewNop(), WithStartID("0"))

	var calls int
	go c.Run(ctx, func(payload []byte) {
		calls++
		if calls == 1 {
			panic("bad handler")
		}
		var msg map[string]int
		_ = json.Unmarshal(payload, &msg)
		delivered <- msg["seq"]
	})

	select {
	case seq := <-delivered:
		assert.Equal(t, 1, seq, "loop continued past the panicking entry")
	case <-time.After(5 * time.Second):
		t.Fatal("consume loop did not survive the panic")
	}
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	_, client := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	c := NewConsumer(client, "todo-events", config.BrokerConfig{
		ConsumeBlock: 20 * time.Millisecond,
	}, zap.NewNop())

	stopped := make(chan struct{})
	go func() {
		c.Run(ctx, func([]byte) {})
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop on context cancellation")
	}
}
