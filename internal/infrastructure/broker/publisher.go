// Package broker provides durable, at-least-once event transport between
// the notification pipeline and the realtime gateway, backed by Redis
// streams. Each topic is one stream; entries are delivered in publish order
// to a given consumer.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// payloadField is the single stream entry field carrying the serialized message
const payloadField = "payload"

// Publisher deposits serialized messages onto named topics. The Redis
// connection is established lazily on first publish and reused afterwards;
// a lost connection is retried transparently on the next call.
type Publisher struct {
	redisCfg config.RedisConfig
	retries  int
	backoff  time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	client *redis.Client
}

// NewPublisher creates a publisher. No connection is opened until the first
// Publish call.
func NewPublisher(redisCfg config.RedisConfig, brokerCfg config.BrokerConfig, logger *zap.Logger) *Publisher {
	retries := brokerCfg.PublishRetries
	if retries < 1 {
		retries = 3
	}
	backoff := brokerCfg.PublishBackoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		redisCfg: redisCfg,
		retries:  retries,
		backoff:  backoff,
		logger:   logger.Named("broker"),
	}
}

// NewPublisherWithClient creates a publisher over an existing Redis client
func NewPublisherWithClient(client *redis.Client, brokerCfg config.BrokerConfig, logger *zap.Logger) *Publisher {
	p := NewPublisher(config.RedisConfig{}, brokerCfg, logger)
	p.client = client
	return p
}

// Publish serializes the message and appends it to the topic's stream.
// Failures are retried with doubling backoff up to the configured attempt
// count; the call never blocks indefinitely.
func (p *Publisher) Publish(ctx context.Context, topic string, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message for topic %s: %w", topic, err)
	}

	backoff := p.backoff
	var lastErr error
	for attempt := 0; attempt < p.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		client := p.getClient()
		err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: topic,
			Values: map[string]any{payloadField: raw},
		}).Err()
		if err == nil {
			return nil
		}
		lastErr = err
		p.logger.Warn("publish failed, retrying",
			zap.String("topic", topic),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return fmt.Errorf("failed to publish to %s after %d attempts: %w", topic, p.retries, lastErr)
}

// getClient returns the shared client, dialing lazily on first use
func (p *Publisher) getClient() *redis.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		p.client = redis.NewClient(&redis.Options{
			Addr:     p.redisCfg.Addr(),
			Password: p.redisCfg.Password,
			DB:       p.redisCfg.DB,
		})
	}
	return p.client
}

// Close releases the Redis connection if one was established
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}
