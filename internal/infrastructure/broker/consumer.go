package broker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Handler processes one raw message from a topic. Returning normally
// acknowledges nothing: delivery is at-least-once and handlers must
// tolerate redelivery.
type Handler func(payload []byte)

// Consumer tails one topic stream and dispatches entries to a handler in
// publish order. The loop runs for the lifetime of its context and
// re-establishes the stream position after transient errors.
type Consumer struct {
	client         *redis.Client
	topic          string
	block          time.Duration
	reconnectDelay time.Duration
	startID        string
	logger         *zap.Logger
}

// ConsumerOption configures a Consumer
type ConsumerOption func(*Consumer)

// WithStartID sets the stream position the consumer starts from. The
// default "$" joins at the tail; "0" replays the whole stream.
func WithStartID(id string) ConsumerOption {
	return func(c *Consumer) {
		c.startID = id
	}
}

// NewConsumer creates a consumer for one topic
func NewConsumer(client *redis.Client, topic string, brokerCfg config.BrokerConfig, logger *zap.Logger, opts ...ConsumerOption) *Consumer {
	block := brokerCfg.ConsumeBlock
	if block <= 0 {
		block = 5 * time.Second
	}
	delay := brokerCfg.ReconnectDelay
	if delay <= 0 {
		delay = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Consumer{
		client:         client,
		topic:          topic,
		block:          block,
		reconnectDelay: delay,
		startID:        "$",
		logger:         logger.Named("broker").With(zap.String("topic", topic)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes the topic until the context is cancelled. New consumers join
// at the stream tail; after an error the loop resumes from the last
// delivered entry, so redelivery of in-flight entries is possible.
func (c *Consumer) Run(ctx context.Context, handle Handler) {
	lastID := c.startID
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := c.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{c.topic, lastID},
			Block:   c.block,
			Count:   64,
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err == redis.Nil {
				// Block timeout with no new entries.
				continue
			}
			c.logger.Error("stream read failed, reconnecting", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.reconnectDelay):
			}
			continue
		}

		for _, stream := range res {
			for _, entry := range stream.Messages {
				lastID = entry.ID
				raw, ok := entry.Values[payloadField].(string)
				if !ok {
					// Malformed entry, skip without crashing the loop.
					c.logger.Debug("dropping entry without payload", zap.String("id", entry.ID))
					continue
				}
				c.dispatch(handle, []byte(raw))
			}
		}
	}
}

// dispatch invokes the handler, isolating the consume loop from panics
func (c *Consumer) dispatch(handle Handler, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panicked", zap.Any("panic", r))
		}
	}()
	handle(payload)
}
