// Package notify publishes onboarding notifications to the delivery worker
// over a Redis channel.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/provider"
)

// RedisDispatcher implements provider.NotificationDispatcher by publishing
// JSON payloads to a single channel. The notification worker on the other
// side owns templating and delivery.
type RedisDispatcher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisDispatcher connects to Redis and verifies the connection before
// returning.
func NewRedisDispatcher(addr, password string, db int, channel string, logger *zap.Logger) (*RedisDispatcher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisDispatcher{
		client:  client,
		channel: channel,
		logger:  logger,
	}, nil
}

// Dispatch publishes the notification. Callers treat failures as
// non-fatal, so the error carries enough context to be logged and dropped.
func (d *RedisDispatcher) Dispatch(ctx context.Context, n *provider.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := d.client.Publish(ctx, d.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	d.logger.Debug("notification published",
		zap.String("template_id", n.TemplateID),
		zap.String("channel", d.channel))
	return nil
}

// Close releases the Redis connection.
func (d *RedisDispatcher) Close() error {
	return d.client.Close()
}
