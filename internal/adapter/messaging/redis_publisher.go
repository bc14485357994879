package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher appends messages to a Redis stream named after the target
// exchange. Consumers filter on the routing_key field.
type RedisPublisher struct {
	client   *redis.Client
	exchange string
	maxLen   int64
	logger   *zap.Logger
}

func NewRedisPublisher(client *redis.Client, exchange string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:   client,
		exchange: exchange,
		maxLen:   100000,
		logger:   logger,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, message any, routingKey string) error {
	return p.PublishTo(ctx, message, p.exchange, routingKey)
}

func (p *RedisPublisher) PublishTo(ctx context.Context, message any, exchange, routingKey string) error {
	env, err := newEnvelope(message, exchange, routingKey)
	if err != nil {
		p.logger.Error("error publishing message to redis", zap.Error(err))
		return err
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: exchange,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"message_id":   env.MessageID,
			"timestamp":    env.Timestamp.Format(time.RFC3339Nano),
			"routing_key":  env.RoutingKey,
			"content_type": contentTypeJSON,
			"body":         string(env.Body),
		},
	}).Result()
	if err != nil {
		p.logger.Error("error publishing message to redis",
			zap.String("stream", exchange),
			zap.String("routing_key", routingKey),
			zap.Error(err))
		return fmt.Errorf("xadd %s: %w", exchange, err)
	}

	p.logger.Info("message published",
		zap.String("stream", exchange),
		zap.String("routing_key", routingKey),
		zap.String("message_id", env.MessageID),
		zap.String("entry_id", id))

	return nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
