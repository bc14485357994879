package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/coffee-service/internal/config"
	"github.com/rl1809/coffee-service/internal/port"
)

// Publisher is a broker-backed MessagePublisher that can be probed and closed.
type Publisher interface {
	port.MessagePublisher
	port.HealthChecker
	Close() error
}

var (
	_ Publisher = (*RabbitMQPublisher)(nil)
	_ Publisher = (*RedisPublisher)(nil)
)

// NewPublisher connects to the broker selected by cfg.Broker. The Redis
// stream takes the name of the configured exchange.
func NewPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Publisher, error) {
	switch cfg.Broker {
	case config.BrokerRabbitMQ:
		return DialRabbitMQ(cfg.RabbitMQ, logger)
	case config.BrokerRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: 100,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
		return NewRedisPublisher(client, cfg.RabbitMQ.Exchange, logger), nil
	default:
		return nil, fmt.Errorf("unsupported broker %q", cfg.Broker)
	}
}
