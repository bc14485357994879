package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rl1809/coffee-service/internal/config"
)

const exchangeKindTopic = "topic"

var ErrPublisherClosed = errors.New("publisher closed")

type amqpConnection interface {
	IsClosed() bool
	Close() error
}

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// RabbitMQPublisher publishes JSON messages to a durable topic exchange over
// one long-lived channel. Publishes are fire-and-forget: no confirms are
// requested and nothing is retried.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     amqpConnection
	channel  amqpChannel
	exchange string
	logger   *zap.Logger
}

// DialRabbitMQ connects, opens a channel and declares the default exchange.
func DialRabbitMQ(cfg config.RabbitMQConfig, logger *zap.Logger) (*RabbitMQPublisher, error) {
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		Vhost:    cfg.VirtualHost,
	}

	conn, err := amqp.DialConfig(uri.String(), amqp.Config{
		Vhost:      cfg.VirtualHost,
		Properties: amqp.Table{"connection_name": "coffee-service"},
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewRabbitMQPublisher(conn, ch, cfg.Exchange, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("exchange", cfg.Exchange))

	return p, nil
}

func NewRabbitMQPublisher(conn amqpConnection, channel amqpChannel, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if err := channel.ExchangeDeclare(exchange, exchangeKindTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, message any, routingKey string) error {
	return p.PublishTo(ctx, message, p.exchange, routingKey)
}

func (p *RabbitMQPublisher) PublishTo(ctx context.Context, message any, exchange, routingKey string) error {
	env, err := newEnvelope(message, exchange, routingKey)
	if err != nil {
		p.logger.Error("error publishing message to rabbitmq", zap.Error(err))
		return err
	}

	msg := amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    env.MessageID,
		Timestamp:    env.Timestamp,
		Body:         env.Body,
	}

	// The channel is shared across requests; frames of concurrent
	// publishes must not interleave.
	p.mu.Lock()
	if p.channel == nil {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	err = p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("error publishing message to rabbitmq",
			zap.String("exchange", exchange),
			zap.String("routing_key", routingKey),
			zap.Error(err))
		return fmt.Errorf("publish to %s: %w", exchange, err)
	}

	p.logger.Info("message published",
		zap.String("exchange", exchange),
		zap.String("routing_key", routingKey),
		zap.String("message_id", env.MessageID))

	return nil
}

func (p *RabbitMQPublisher) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() || p.conn.IsClosed() {
		return ErrPublisherClosed
	}
	return nil
}

// Close releases the channel, then the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}

	chErr := p.channel.Close()
	connErr := p.conn.Close()
	p.channel = nil

	return errors.Join(chErr, connErr)
}
