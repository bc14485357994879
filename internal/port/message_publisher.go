package port

import "context"

type MessagePublisher interface {
	// Publish sends message as JSON to the default exchange under routingKey
	Publish(ctx context.Context, message any, routingKey string) error

	// PublishTo sends message as JSON to an explicit exchange
	PublishTo(ctx context.Context, message any, exchange, routingKey string) error
}
