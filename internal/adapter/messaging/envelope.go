package messaging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const contentTypeJSON = "application/json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the broker-neutral form of an outbound message.
type envelope struct {
	MessageID  string
	Timestamp  time.Time
	Exchange   string
	RoutingKey string
	Body       []byte
}

func newEnvelope(message any, exchange, routingKey string) (envelope, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return envelope{}, fmt.Errorf("marshal message: %w", err)
	}

	return envelope{
		MessageID:  uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Exchange:   exchange,
		RoutingKey: routingKey,
		Body:       body,
	}, nil
}
