package kafka

import (
	"context"
	"encoding/json"

	"github.com/BearBump/OrderConsole/internal/broker/messages"
	"github.com/pkg/errors"
)

const DefaultActionsTopic = "order.console.actions"

type publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// ActionPublisher forwards audit entries to Kafka, keyed by order id so the
// actions of one order stay in one partition.
type ActionPublisher struct {
	p     publisher
	topic string
}

func NewActionPublisher(p publisher, topic string) *ActionPublisher {
	if topic == "" {
		topic = DefaultActionsTopic
	}
	return &ActionPublisher{p: p, topic: topic}
}

func (a *ActionPublisher) Record(ctx context.Context, rec messages.ActionRecorded) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal action")
	}
	return a.p.Publish(ctx, a.topic, []byte(rec.OrderID), b)
}
