package mq

import "context"

// Message is one event handed to a Publisher. Topic names the exchange and
// Key is the routing key within it.
type Message struct {
	Topic string
	Key   string
	Body  []byte
}

// Publisher relays outbox messages to a broker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close()
}
