package handlers

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"rental_billing/internal/mq/rabbitmq"
)

// MessageHandler is a queue subscriber collected by Wire.
type MessageHandler interface {
	// Binding names the queue and the exchange pattern it subscribes to.
	Binding() rabbitmq.Binding
	// Handle processes the delivered message.
	Handle(ctx context.Context, d amqp.Delivery) error
}
