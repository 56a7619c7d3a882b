package noop

import (
	"context"

	"go.uber.org/zap"

	"rental_billing/internal/mq"
)

// Publisher drops every message. It backs dev and test modes where no broker
// runs, so outbox rows still drain.
type Publisher struct {
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger.Named("NoopPublisher")}
}

func (p *Publisher) Publish(_ context.Context, msg mq.Message) error {
	p.logger.Debug("Dropping message", zap.String("topic", msg.Topic), zap.String("key", msg.Key))
	return nil
}

func (p *Publisher) Close() {}

var _ mq.Publisher = (*Publisher)(nil)
