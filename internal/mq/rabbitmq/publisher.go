package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/mq"
)

// Publisher publishes outbox messages to topic exchanges.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger

	mu       sync.Mutex
	declared map[string]bool
}

func NewPublisher(cfg *conf.RabbitMQConfig, logger *zap.Logger) (*Publisher, error) {
	namedLogger := logger.Named("RabbitMQPublisher")

	conn, err := dial(cfg)
	if err != nil {
		namedLogger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		namedLogger.Error("Failed to open a channel", zap.Error(err))
		if connErr := conn.Close(); connErr != nil {
			namedLogger.Error("Failed to close connection after channel failure", zap.Error(connErr))
		}
		return nil, err
	}

	namedLogger.Info("Successfully connected to RabbitMQ")

	return &Publisher{
		conn:     conn,
		channel:  ch,
		logger:   namedLogger,
		declared: make(map[string]bool),
	}, nil
}

// Publish sends msg to the exchange named by msg.Topic, declaring it on
// first use. amqp channels are not safe for concurrent publishing.
func (p *Publisher) Publish(ctx context.Context, msg mq.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[msg.Topic] {
		if err := declareExchange(p.channel, msg.Topic); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", msg.Topic, err)
		}
		p.declared[msg.Topic] = true
	}

	err := p.channel.PublishWithContext(ctx,
		msg.Topic,
		msg.Key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         msg.Body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish a message", zap.Error(err), zap.String("topic", msg.Topic), zap.String("key", msg.Key))
		return err
	}

	p.logger.Debug("Message published", zap.String("topic", msg.Topic), zap.String("key", msg.Key))
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error("Failed to close connection", zap.Error(err))
		}
	}
	p.logger.Info("RabbitMQ connection closed.")
}

var _ mq.Publisher = (*Publisher)(nil)
