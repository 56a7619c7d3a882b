package rabbitmq

import (
	"context"
	"fmt"
	"runtime/debug"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
)

// HandlerFunc handles one delivery. A returned error nacks and requeues it.
type HandlerFunc func(ctx context.Context, delivery amqp.Delivery) error

// Binding names a queue and the exchange pattern it receives.
type Binding struct {
	Queue    string
	Exchange string
	Pattern  string
}

type registration struct {
	binding Binding
	handler HandlerFunc
}

// Consumer drains bound queues, one goroutine per queue.
type Consumer struct {
	conn          *amqp.Connection
	logger        *zap.Logger
	registrations []registration
}

// NewConsumer dials RabbitMQ. The returned cleanup closes the connection.
func NewConsumer(cfg *conf.RabbitMQConfig, logger *zap.Logger) (*Consumer, func(), error) {
	namedLogger := logger.Named("RabbitMQConsumer")

	conn, err := dial(cfg)
	if err != nil {
		namedLogger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, nil, err
	}

	namedLogger.Info("Successfully connected to RabbitMQ")

	c := &Consumer{conn: conn, logger: namedLogger}
	return c, c.Close, nil
}

func (c *Consumer) RegisterHandler(b Binding, handler HandlerFunc) {
	c.registrations = append(c.registrations, registration{binding: b, handler: handler})
}

// Start consumes every registered queue until ctx is cancelled or a queue
// fails to set up.
func (c *Consumer) Start(ctx context.Context) error {
	if len(c.registrations) == 0 {
		return fmt.Errorf("no handlers registered, consumer will not start")
	}

	done := make(chan error, len(c.registrations))
	for _, reg := range c.registrations {
		go func(reg registration) {
			done <- c.consumeQueue(ctx, reg.binding, reg.handler)
		}(reg)
	}

	for range c.registrations {
		if err := <-done; err != nil {
			return err
		}
	}
	return nil
}

func (c *Consumer) consumeQueue(ctx context.Context, b Binding, handler HandlerFunc) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel for %s: %w", b.Queue, err)
	}
	defer ch.Close()

	if err := declareExchange(ch, b.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", b.Exchange, err)
	}

	q, err := ch.QueueDeclare(
		b.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", b.Queue, err)
	}

	if err := ch.QueueBind(q.Name, b.Pattern, b.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", b.Queue, err)
	}

	// One unacked message at a time.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS on %s: %w", b.Queue, err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer on %s: %w", b.Queue, err)
	}

	c.logger.Info("Started consuming from queue", zap.String("queue", q.Name), zap.String("exchange", b.Exchange))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel of %s closed", q.Name)
			}
			c.handle(ctx, q.Name, d, handler)
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping consumer", zap.String("queue", q.Name))
			return nil
		}
	}
}

func (c *Consumer) handle(ctx context.Context, queue string, d amqp.Delivery, handler HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered in message handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.String("queue", queue),
			)
			// Dropped rather than requeued to avoid a panic loop.
			if d.Acknowledger != nil {
				d.Nack(false, false)
			}
		}
	}()

	c.logger.Debug("Received a message", zap.String("queue", queue), zap.String("key", d.RoutingKey))
	if err := handler(ctx, d); err != nil {
		c.logger.Error("Handler failed to process message", zap.Error(err), zap.String("queue", queue))
		if d.Acknowledger != nil {
			d.Nack(false, true)
		}
		return
	}
	if d.Acknowledger != nil {
		d.Ack(false)
	}
}

func (c *Consumer) Close() {
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close connection", zap.Error(err))
		}
	}
}
