package main

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rental_billing/cmd/consumer/handlers"
	"rental_billing/internal/mq/rabbitmq"
	"rental_billing/internal/worker"
)

// ConsumerApp holds the components of the consumer application.
type ConsumerApp struct {
	consumer *rabbitmq.Consumer
	workers  []worker.Worker
	logger   *zap.Logger
}

// NewConsumerApp creates the consumer application and registers all handlers.
func NewConsumerApp(consumer *rabbitmq.Consumer, workers []worker.Worker, logger *zap.Logger, handlers []handlers.MessageHandler) *ConsumerApp {
	for _, h := range handlers {
		b := h.Binding()
		logger.Info("Registering handler", zap.String("queue", b.Queue), zap.String("exchange", b.Exchange))
		consumer.RegisterHandler(b, h.Handle)
	}

	return &ConsumerApp{
		consumer: consumer,
		workers:  workers,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled or the consumer fails.
func (a *ConsumerApp) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting RabbitMQ consumer")
		return a.consumer.Start(gCtx)
	})

	for _, w := range a.workers {
		w := w
		g.Go(func() error {
			w.Start(gCtx)
			return nil
		})
	}

	return g.Wait()
}
