package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/mq"
)

// OutboxProcessor relays committed billing events from the outbox collection
// to the broker. Each event is routed by its action.
type OutboxProcessor struct {
	outboxRepo repository.OutboxRepository
	publisher  mq.Publisher
	logger     *zap.Logger
	interval   time.Duration
	batchSize  int
}

func NewOutboxProcessor(outboxRepo repository.OutboxRepository, publisher mq.Publisher, logger *zap.Logger, cfg *conf.WorkerConfig) *OutboxProcessor {
	interval := time.Duration(cfg.Outbox.IntervalSeconds) * time.Second
	batchSize := cfg.Outbox.BatchSize
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxProcessor{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger.Named("OutboxProcessor"),
		interval:   interval,
		batchSize:  batchSize,
	}
}

// Start polls until ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	p.logger.Info("Outbox processor started", zap.Duration("interval", p.interval), zap.Int("batchSize", p.batchSize))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.processEvents(ctx)
		case <-ctx.Done():
			p.logger.Info("Outbox processor shutting down")
			return
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) {
	claimed, err := p.outboxRepo.ClaimAndFetchEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to claim outbox events", zap.Error(err))
		return
	}

	if len(claimed) > 0 {
		p.logger.Info("Claimed events for processing", zap.Int("count", len(claimed)))
	}

	for _, event := range claimed {
		err := p.publisher.Publish(ctx, mq.Message{
			Topic: event.Topic,
			Key:   event.Action,
			Body:  []byte(event.Payload),
		})
		if err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("event_id", event.ID.Hex()),
				zap.String("action", event.Action),
				zap.Error(err),
			)
			if err := p.outboxRepo.IncrementRetry(ctx, event.ID, err.Error()); err != nil {
				p.logger.Error("Failed to increment retry for event", zap.String("event_id", event.ID.Hex()), zap.Error(err))
			}
			continue
		}

		if err := p.outboxRepo.MarkAsProcessed(ctx, event.ID); err != nil {
			p.logger.Error("Failed to mark event as processed",
				zap.String("event_id", event.ID.Hex()),
				zap.Error(err),
			)
		}
	}
}

var _ Worker = (*OutboxProcessor)(nil)
