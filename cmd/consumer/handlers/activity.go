package handlers

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/dto"
	"rental_billing/internal/logic"
	"rental_billing/internal/mq/rabbitmq"
)

type activityRecorder interface {
	Record(ctx context.Context, event *dto.BillingEvent) error
}

// ActivityHandler feeds every billing event into the recent activity feed.
type ActivityHandler struct {
	activity activityRecorder
	cfg      *conf.RabbitMQConfig
	logger   *zap.Logger
}

func NewActivityHandler(activity *logic.ActivityLogic, cfg *conf.RabbitMQConfig, logger *zap.Logger) *ActivityHandler {
	return newActivityHandler(activity, cfg, logger)
}

func newActivityHandler(activity activityRecorder, cfg *conf.RabbitMQConfig, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		cfg:      cfg,
		logger:   logger.Named("ActivityHandler"),
	}
}

func (h *ActivityHandler) Binding() rabbitmq.Binding {
	return rabbitmq.Binding{
		Queue:    h.cfg.ActivityQueue,
		Exchange: h.cfg.BillingEventTopic,
		Pattern:  "#",
	}
}

// Handle records the event. Malformed payloads are acked and dropped;
// storage failures are returned so the message is requeued.
func (h *ActivityHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	var event dto.BillingEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		h.logger.Error("Failed to unmarshal billing event", zap.Error(err), zap.ByteString("body", d.Body))
		return nil
	}
	if event.Action == "" {
		event.Action = d.RoutingKey
	}

	if err := h.activity.Record(ctx, &event); err != nil {
		if logic.KindOf(err) == logic.KindValidation {
			h.logger.Warn("Dropping invalid billing event", zap.Error(err), zap.ByteString("body", d.Body))
			return nil
		}
		h.logger.Error("Failed to record activity, will retry", zap.Error(err), zap.String("action", event.Action))
		return err
	}

	h.logger.Debug("Recorded activity", zap.String("action", event.Action))
	return nil
}

var _ MessageHandler = (*ActivityHandler)(nil)
