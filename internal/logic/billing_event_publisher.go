package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/constants"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
)

// BillingEventTopic is the broker topic billing events are relayed to.
type BillingEventTopic string

// BillingEventPublisher writes billing events to the outbox. Callers invoke it
// inside the transaction of the change being announced, so an event exists
// if and only if the change committed.
type BillingEventPublisher struct {
	outboxRepo repository.OutboxRepository
	topic      BillingEventTopic
}

func NewBillingEventPublisher(outboxRepo repository.OutboxRepository, topic BillingEventTopic) *BillingEventPublisher {
	return &BillingEventPublisher{
		outboxRepo: outboxRepo,
		topic:      topic,
	}
}

func (p *BillingEventPublisher) Publish(ctx context.Context, event *dto.BillingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal billing event payload: %w", err)
	}

	msg := &models.OutboxMessage{
		ID:        primitive.NewObjectID(),
		Topic:     string(p.topic),
		Action:    event.Action,
		Payload:   string(payload),
		Status:    models.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	if err := p.outboxRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create billing event outbox message: %w", err)
	}
	return nil
}

func billEvent(action constants.BillingAction, bill *models.Bill, amount primitive.Decimal128, summary string) *dto.BillingEvent {
	roomID, billID := bill.RoomID, bill.ID
	e := &dto.BillingEvent{
		Action:  action.String(),
		RoomID:  &roomID,
		BillID:  &billID,
		Month:   bill.Month,
		Year:    bill.Year,
		Summary: summary,
	}
	if !helper.ToDecimal(amount).IsZero() {
		e.Amount = amount.String()
	}
	return e
}

func roomEvent(action constants.BillingAction, roomID primitive.ObjectID, summary string) *dto.BillingEvent {
	return &dto.BillingEvent{
		Action:  action.String(),
		RoomID:  &roomID,
		Summary: summary,
	}
}
