package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
)

// ActivityFeedSize is how many entries the recent activity feed retains.
const ActivityFeedSize = 500

// ActivityLogic maintains the bounded activity feed from billing events.
type ActivityLogic struct {
	activityRepo repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityLogic(activityRepo repository.ActivityRepository, logger *zap.Logger) *ActivityLogic {
	return &ActivityLogic{
		activityRepo: activityRepo,
		logger:       logger.Named("ActivityLogic"),
	}
}

// Record appends the event to the feed and trims the oldest entries. A failed
// trim is logged only; the next event trims again.
func (l *ActivityLogic) Record(ctx context.Context, event *dto.BillingEvent) error {
	if event.Action == "" {
		return invalid(ErrInvalidEvent, "")
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	activity := &models.Activity{
		Action:     event.Action,
		RoomID:     event.RoomID,
		BillID:     event.BillID,
		Summary:    event.Summary,
		OccurredAt: occurredAt,
	}
	if err := l.activityRepo.Create(ctx, activity); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	if removed, err := l.activityRepo.TrimTo(ctx, ActivityFeedSize); err != nil {
		l.logger.Warn("Failed to trim activity feed", zap.Error(err))
	} else if removed > 0 {
		l.logger.Debug("Trimmed activity feed", zap.Int64("removed", removed))
	}
	return nil
}
