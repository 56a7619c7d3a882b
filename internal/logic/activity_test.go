package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/dto"
	"rental_billing/internal/models"
)

func TestActivityLogic_Record(t *testing.T) {
	roomID, billID := primitive.NewObjectID(), primitive.NewObjectID()
	at := time.Date(2024, time.December, 30, 10, 0, 0, 0, time.UTC)
	event := &dto.BillingEvent{
		Action:     "payment.recorded",
		RoomID:     &roomID,
		BillID:     &billID,
		Summary:    "Room 1 paid 2000 (CASH)",
		OccurredAt: at,
	}

	t.Run("appends and trims", func(t *testing.T) {
		repo := newMockActivityRepository()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Activity) bool {
			return a.Action == "payment.recorded" && *a.RoomID == roomID && *a.BillID == billID &&
				a.Summary == event.Summary && a.OccurredAt.Equal(at)
		})).Return(nil)
		repo.On("TrimTo", mock.Anything, ActivityFeedSize).Return(int64(3), nil)

		require.NoError(t, NewActivityLogic(repo, nopLogger()).Record(context.Background(), event))
		repo.AssertExpectations(t)
	})

	t.Run("trim failure does not fail the event", func(t *testing.T) {
		repo := newMockActivityRepository()
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		repo.On("TrimTo", mock.Anything, ActivityFeedSize).Return(int64(0), errors.New("timeout"))

		assert.NoError(t, NewActivityLogic(repo, nopLogger()).Record(context.Background(), event))
	})

	t.Run("create failure is returned", func(t *testing.T) {
		repo := newMockActivityRepository()
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("timeout"))

		assert.Error(t, NewActivityLogic(repo, nopLogger()).Record(context.Background(), event))
		repo.AssertNotCalled(t, "TrimTo", mock.Anything, mock.Anything)
	})

	t.Run("event without action", func(t *testing.T) {
		repo := newMockActivityRepository()
		err := NewActivityLogic(repo, nopLogger()).Record(context.Background(), &dto.BillingEvent{})
		assert.ErrorIs(t, err, ErrInvalidEvent)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}
