package logic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/conf"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func TestEvaluateMonitor(t *testing.T) {
	current := testRoom(t, "Current")
	lapsed := testRoom(t, "Lapsed")
	fresh := testRoom(t, "Never billed")
	rooms := []*models.Room{current, lapsed, fresh}
	latest := map[primitive.ObjectID]bsdate.Period{
		current.ID: {Month: 8, Year: 2081},
		lapsed.ID:  {Month: 6, Year: 2081},
	}
	readings := map[primitive.ObjectID]*models.Reading{
		current.ID: testReading(t, current.ID, bsdate.Period{Month: 9, Year: 2081}, "10"),
	}

	t.Run("before the threshold day nothing is pending", func(t *testing.T) {
		r := evaluateMonitor(bsdate.Date{Year: 2081, Month: 9, Day: 20}, 20, rooms, readings, latest)
		assert.False(t, r.PendingGateOpen)
		assert.Empty(t, r.Pending)

		require.Len(t, r.Overdue, 1)
		assert.Equal(t, lapsed.ID, r.Overdue[0].Room.ID)
		assert.Equal(t, 3, r.Overdue[0].MonthsBehind)
	})

	t.Run("after the threshold day unread rooms are pending", func(t *testing.T) {
		r := evaluateMonitor(bsdate.Date{Year: 2081, Month: 9, Day: 21}, 20, rooms, readings, latest)
		assert.True(t, r.PendingGateOpen)
		require.Len(t, r.Pending, 2)
		assert.Equal(t, lapsed.ID, r.Pending[0].ID)
		assert.Equal(t, fresh.ID, r.Pending[1].ID)
	})

	t.Run("one period behind is not overdue across the year boundary", func(t *testing.T) {
		l := map[primitive.ObjectID]bsdate.Period{current.ID: {Month: 12, Year: 2081}}
		r := evaluateMonitor(bsdate.Date{Year: 2082, Month: 1, Day: 5}, 20, rooms, readings, l)
		assert.Empty(t, r.Overdue)
	})
}

func TestMonitorLogic_Report(t *testing.T) {
	roomRepo := newMockRoomRepository()
	readingRepo := newMockReadingRepository()
	billRepo := newMockBillRepository()
	m := NewMonitorLogic(roomRepo, readingRepo, billRepo, fixedCalendar(), &conf.BillingConfig{PendingThresholdDay: 10}, nopLogger())

	room := testRoom(t, "Room 1")
	poush := bsdate.Period{Month: 9, Year: 2081}
	roomRepo.On("ListRooms", mock.Anything).Return([]*models.Room{room}, nil)
	readingRepo.On("ListReadingsByPeriod", mock.Anything, poush).Return([]*models.Reading{}, nil)
	billRepo.On("LatestBilledPeriods", mock.Anything).
		Return(map[primitive.ObjectID]bsdate.Period{room.ID: {Month: 7, Year: 2081}}, nil)

	r, err := m.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poush, r.Period)
	assert.True(t, r.PendingGateOpen)
	assert.Len(t, r.Pending, 1)
	assert.Len(t, r.Overdue, 1)
}
