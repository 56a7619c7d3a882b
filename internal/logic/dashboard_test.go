package logic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/conf"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func newDashboardFixture(t *testing.T) (*DashboardLogic, *mockBillRepository, *mockActivityRepository) {
	roomRepo := newMockRoomRepository()
	tenantRepo := newMockTenantRepository()
	readingRepo := newMockReadingRepository()
	billRepo := newMockBillRepository()
	activityRepo := newMockActivityRepository()

	room := testRoom(t, "Room 1")
	roomRepo.On("ListRooms", mock.Anything).Return([]*models.Room{room}, nil)
	roomRepo.On("CountRooms", mock.Anything).Return(int64(1), nil)
	tenantRepo.On("CountTenants", mock.Anything).Return(int64(2), nil)
	readingRepo.On("ListReadingsByPeriod", mock.Anything, mock.Anything).Return([]*models.Reading{}, nil)
	billRepo.On("LatestBilledPeriods", mock.Anything).
		Return(map[primitive.ObjectID]bsdate.Period{room.ID: {Month: 5, Year: 2081}}, nil)

	monitor := NewMonitorLogic(roomRepo, readingRepo, billRepo, fixedCalendar(), &conf.BillingConfig{PendingThresholdDay: 20}, nopLogger())
	return NewDashboardLogic(roomRepo, tenantRepo, billRepo, activityRepo, monitor, nopLogger()), billRepo, activityRepo
}

func TestDashboardLogic_Stats(t *testing.T) {
	poush := bsdate.Period{Month: 9, Year: 2081}

	t.Run("aggregates", func(t *testing.T) {
		l, billRepo, _ := newDashboardFixture(t)
		billRepo.On("SumPaidByPeriod", mock.Anything, poush).Return(dec(t, "5950"), nil)
		billRepo.On("SumOutstanding", mock.Anything).Return(dec(t, "2000.50"), nil)
		billRepo.On("CountUnpaidByPeriod", mock.Anything, poush).Return(int64(1), nil)

		stats, err := l.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, poush, stats.Period)
		assert.Equal(t, int64(1), stats.TotalRooms)
		assert.Equal(t, int64(2), stats.TotalTenants)
		assert.Equal(t, "5950", stats.Revenue.String())
		assert.Equal(t, "2000.5", stats.TotalArrears.String())
		assert.Equal(t, 1, stats.OverdueAutomation)
		assert.Equal(t, int64(1), stats.PendingBills)
		// 15 Poush is before the threshold day.
		assert.Zero(t, stats.PendingReadings)
	})

	t.Run("any failed aggregate fails the call", func(t *testing.T) {
		l, billRepo, _ := newDashboardFixture(t)
		billRepo.On("SumPaidByPeriod", mock.Anything, poush).Return(dec(t, "0"), nil)
		billRepo.On("SumOutstanding", mock.Anything).Return(dec(t, "0"), errors.New("boom"))
		billRepo.On("CountUnpaidByPeriod", mock.Anything, poush).Return(int64(0), nil)

		_, err := l.Stats(context.Background())
		assert.ErrorContains(t, err, "boom")
	})
}

func TestDashboardLogic_RecentActivity(t *testing.T) {
	l, _, activityRepo := newDashboardFixture(t)
	activityRepo.On("ListRecent", mock.Anything, DefaultActivityLimit).Return([]*models.Activity{{Summary: "a"}}, nil).Once()
	activityRepo.On("ListRecent", mock.Anything, MaxActivityLimit).Return([]*models.Activity{}, nil).Once()

	got, err := l.RecentActivity(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = l.RecentActivity(context.Background(), 1000)
	require.NoError(t, err)
	activityRepo.AssertExpectations(t)
}
