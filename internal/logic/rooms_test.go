package logic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

type roomFixture struct {
	roomRepo    *mockRoomRepository
	tenantRepo  *mockTenantRepository
	readingRepo *mockReadingRepository
	billRepo    *mockBillRepository
	logRepo     *mockPaymentLogRepository
	outboxRepo  *mockOutboxRepository
	rooms       *RoomLogic
}

func newRoomFixture() *roomFixture {
	f := &roomFixture{
		roomRepo:    newMockRoomRepository(),
		tenantRepo:  newMockTenantRepository(),
		readingRepo: newMockReadingRepository(),
		billRepo:    newMockBillRepository(),
		logRepo:     newMockPaymentLogRepository(),
		outboxRepo:  newMockOutboxRepository(),
	}
	auditRepo := newMockAuditLogRepository()
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.rooms = NewRoomLogic(f.roomRepo, f.tenantRepo, f.readingRepo, f.billRepo, f.logRepo,
		fixedCalendar(), auditRepo, newTestPublisher(f.outboxRepo), nopLogger())
	return f
}

func TestRoomLogic_CreateRoom(t *testing.T) {
	f := newRoomFixture()
	water := dec(t, "150")
	f.roomRepo.On("CreateRoom", mock.Anything, mock.MatchedBy(func(r *models.Room) bool {
		return r.Name == "Room 4" && r.WaterCharge.String() == "150" && r.WasteCharge.String() == "0"
	})).Return(primitive.NilObjectID, nil).Once()

	room, err := f.rooms.CreateRoom(context.Background(), dto.NewCreateRoomRequest(" Room 4 ", dec(t, "5000"), &water, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "Room 4", room.Name)

	_, err = f.rooms.CreateRoom(context.Background(), dto.NewCreateRoomRequest("x", dec(t, "-1"), nil, nil, nil))
	assert.True(t, errors.Is(err, ErrNegativeAmount))
	_, err = f.rooms.CreateRoom(context.Background(), dto.NewCreateRoomRequest("  ", dec(t, "1"), nil, nil, nil))
	assert.True(t, errors.Is(err, ErrInvalidName))
}

func TestRoomLogic_ListRooms(t *testing.T) {
	f := newRoomFixture()
	room := testRoom(t, "Room 1")
	f.roomRepo.On("ListRooms", mock.Anything).Return([]*models.Room{room}, nil)
	f.tenantRepo.On("ListTenants", mock.Anything).Return([]*models.Tenant{
		{RoomID: room.ID, Name: "Sita", DueDay: 20},
		{RoomID: room.ID, Name: "Ram", DueDay: 5},
	}, nil)

	rooms, err := f.rooms.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Len(t, rooms[0].Tenants, 2)
	// Today is 15 Poush 2081.
	assert.Equal(t, bsdate.Date{Year: 2081, Month: 9, Day: 20}, rooms[0].Tenants[0].NextDue)
	assert.Equal(t, "5 Magh 2081", rooms[0].Tenants[1].NextDueLabel)
}

func TestRoomLogic_AddTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("existing tenant flags the room for onboarding", func(t *testing.T) {
		f := newRoomFixture()
		room := testRoom(t, "Room 1")
		f.roomRepo.On("GetRoomByID", mock.Anything, room.ID).Return(room, nil)
		f.tenantRepo.On("CreateTenant", mock.Anything, mock.Anything).Return(primitive.NilObjectID, nil)
		f.roomRepo.On("UpdateRoom", mock.Anything, room.ID, mock.MatchedBy(func(opts []repository.UpdateOption) bool {
			return repository.ApplyUpdateOptions(opts...).SetFields["pending_onboarding"] == true
		})).Return(nil).Once()

		tenant, err := f.rooms.AddTenant(ctx, dto.NewAddTenantRequest(room.ID, "Sita", 2, 15, true, nil))
		require.NoError(t, err)
		assert.Equal(t, 2, tenant.DeviceCount)
		f.roomRepo.AssertExpectations(t)
	})

	t.Run("new tenant leaves the room alone", func(t *testing.T) {
		f := newRoomFixture()
		room := testRoom(t, "Room 1")
		f.roomRepo.On("GetRoomByID", mock.Anything, room.ID).Return(room, nil)
		f.tenantRepo.On("CreateTenant", mock.Anything, mock.Anything).Return(primitive.NilObjectID, nil)

		_, err := f.rooms.AddTenant(ctx, dto.NewAddTenantRequest(room.ID, "Ram", 0, 32, false, nil))
		require.NoError(t, err)
		f.roomRepo.AssertNotCalled(t, "UpdateRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("due day outside 1-32", func(t *testing.T) {
		f := newRoomFixture()
		for _, day := range []int{0, 33} {
			_, err := f.rooms.AddTenant(ctx, dto.NewAddTenantRequest(primitive.NewObjectID(), "Sita", 1, day, false, nil))
			assert.True(t, errors.Is(err, ErrInvalidDueDay), "day %d", day)
		}
	})
}

func TestRoomLogic_SetDeviceCount(t *testing.T) {
	f := newRoomFixture()
	before := &models.Tenant{ID: primitive.NewObjectID(), RoomID: primitive.NewObjectID(), DeviceCount: 2}
	after := *before
	after.DeviceCount = 3
	f.tenantRepo.On("GetTenantByID", mock.Anything, before.ID).Return(before, nil)
	f.tenantRepo.On("UpdateTenant", mock.Anything, before.ID, mock.MatchedBy(func(opts []repository.UpdateOption) bool {
		return repository.ApplyUpdateOptions(opts...).SetFields["device_count"] == 3
	})).Return(&after, nil).Once()

	got, err := f.rooms.SetDeviceCount(context.Background(), before.ID, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DeviceCount)

	_, err = f.rooms.SetDeviceCount(context.Background(), before.ID, -1, nil)
	assert.True(t, errors.Is(err, ErrInvalidDeviceCount))
}

func TestRoomLogic_DeleteRoom(t *testing.T) {
	t.Run("cascades to owned documents", func(t *testing.T) {
		f := newRoomFixture()
		room := testRoom(t, "Room 1")
		f.roomRepo.On("DeleteRoom", mock.Anything, room.ID).Return(room, nil)
		f.tenantRepo.On("DeleteTenantsByRoom", mock.Anything, room.ID).Return(int64(2), nil).Once()
		f.readingRepo.On("DeleteReadingsByRoom", mock.Anything, room.ID).Return(int64(5), nil).Once()
		f.logRepo.On("DeletePaymentLogsByRoom", mock.Anything, room.ID).Return(int64(3), nil).Once()
		f.billRepo.On("DeleteBillsByRoom", mock.Anything, room.ID).Return(int64(4), nil).Once()

		require.NoError(t, f.rooms.DeleteRoom(context.Background(), room.ID, nil))
		f.tenantRepo.AssertExpectations(t)
		f.readingRepo.AssertExpectations(t)
		f.logRepo.AssertExpectations(t)
		f.billRepo.AssertExpectations(t)
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newRoomFixture()
		id := primitive.NewObjectID()
		f.roomRepo.On("DeleteRoom", mock.Anything, id).Return(nil, mongodb.ErrNotFound)
		err := f.rooms.DeleteRoom(context.Background(), id, nil)
		assert.True(t, errors.Is(err, ErrRoomNotFound))
		f.tenantRepo.AssertNotCalled(t, "DeleteTenantsByRoom", mock.Anything, mock.Anything)
	})
}
