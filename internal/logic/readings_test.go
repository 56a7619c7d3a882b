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
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func newReadingFixture() (*ReadingLogic, *mockReadingRepository, *mockRoomRepository, *mockOutboxRepository) {
	readingRepo := newMockReadingRepository()
	roomRepo := newMockRoomRepository()
	auditRepo := newMockAuditLogRepository()
	outboxRepo := newMockOutboxRepository()
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	l := NewReadingLogic(readingRepo, roomRepo, auditRepo, newTestPublisher(outboxRepo), nopLogger())
	return l, readingRepo, roomRepo, outboxRepo
}

func TestReadingLogic_RecordReading(t *testing.T) {
	ctx := context.Background()
	period := bsdate.Period{Month: 9, Year: 2081}

	t.Run("creates the reading", func(t *testing.T) {
		l, readingRepo, roomRepo, outboxRepo := newReadingFixture()
		room := testRoom(t, "Room 1")
		roomRepo.On("GetRoomByID", mock.Anything, room.ID).Return(room, nil)
		readingRepo.On("CreateReading", mock.Anything, mock.MatchedBy(func(r *models.Reading) bool {
			return r.RoomID == room.ID && r.Month == 9 && r.Year == 2081 && r.Units.String() == "150"
		})).Return(primitive.NilObjectID, nil).Once()

		got, err := l.RecordReading(ctx, dto.NewRecordReadingRequest(room.ID, period, dec(t, "150"), nil))
		require.NoError(t, err)
		assert.Equal(t, room.ID, got.RoomID)
		outboxRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("duplicate is a conflict, never an overwrite", func(t *testing.T) {
		l, readingRepo, roomRepo, outboxRepo := newReadingFixture()
		room := testRoom(t, "Room 1")
		roomRepo.On("GetRoomByID", mock.Anything, room.ID).Return(room, nil)
		readingRepo.On("CreateReading", mock.Anything, mock.Anything).Return(primitive.NilObjectID, mongodb.ErrDuplicate)

		_, err := l.RecordReading(ctx, dto.NewRecordReadingRequest(room.ID, period, dec(t, "150"), nil))
		assert.True(t, errors.Is(err, ErrDuplicateReading))
		assert.Equal(t, KindConflict, KindOf(err))
		readingRepo.AssertNotCalled(t, "UpdateReadingUnits", mock.Anything, mock.Anything, mock.Anything)
		outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown room", func(t *testing.T) {
		l, _, roomRepo, _ := newReadingFixture()
		id := primitive.NewObjectID()
		roomRepo.On("GetRoomByID", mock.Anything, id).Return(nil, mongodb.ErrNotFound)

		_, err := l.RecordReading(ctx, dto.NewRecordReadingRequest(id, period, dec(t, "1"), nil))
		assert.True(t, errors.Is(err, ErrRoomNotFound))
	})

	t.Run("negative units", func(t *testing.T) {
		l, _, roomRepo, _ := newReadingFixture()
		_, err := l.RecordReading(ctx, dto.NewRecordReadingRequest(primitive.NewObjectID(), period, dec(t, "-1"), nil))
		assert.True(t, errors.Is(err, ErrInvalidUnits))
		roomRepo.AssertNotCalled(t, "GetRoomByID", mock.Anything, mock.Anything)
	})
}

func TestReadingLogic_UpdateReading(t *testing.T) {
	l, readingRepo, _, _ := newReadingFixture()
	before := &models.Reading{ID: primitive.NewObjectID(), RoomID: primitive.NewObjectID(), Month: 9, Year: 2081, Units: dec(t, "150")}
	after := *before
	after.Units = dec(t, "155")
	readingRepo.On("GetReadingByID", mock.Anything, before.ID).Return(before, nil)
	readingRepo.On("UpdateReadingUnits", mock.Anything, before.ID, dec(t, "155")).Return(&after, nil).Once()

	got, err := l.UpdateReading(context.Background(), dto.NewUpdateReadingRequest(before.ID, dec(t, "155"), nil))
	require.NoError(t, err)
	assert.Equal(t, "155", got.Units.String())

	missing := primitive.NewObjectID()
	readingRepo.On("GetReadingByID", mock.Anything, missing).Return(nil, mongodb.ErrNotFound)
	_, err = l.UpdateReading(context.Background(), dto.NewUpdateReadingRequest(missing, dec(t, "1"), nil))
	assert.True(t, errors.Is(err, ErrReadingNotFound))
	readingRepo.AssertNumberOfCalls(t, "UpdateReadingUnits", 1)
}

func TestReadingLogic_PreviousReading(t *testing.T) {
	l, readingRepo, _, _ := newReadingFixture()
	roomID := primitive.NewObjectID()
	chaitra := bsdate.Period{Month: 12, Year: 2080}
	prev := testReading(t, roomID, chaitra, "90")
	readingRepo.On("GetReading", mock.Anything, roomID, chaitra).Return(prev, nil)
	readingRepo.On("GetReading", mock.Anything, roomID, bsdate.Period{Month: 11, Year: 2080}).Return(nil, mongodb.ErrNotFound)

	got, err := l.PreviousReading(context.Background(), roomID, bsdate.Period{Month: 1, Year: 2081})
	require.NoError(t, err)
	assert.Same(t, prev, got)

	got, err = l.PreviousReading(context.Background(), roomID, chaitra)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadingLogic_StatusAndPending(t *testing.T) {
	l, readingRepo, roomRepo, _ := newReadingFixture()
	period := bsdate.Period{Month: 9, Year: 2081}
	read := testRoom(t, "Read")
	unread := testRoom(t, "Unread")
	roomRepo.On("ListRooms", mock.Anything).Return([]*models.Room{read, unread}, nil)
	cur := testReading(t, read.ID, period, "150")
	prev := testReading(t, unread.ID, period.Prev(), "80")
	readingRepo.On("ListReadingsByPeriod", mock.Anything, period).Return([]*models.Reading{cur}, nil)
	readingRepo.On("ListReadingsByPeriod", mock.Anything, period.Prev()).Return([]*models.Reading{prev}, nil)

	status, err := l.ReadingsStatus(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.Same(t, cur, status[0].Reading)
	assert.Nil(t, status[0].PreviousReading)
	assert.Nil(t, status[1].Reading)
	assert.Same(t, prev, status[1].PreviousReading)

	pending, err := l.PendingReadings(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, unread.ID, pending[0].ID)
}
