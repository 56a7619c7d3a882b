package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/constants"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// ReadingLogic is the meter reading store: one cumulative reading per room
// per BS period.
type ReadingLogic struct {
	readingRepo    repository.ReadingRepository
	roomRepo       repository.RoomRepository
	auditLogRepo   repository.AuditLogRepository
	eventPublisher *BillingEventPublisher
	logger         *zap.Logger
}

func NewReadingLogic(readingRepo repository.ReadingRepository, roomRepo repository.RoomRepository, auditLogRepo repository.AuditLogRepository, eventPublisher *BillingEventPublisher, logger *zap.Logger) *ReadingLogic {
	return &ReadingLogic{
		readingRepo:    readingRepo,
		roomRepo:       roomRepo,
		auditLogRepo:   auditLogRepo,
		eventPublisher: eventPublisher,
		logger:         logger.Named("ReadingLogic"),
	}
}

func validateUnits(units primitive.Decimal128) error {
	if units.IsNaN() || units.IsInf() != 0 || helper.IsNegative(units) {
		return invalid(ErrInvalidUnits, "got %s", units.String())
	}
	return nil
}

// RecordReading creates the reading of a room for a period. A second reading
// for the same room and period is rejected, never overwritten.
func (l *ReadingLogic) RecordReading(ctx context.Context, d *dto.RecordReadingRequest) (*models.Reading, error) {
	period := d.GetPeriod()
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if err := validateUnits(d.GetUnits()); err != nil {
		return nil, err
	}

	room, err := l.roomRepo.GetRoomByID(ctx, d.GetRoomID())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrRoomNotFound, "id %s", d.GetRoomID().Hex())
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	now := time.Now()
	reading := &models.Reading{
		ID:        primitive.NewObjectID(),
		RoomID:    room.ID,
		Month:     period.Month,
		Year:      period.Year,
		Units:     d.GetUnits(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := l.readingRepo.CreateReading(ctx, reading); err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			l.logger.Warn("RecordReading: duplicate reading rejected",
				zap.Stringer("roomID", room.ID), zap.Stringer("period", period))
			return nil, conflict(ErrDuplicateReading, "room %s, %s", room.Name, period)
		}
		return nil, fmt.Errorf("failed to create reading: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildRecordReadingAuditLog(d.GetOperator(), reading)); err != nil {
		l.logger.Error("RecordReading: failed to create audit log", zap.Error(err))
	}

	event := roomEvent(constants.BillingActionReadingRecorded, room.ID,
		fmt.Sprintf("Reading %s recorded for %s (%s)", reading.Units, room.Name, period))
	event.Month, event.Year = period.Month, period.Year
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("RecordReading: failed to publish event", zap.Error(err), zap.Stringer("readingID", reading.ID))
		return nil, err
	}

	return reading, nil
}

// UpdateReading overwrites the units of an existing reading.
func (l *ReadingLogic) UpdateReading(ctx context.Context, d *dto.UpdateReadingRequest) (*models.Reading, error) {
	if err := validateUnits(d.GetUnits()); err != nil {
		return nil, err
	}

	before, err := l.readingRepo.GetReadingByID(ctx, d.GetReadingID())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrReadingNotFound, "id %s", d.GetReadingID().Hex())
		}
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}

	after, err := l.readingRepo.UpdateReadingUnits(ctx, before.ID, d.GetUnits())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrReadingNotFound, "id %s", before.ID.Hex())
		}
		return nil, fmt.Errorf("failed to update reading: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildUpdateReadingAuditLog(d.GetOperator(), before, after)); err != nil {
		l.logger.Error("UpdateReading: failed to create audit log", zap.Error(err))
	}

	period := bsdate.Period{Month: after.Month, Year: after.Year}
	event := roomEvent(constants.BillingActionReadingUpdated, after.RoomID,
		fmt.Sprintf("Reading for %s changed from %s to %s", period, before.Units, after.Units))
	event.Month, event.Year = period.Month, period.Year
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("UpdateReading: failed to publish event", zap.Error(err), zap.Stringer("readingID", after.ID))
		return nil, err
	}

	return after, nil
}

// PreviousReading returns the room's reading for the period immediately
// before period, or nil if there is none.
func (l *ReadingLogic) PreviousReading(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Reading, error) {
	return l.readingOrNil(ctx, roomID, period.Prev())
}

func (l *ReadingLogic) readingOrNil(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Reading, error) {
	r, err := l.readingRepo.GetReading(ctx, roomID, period)
	if errors.Is(err, mongodb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading for %s: %w", period, err)
	}
	return r, nil
}

// ReadingsStatus reports, for every room, the period's reading and the
// previous period's reading. Either may be nil.
func (l *ReadingLogic) ReadingsStatus(ctx context.Context, period bsdate.Period) ([]*dto.ReadingStatus, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	rooms, err := l.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	current, err := l.readingRepo.ListReadingsByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	previous, err := l.readingRepo.ListReadingsByPeriod(ctx, period.Prev())
	if err != nil {
		return nil, fmt.Errorf("failed to list previous readings: %w", err)
	}

	cur, prev := readingsByRoom(current), readingsByRoom(previous)
	res := make([]*dto.ReadingStatus, 0, len(rooms))
	for _, room := range rooms {
		res = append(res, &dto.ReadingStatus{
			Room:            room,
			Reading:         cur[room.ID],
			PreviousReading: prev[room.ID],
		})
	}
	return res, nil
}

// PendingReadings lists rooms with no reading for the period.
func (l *ReadingLogic) PendingReadings(ctx context.Context, period bsdate.Period) ([]*models.Room, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	rooms, err := l.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	readings, err := l.readingRepo.ListReadingsByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return roomsWithoutReading(rooms, readingsByRoom(readings)), nil
}

func readingsByRoom(readings []*models.Reading) map[primitive.ObjectID]*models.Reading {
	m := make(map[primitive.ObjectID]*models.Reading, len(readings))
	for _, r := range readings {
		m[r.RoomID] = r
	}
	return m
}

func roomsWithoutReading(rooms []*models.Room, readings map[primitive.ObjectID]*models.Reading) []*models.Room {
	res := []*models.Room{}
	for _, room := range rooms {
		if _, ok := readings[room.ID]; !ok {
			res = append(res, room)
		}
	}
	return res
}
