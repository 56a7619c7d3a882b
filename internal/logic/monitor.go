package logic

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// MonitorLogic reports rooms with a missing reading and rooms whose bill
// generation has lapsed. It never blocks any billing action.
type MonitorLogic struct {
	roomRepo     repository.RoomRepository
	readingRepo  repository.ReadingRepository
	billRepo     repository.BillRepository
	calendar     *CalendarLogic
	thresholdDay int
	logger       *zap.Logger
}

func NewMonitorLogic(roomRepo repository.RoomRepository, readingRepo repository.ReadingRepository, billRepo repository.BillRepository, calendar *CalendarLogic, cfg *conf.BillingConfig, logger *zap.Logger) *MonitorLogic {
	return &MonitorLogic{
		roomRepo:     roomRepo,
		readingRepo:  readingRepo,
		billRepo:     billRepo,
		calendar:     calendar,
		thresholdDay: cfg.PendingThresholdDay,
		logger:       logger.Named("MonitorLogic"),
	}
}

// Report evaluates the monitor for today's BS period.
func (l *MonitorLogic) Report(ctx context.Context) (*dto.MonitorReport, error) {
	today, err := l.calendar.Today()
	if err != nil {
		return nil, err
	}
	period := today.Period()

	rooms, err := l.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	readings, err := l.readingRepo.ListReadingsByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	latest, err := l.billRepo.LatestBilledPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest billed periods: %w", err)
	}

	report := evaluateMonitor(today, l.thresholdDay, rooms, readingsByRoom(readings), latest)
	l.logger.Debug("monitor evaluated",
		zap.Stringer("period", period),
		zap.Int("pending", len(report.Pending)),
		zap.Int("overdue", len(report.Overdue)),
	)
	return report, nil
}

// evaluateMonitor is the pure part of Report. Pending rooms are only
// reported once today's day is past thresholdDay. A room is overdue when its
// latest bill is more than one period behind today; a room never billed is
// not overdue.
func evaluateMonitor(today bsdate.Date, thresholdDay int, rooms []*models.Room, readings map[primitive.ObjectID]*models.Reading, latest map[primitive.ObjectID]bsdate.Period) *dto.MonitorReport {
	period := today.Period()
	report := &dto.MonitorReport{
		Today:           today,
		Period:          period,
		PendingGateOpen: today.Day > thresholdDay,
		Pending:         []*models.Room{},
		Overdue:         []dto.OverdueRoom{},
	}
	if report.PendingGateOpen {
		report.Pending = roomsWithoutReading(rooms, readings)
	}
	for _, room := range rooms {
		last, ok := latest[room.ID]
		if !ok {
			continue
		}
		if behind := period.MonthsSince(last); behind > 1 {
			report.Overdue = append(report.Overdue, dto.OverdueRoom{Room: room, LastBilled: last, MonthsBehind: behind})
		}
	}
	return report
}
