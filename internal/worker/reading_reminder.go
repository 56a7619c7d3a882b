package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/constants"
	"rental_billing/internal/dto"
)

const defaultReminderSchedule = "0 9 * * *"

type monitorReporter interface {
	Report(ctx context.Context) (*dto.MonitorReport, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event *dto.BillingEvent) error
}

// ReadingReminder runs the overdue/pending monitor on a cron schedule and
// announces rooms that still need a reading or a bill.
type ReadingReminder struct {
	monitor   monitorReporter
	publisher eventPublisher
	schedule  string
	logger    *zap.Logger
}

func NewReadingReminder(monitor monitorReporter, publisher eventPublisher, cfg *conf.WorkerConfig, logger *zap.Logger) *ReadingReminder {
	schedule := cfg.ReadingReminder.Schedule
	if schedule == "" {
		schedule = defaultReminderSchedule
	}
	return &ReadingReminder{
		monitor:   monitor,
		publisher: publisher,
		schedule:  schedule,
		logger:    logger.Named("ReadingReminder"),
	}
}

// Start schedules the check and blocks until ctx is cancelled. A bad
// schedule is logged and the worker exits.
func (r *ReadingReminder) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.Local))
	if _, err := c.AddFunc(r.schedule, func() { r.run(ctx) }); err != nil {
		r.logger.Error("Invalid reminder schedule", zap.String("schedule", r.schedule), zap.Error(err))
		return
	}

	r.logger.Info("Reading reminder started", zap.String("schedule", r.schedule))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("Reading reminder shutting down")
}

func (r *ReadingReminder) run(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Panic recovered in reading reminder",
				zap.Any("panic", rec),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()
	if err := r.Check(ctx); err != nil {
		r.logger.Error("Reading reminder failed", zap.Error(err))
	}
}

// Check runs the monitor once and publishes a reminder when any room is
// pending or overdue.
func (r *ReadingReminder) Check(ctx context.Context) error {
	report, err := r.monitor.Report(ctx)
	if err != nil {
		return fmt.Errorf("failed to run monitor: %w", err)
	}
	if len(report.Pending) == 0 && len(report.Overdue) == 0 {
		r.logger.Debug("No pending or overdue rooms", zap.Stringer("period", report.Period))
		return nil
	}

	summary := reminderSummary(report)
	r.logger.Info("Rooms need attention",
		zap.Stringer("period", report.Period),
		zap.Int("pending", len(report.Pending)),
		zap.Int("overdue", len(report.Overdue)))

	return r.publisher.Publish(ctx, &dto.BillingEvent{
		Action:  constants.BillingActionReadingReminder.String(),
		Month:   report.Period.Month,
		Year:    report.Period.Year,
		Summary: summary,
	})
}

func reminderSummary(report *dto.MonitorReport) string {
	var parts []string
	if n := len(report.Pending); n > 0 {
		names := make([]string, 0, n)
		for _, room := range report.Pending {
			names = append(names, room.Name)
		}
		parts = append(parts, fmt.Sprintf("%d room(s) awaiting a reading for %s: %s", n, report.Period, strings.Join(names, ", ")))
	}
	if n := len(report.Overdue); n > 0 {
		names := make([]string, 0, n)
		for _, o := range report.Overdue {
			names = append(names, o.Room.Name)
		}
		parts = append(parts, fmt.Sprintf("%d room(s) overdue for billing: %s", n, strings.Join(names, ", ")))
	}
	return strings.Join(parts, "; ")
}

var _ Worker = (*ReadingReminder)(nil)
