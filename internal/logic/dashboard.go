package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

type DashboardLogic struct {
	roomRepo     repository.RoomRepository
	tenantRepo   repository.TenantRepository
	billRepo     repository.BillRepository
	activityRepo repository.ActivityRepository
	monitor      *MonitorLogic
	logger       *zap.Logger
}

func NewDashboardLogic(roomRepo repository.RoomRepository, tenantRepo repository.TenantRepository, billRepo repository.BillRepository, activityRepo repository.ActivityRepository, monitor *MonitorLogic, logger *zap.Logger) *DashboardLogic {
	return &DashboardLogic{
		roomRepo:     roomRepo,
		tenantRepo:   tenantRepo,
		billRepo:     billRepo,
		activityRepo: activityRepo,
		monitor:      monitor,
		logger:       logger.Named("DashboardLogic"),
	}
}

// Stats aggregates the dashboard figures for today's BS period. The
// independent queries run concurrently.
func (l *DashboardLogic) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	report, err := l.monitor.Report(ctx)
	if err != nil {
		return nil, err
	}
	stats := &dto.DashboardStats{
		Period:            report.Period,
		OverdueAutomation: len(report.Overdue),
		PendingReadings:   len(report.Pending),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalRooms, err = l.roomRepo.CountRooms(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalTenants, err = l.tenantRepo.CountTenants(gctx)
		return err
	})
	g.Go(func() error {
		revenue, err := l.billRepo.SumPaidByPeriod(gctx, report.Period)
		if err != nil {
			return err
		}
		stats.Revenue = helper.ToDecimal(revenue)
		return nil
	})
	g.Go(func() error {
		arrears, err := l.billRepo.SumOutstanding(gctx)
		if err != nil {
			return err
		}
		stats.TotalArrears = helper.ToDecimal(arrears)
		return nil
	})
	g.Go(func() (err error) {
		stats.PendingBills, err = l.billRepo.CountUnpaidByPeriod(gctx, report.Period)
		return err
	})
	if err := g.Wait(); err != nil {
		l.logger.Error("Stats: aggregate failed", zap.Error(err), zap.Stringer("period", report.Period))
		return nil, fmt.Errorf("failed to aggregate dashboard stats: %w", err)
	}
	return stats, nil
}

// RecentActivity returns the newest entries of the activity feed.
func (l *DashboardLogic) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	activities, err := l.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}
