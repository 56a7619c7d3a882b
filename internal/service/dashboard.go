package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"rental_billing/internal/dto"
	"rental_billing/internal/models"
)

type dashboard interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error)
}

type DashboardService struct {
	dashboard dashboard
	logger    *zap.Logger
}

func NewDashboardService(dashboard dashboard, logger *zap.Logger) *DashboardService {
	return &DashboardService{dashboard: dashboard, logger: logger.Named("DashboardService")}
}

func (s *DashboardService) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboard.Stats(r.Context())
	if err != nil {
		writeLogicError(w, s.logger, "Stats", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, stats)
}

// RecentActivity handles GET /dashboard/activity?limit. The limit is clamped
// by the logic layer.
func (s *DashboardService) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	activities, err := s.dashboard.RecentActivity(r.Context(), limit)
	if err != nil {
		writeLogicError(w, s.logger, "RecentActivity", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, activities)
}
