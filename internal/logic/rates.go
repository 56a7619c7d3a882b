package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/constants"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/dto"
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
)

// RateProvider is the read side of the rate configuration, all the bill
// generator needs.
type RateProvider interface {
	Get(ctx context.Context) (*models.RateConfig, error)
}

// RateLogic reads and replaces the single rate record. Rates are copied into
// bills at generation time, so a change never touches issued bills.
type RateLogic struct {
	rateRepo       repository.RateConfigRepository
	auditLogRepo   repository.AuditLogRepository
	eventPublisher *BillingEventPublisher
	defaults       models.RateConfig
	logger         *zap.Logger
}

func NewRateLogic(rateRepo repository.RateConfigRepository, auditLogRepo repository.AuditLogRepository, eventPublisher *BillingEventPublisher, cfg *conf.BillingConfig, logger *zap.Logger) (*RateLogic, error) {
	defaults, err := defaultRates(cfg)
	if err != nil {
		return nil, err
	}
	return &RateLogic{
		rateRepo:       rateRepo,
		auditLogRepo:   auditLogRepo,
		eventPublisher: eventPublisher,
		defaults:       defaults,
		logger:         logger.Named("RateLogic"),
	}, nil
}

func defaultRates(cfg *conf.BillingConfig) (models.RateConfig, error) {
	r := cfg.DefaultRates
	internet, err := helper.ParseAmount(r.InternetPerDevice)
	if err != nil {
		return models.RateConfig{}, fmt.Errorf("billing.default_rates.internet_per_device: %w", err)
	}
	perUnit, err := helper.ParseAmount(r.ElectricityPerUnit)
	if err != nil {
		return models.RateConfig{}, fmt.Errorf("billing.default_rates.electricity_per_unit: %w", err)
	}
	service, err := helper.ParseAmount(r.ElectricityServiceCharge)
	if err != nil {
		return models.RateConfig{}, fmt.Errorf("billing.default_rates.electricity_service_charge: %w", err)
	}
	cfgRates := models.RateConfig{
		ID:                       models.RateConfigID,
		InternetPerDevice:        internet,
		ElectricityPerUnit:       perUnit,
		ElectricityServiceCharge: service,
	}
	if err := validateRates(&cfgRates); err != nil {
		return models.RateConfig{}, err
	}
	return cfgRates, nil
}

// Get returns the saved rates, or the configured defaults if none were saved.
func (l *RateLogic) Get(ctx context.Context) (*models.RateConfig, error) {
	cfg, err := l.rateRepo.GetRateConfig(ctx)
	if errors.Is(err, mongodb.ErrNotFound) {
		d := l.defaults
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate config: %w", err)
	}
	return cfg, nil
}

// Set validates and replaces the rate record.
func (l *RateLogic) Set(ctx context.Context, d *dto.SetRatesRequest) (*models.RateConfig, error) {
	next := &models.RateConfig{
		ID:                       models.RateConfigID,
		InternetPerDevice:        d.GetInternetPerDevice(),
		ElectricityPerUnit:       d.GetElectricityPerUnit(),
		ElectricityServiceCharge: d.GetElectricityServiceCharge(),
		UpdatedAt:                time.Now(),
		UpdatedBy:                d.GetOperator(),
	}
	if err := validateRates(next); err != nil {
		return nil, err
	}

	before, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.rateRepo.UpsertRateConfig(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save rate config: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildSetRatesAuditLog(d.GetOperator(), before, next)); err != nil {
		l.logger.Error("Set: failed to create audit log", zap.Error(err))
	}

	event := &dto.BillingEvent{
		Action: constants.BillingActionRatesUpdated.String(),
		Summary: fmt.Sprintf("Rates updated: internet %s/device, electricity %s/unit, service charge %s",
			next.InternetPerDevice, next.ElectricityPerUnit, next.ElectricityServiceCharge),
	}
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("Set: failed to publish rates event", zap.Error(err))
		return nil, err
	}

	l.logger.Info("rates updated",
		zap.Stringer("internetPerDevice", next.InternetPerDevice),
		zap.Stringer("electricityPerUnit", next.ElectricityPerUnit),
		zap.Stringer("electricityServiceCharge", next.ElectricityServiceCharge),
	)
	return next, nil
}

func validateRates(cfg *models.RateConfig) error {
	for name, v := range map[string]primitive.Decimal128{
		"internetPerDevice":        cfg.InternetPerDevice,
		"electricityPerUnit":       cfg.ElectricityPerUnit,
		"electricityServiceCharge": cfg.ElectricityServiceCharge,
	} {
		if v.IsNaN() || v.IsInf() != 0 || helper.IsNegative(v) {
			return invalid(ErrInvalidRate, "%s is %s", name, v.String())
		}
	}
	return nil
}
