package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rental_billing/internal/db"
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

type rateStore interface {
	Get(ctx context.Context) (*models.RateConfig, error)
	Set(ctx context.Context, d *dto.SetRatesRequest) (*models.RateConfig, error)
}

type calendar interface {
	Today() (bsdate.Date, error)
	YearOptions() ([]int, error)
}

// SettingsService serves the rate configuration and calendar helpers.
type SettingsService struct {
	rates    rateStore
	calendar calendar
	tm       db.TransactionManager
	logger   *zap.Logger
}

func NewSettingsService(rates rateStore, calendar calendar, tm db.TransactionManager, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		rates:    rates,
		calendar: calendar,
		tm:       tm,
		logger:   logger.Named("SettingsService"),
	}
}

func (s *SettingsService) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.rates.Get(r.Context())
	if err != nil {
		writeLogicError(w, s.logger, "GetRates", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, rates)
}

type ratesBody struct {
	InternetPerDevice        decimal.Decimal `json:"internetPerDevice"`
	ElectricityPerUnit       decimal.Decimal `json:"electricityPerUnit"`
	ElectricityServiceCharge decimal.Decimal `json:"electricityServiceCharge"`
}

func (s *SettingsService) SetRates(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var body ratesBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	internet, err := toDecimal128("internetPerDevice", body.InternetPerDevice)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	perUnit, err := toDecimal128("electricityPerUnit", body.ElectricityPerUnit)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	service, err := toDecimal128("electricityServiceCharge", body.ElectricityServiceCharge)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewSetRatesRequest(internet, perUnit, service, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.rates.Set(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "SetRates", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

type todayResponse struct {
	Date  bsdate.Date `json:"date"`
	Label string      `json:"label"`
}

func (s *SettingsService) Today(w http.ResponseWriter, r *http.Request) {
	today, err := s.calendar.Today()
	if err != nil {
		writeLogicError(w, s.logger, "Today", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, todayResponse{
		Date:  today,
		Label: bsdate.FormatDate(today.Day, today.Month, today.Year),
	})
}

func (s *SettingsService) YearOptions(w http.ResponseWriter, r *http.Request) {
	years, err := s.calendar.YearOptions()
	if err != nil {
		writeLogicError(w, s.logger, "YearOptions", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, years)
}
