package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/constants"
	"rental_billing/internal/db"
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
	"rental_billing/pkg/pagination"
)

type billReader interface {
	ListBillsByPeriod(ctx context.Context, period bsdate.Period) ([]*dto.BillWithDetails, error)
	RoomHistory(ctx context.Context, roomID primitive.ObjectID) ([]*dto.BillWithDetails, error)
	ActiveBill(ctx context.Context, roomID primitive.ObjectID) (*dto.BillWithDetails, error)
}

type billGenerator interface {
	Generate(ctx context.Context, d *dto.GenerateBillsRequest) (*dto.GenerateResult, error)
}

type ledger interface {
	RecordPayment(ctx context.Context, d *dto.RecordPaymentRequest) (*models.Bill, error)
	CorrectBill(ctx context.Context, d *dto.CorrectBillRequest) (*models.Bill, error)
	WorkLogs(ctx context.Context, period *bsdate.Period, roomID *primitive.ObjectID, page *pagination.PageRequest) (*pagination.PageResult, error)
}

type readingStore interface {
	RecordReading(ctx context.Context, d *dto.RecordReadingRequest) (*models.Reading, error)
	UpdateReading(ctx context.Context, d *dto.UpdateReadingRequest) (*models.Reading, error)
	ReadingsStatus(ctx context.Context, period bsdate.Period) ([]*dto.ReadingStatus, error)
	PendingReadings(ctx context.Context, period bsdate.Period) ([]*models.Room, error)
}

type monitor interface {
	Report(ctx context.Context) (*dto.MonitorReport, error)
}

// BillingService serves the /billing routes. Mutations other than
// generation run in one transaction; generation opens one per room.
type BillingService struct {
	bills     billReader
	generator billGenerator
	ledger    ledger
	readings  readingStore
	monitor   monitor
	tm        db.TransactionManager
	logger    *zap.Logger
}

func NewBillingService(bills billReader, generator billGenerator, ledger ledger, readings readingStore, monitor monitor, tm db.TransactionManager, logger *zap.Logger) *BillingService {
	return &BillingService{
		bills:     bills,
		generator: generator,
		ledger:    ledger,
		readings:  readings,
		monitor:   monitor,
		tm:        tm,
		logger:    logger.Named("BillingService"),
	}
}

// ListBills handles GET /billing/all-bills?month&year.
func (s *BillingService) ListBills(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	bills, err := s.bills.ListBillsByPeriod(r.Context(), period)
	if err != nil {
		writeLogicError(w, s.logger, "ListBills", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, bills)
}

func (s *BillingService) ReadingsStatus(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := s.readings.ReadingsStatus(r.Context(), period)
	if err != nil {
		writeLogicError(w, s.logger, "ReadingsStatus", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, status)
}

func (s *BillingService) PendingReadings(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	rooms, err := s.readings.PendingReadings(r.Context(), period)
	if err != nil {
		writeLogicError(w, s.logger, "PendingReadings", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, rooms)
}

type recordReadingBody struct {
	RoomID string          `json:"roomId"`
	Units  decimal.Decimal `json:"units"`
	Month  int             `json:"month"`
	Year   int             `json:"year"`
}

func (s *BillingService) RecordReading(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var body recordReadingBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	roomID, err := primitive.ObjectIDFromHex(body.RoomID)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid roomId")
		return
	}
	units, err := toDecimal128("units", body.Units)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	period := bsdate.Period{Month: body.Month, Year: body.Year}

	d := dto.NewRecordReadingRequest(roomID, period, units, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.readings.RecordReading(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "RecordReading", err)
		return
	}
	WriteHttpSuccess(w, http.StatusCreated, result)
}

type updateReadingBody struct {
	Units decimal.Decimal `json:"units"`
}

func (s *BillingService) UpdateReading(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	readingID, err := pathObjectID(r, "id")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body updateReadingBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	units, err := toDecimal128("units", body.Units)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewUpdateReadingRequest(readingID, units, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.readings.UpdateReading(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "UpdateReading", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

// GenerateBills handles POST /billing/generate/{month}/{year}. Rooms that
// could not be billed are listed under skipped with a 200.
func (s *BillingService) GenerateBills(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	period, err := pathPeriod(r)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.generator.Generate(r.Context(), dto.NewGenerateBillsRequest(period, operator))
	if err != nil {
		writeLogicError(w, s.logger, "GenerateBills", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

type paymentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	Remarks     string          `json:"remarks"`
	PaymentType string          `json:"paymentType"`
}

func (s *BillingService) RecordPayment(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	billID, err := pathObjectID(r, "billId")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body paymentBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := toDecimal128("amount", body.Amount)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewRecordPaymentRequest(billID, amount, constants.ParsePaymentType(body.PaymentType), body.Remarks, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.ledger.RecordPayment(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "RecordPayment", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

type correctionBody struct {
	RentAmount        decimal.NullDecimal `json:"rentAmount"`
	ElectricityAmount decimal.NullDecimal `json:"electricityAmount"`
	WaterAmount       decimal.NullDecimal `json:"waterAmount"`
	WasteAmount       decimal.NullDecimal `json:"wasteAmount"`
	InternetAmount    decimal.NullDecimal `json:"internetAmount"`
	ServiceCharge     decimal.NullDecimal `json:"serviceCharge"`
	Arrears           decimal.NullDecimal `json:"arrears"`
}

func (b correctionBody) components() (dto.BillComponents, error) {
	var c dto.BillComponents
	for _, f := range []struct {
		name string
		src  decimal.NullDecimal
		dst  **primitive.Decimal128
	}{
		{"rentAmount", b.RentAmount, &c.RentAmount},
		{"electricityAmount", b.ElectricityAmount, &c.ElectricityAmount},
		{"waterAmount", b.WaterAmount, &c.WaterAmount},
		{"wasteAmount", b.WasteAmount, &c.WasteAmount},
		{"internetAmount", b.InternetAmount, &c.InternetAmount},
		{"serviceCharge", b.ServiceCharge, &c.ServiceCharge},
		{"arrears", b.Arrears, &c.Arrears},
	} {
		v, err := optionalDecimal128(f.name, f.src)
		if err != nil {
			return dto.BillComponents{}, err
		}
		*f.dst = v
	}
	return c, nil
}

func (s *BillingService) CorrectBill(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	billID, err := pathObjectID(r, "billId")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body correctionBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	components, err := body.components()
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewCorrectBillRequest(billID, components, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.ledger.CorrectBill(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "CorrectBill", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

func (s *BillingService) RoomHistory(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathObjectID(r, "roomId")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	bills, err := s.bills.RoomHistory(r.Context(), roomID)
	if err != nil {
		writeLogicError(w, s.logger, "RoomHistory", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, bills)
}

func (s *BillingService) ActiveBill(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathObjectID(r, "roomId")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	bill, err := s.bills.ActiveBill(r.Context(), roomID)
	if err != nil {
		writeLogicError(w, s.logger, "ActiveBill", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, bill)
}

// WorkLogs handles GET /billing/work-logs?month&year&roomId&page&page_size.
// month and year must be given together.
func (s *BillingService) WorkLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var period *bsdate.Period
	if q.Get("month") != "" || q.Get("year") != "" {
		p, err := parsePeriod(q.Get("month"), q.Get("year"))
		if err != nil {
			WriteHttpError(w, http.StatusBadRequest, err.Error())
			return
		}
		period = &p
	}

	var roomID *primitive.ObjectID
	if raw := q.Get("roomId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			WriteHttpError(w, http.StatusBadRequest, "invalid roomId")
			return
		}
		roomID = &id
	}

	page, err := queryInt(r, "page", pagination.DefaultPage)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := queryInt(r, "page_size", pagination.DefaultPageSize)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.ledger.WorkLogs(r.Context(), period, roomID, pagination.NewPageRequest(page, size))
	if err != nil {
		writeLogicError(w, s.logger, "WorkLogs", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

func (s *BillingService) Monitor(w http.ResponseWriter, r *http.Request) {
	report, err := s.monitor.Report(r.Context())
	if err != nil {
		writeLogicError(w, s.logger, "Monitor", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, report)
}
