package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	"rental_billing/pkg/pagination"
)

// LedgerLogic records payments and corrections against issued bills.
type LedgerLogic struct {
	billRepo       repository.BillRepository
	paymentLogRepo repository.PaymentLogRepository
	roomRepo       repository.RoomRepository
	auditLogRepo   repository.AuditLogRepository
	eventPublisher *BillingEventPublisher
	logger         *zap.Logger
}

func NewLedgerLogic(billRepo repository.BillRepository, paymentLogRepo repository.PaymentLogRepository, roomRepo repository.RoomRepository, auditLogRepo repository.AuditLogRepository, eventPublisher *BillingEventPublisher, logger *zap.Logger) *LedgerLogic {
	return &LedgerLogic{
		billRepo:       billRepo,
		paymentLogRepo: paymentLogRepo,
		roomRepo:       roomRepo,
		auditLogRepo:   auditLogRepo,
		eventPublisher: eventPublisher,
		logger:         logger.Named("LedgerLogic"),
	}
}

func validatePayment(d *dto.RecordPaymentRequest) (string, error) {
	amount := d.GetAmount()
	if amount.IsNaN() || amount.IsInf() != 0 || !helper.ToDecimal(amount).IsPositive() {
		return "", invalid(ErrInvalidAmount, "got %s", amount.String())
	}
	remarks := strings.TrimSpace(d.GetRemarks())
	switch d.GetPaymentType() {
	case constants.PaymentTypeCash:
	case constants.PaymentTypeWork:
		if remarks == "" {
			return "", invalid(ErrMissingRemarks, "")
		}
	default:
		return "", invalid(ErrInvalidPaymentType, "")
	}
	return remarks, nil
}

// RecordPayment appends a payment log and adds its amount to the bill. The
// increment happens in the database, so concurrent payments never lose one
// another. Overpayment is accepted.
func (l *LedgerLogic) RecordPayment(ctx context.Context, d *dto.RecordPaymentRequest) (*models.Bill, error) {
	remarks, err := validatePayment(d)
	if err != nil {
		return nil, err
	}

	before, err := l.billRepo.GetBillByID(ctx, d.GetBillID())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrBillNotFound, "id %s", d.GetBillID().Hex())
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	log := &models.PaymentLog{
		ID:          primitive.NewObjectID(),
		BillID:      before.ID,
		RoomID:      before.RoomID,
		Month:       before.Month,
		Year:        before.Year,
		Amount:      d.GetAmount(),
		PaymentType: d.GetPaymentType().String(),
		Remarks:     remarks,
		CreatedAt:   time.Now(),
		CreatedBy:   d.GetOperator(),
	}
	if _, err := l.paymentLogRepo.CreatePaymentLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create payment log: %w", err)
	}

	after, err := l.billRepo.ApplyPayment(ctx, before.ID, d.GetAmount())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrBillNotFound, "id %s", before.ID.Hex())
		}
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildRecordPaymentAuditLog(d.GetOperator(), before, after, log)); err != nil {
		l.logger.Error("RecordPayment: failed to create audit log", zap.Error(err))
	}

	summary := fmt.Sprintf("%s payment of %s received for %s", log.PaymentType, log.Amount,
		bsdate.FormatMonthYear(after.Month, after.Year))
	if remarks != "" {
		summary += ": " + remarks
	}
	if err := l.eventPublisher.Publish(ctx, billEvent(constants.BillingActionPaymentRecorded, after, log.Amount, summary)); err != nil {
		l.logger.Error("RecordPayment: failed to publish event", zap.Error(err), zap.Stringer("billID", after.ID))
		return nil, err
	}

	l.logger.Info("payment recorded",
		zap.Stringer("billID", after.ID),
		zap.Stringer("amount", log.Amount),
		zap.String("type", log.PaymentType),
		zap.Bool("isPaid", after.IsPaid),
	)
	return after, nil
}

func correctionOptions(c dto.BillComponents) ([]repository.UpdateOption, error) {
	var opts []repository.UpdateOption
	for _, f := range []struct {
		name string
		v    *primitive.Decimal128
		opt  func(primitive.Decimal128) repository.UpdateOption
	}{
		{"rentAmount", c.RentAmount, repository.WithRentAmount},
		{"electricityAmount", c.ElectricityAmount, repository.WithElectricityAmount},
		{"waterAmount", c.WaterAmount, repository.WithWaterAmount},
		{"wasteAmount", c.WasteAmount, repository.WithWasteAmount},
		{"internetAmount", c.InternetAmount, repository.WithInternetAmount},
		{"serviceCharge", c.ServiceCharge, repository.WithServiceCharge},
		{"arrears", c.Arrears, repository.WithArrears},
	} {
		if f.v == nil {
			continue
		}
		if f.v.IsNaN() || f.v.IsInf() != 0 || helper.IsNegative(*f.v) {
			return nil, invalid(ErrNegativeAmount, "%s is %s", f.name, f.v.String())
		}
		opts = append(opts, f.opt(*f.v))
	}
	if len(opts) == 0 {
		return nil, invalid(ErrEmptyCorrection, "")
	}
	return opts, nil
}

// CorrectBill replaces the given components. The total and the paid flag are
// recomputed in the same update; payment logs are never touched.
func (l *LedgerLogic) CorrectBill(ctx context.Context, d *dto.CorrectBillRequest) (*models.Bill, error) {
	opts, err := correctionOptions(d.GetComponents())
	if err != nil {
		return nil, err
	}

	before, err := l.billRepo.GetBillByID(ctx, d.GetBillID())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrBillNotFound, "id %s", d.GetBillID().Hex())
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	after, err := l.billRepo.CorrectBill(ctx, before.ID, opts...)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrBillNotFound, "id %s", before.ID.Hex())
		}
		return nil, fmt.Errorf("failed to correct bill: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildCorrectBillAuditLog(d.GetOperator(), before, after)); err != nil {
		l.logger.Error("CorrectBill: failed to create audit log", zap.Error(err))
	}

	summary := fmt.Sprintf("Bill for %s corrected from %s to %s",
		bsdate.FormatMonthYear(after.Month, after.Year), before.TotalAmount, after.TotalAmount)
	if err := l.eventPublisher.Publish(ctx, billEvent(constants.BillingActionBillCorrected, after, after.TotalAmount, summary)); err != nil {
		l.logger.Error("CorrectBill: failed to publish event", zap.Error(err), zap.Stringer("billID", after.ID))
		return nil, err
	}
	return after, nil
}

// WorkLogs pages through WORK payments, optionally narrowed to a period
// and a room.
func (l *LedgerLogic) WorkLogs(ctx context.Context, period *bsdate.Period, roomID *primitive.ObjectID, page *pagination.PageRequest) (*pagination.PageResult, error) {
	if period != nil {
		if err := validatePeriod(*period); err != nil {
			return nil, err
		}
	}

	logs, total, err := l.paymentLogRepo.ListWorkLogs(ctx, &repository.ListWorkLogsParams{
		Period: period,
		RoomID: roomID,
		Limit:  page.GetLimit(),
		Offset: page.GetOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}

	rooms, err := l.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	names := make(map[primitive.ObjectID]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}

	items := make([]*dto.WorkLog, 0, len(logs))
	for _, log := range logs {
		items = append(items, &dto.WorkLog{
			PaymentLog:  log,
			RoomName:    names[log.RoomID],
			PeriodLabel: bsdate.FormatMonthYear(log.Month, log.Year),
			CreatedAtBS: FormatBSDate(log.CreatedAt),
		})
	}
	return pagination.NewPageResult(items, total, page), nil
}
