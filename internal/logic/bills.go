package logic

import (
	"context"
	"errors"
	"fmt"

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

// BillQueryLogic serves the read side of bills, joined with rooms, tenants
// and payment logs.
type BillQueryLogic struct {
	billRepo       repository.BillRepository
	roomRepo       repository.RoomRepository
	tenantRepo     repository.TenantRepository
	paymentLogRepo repository.PaymentLogRepository
	logger         *zap.Logger
}

func NewBillQueryLogic(billRepo repository.BillRepository, roomRepo repository.RoomRepository, tenantRepo repository.TenantRepository, paymentLogRepo repository.PaymentLogRepository, logger *zap.Logger) *BillQueryLogic {
	return &BillQueryLogic{
		billRepo:       billRepo,
		roomRepo:       roomRepo,
		tenantRepo:     tenantRepo,
		paymentLogRepo: paymentLogRepo,
		logger:         logger.Named("BillQueryLogic"),
	}
}

// BillStatus derives the display status of a bill.
func BillStatus(b *models.Bill) constants.BillStatus {
	switch {
	case b.IsPaid:
		return constants.BillStatusPaid
	case helper.ToDecimal(b.PaidAmount).IsPositive():
		return constants.BillStatusPartiallyPaid
	default:
		return constants.BillStatusUnpaid
	}
}

func newBillWithDetails(b *models.Bill, room *models.Room, tenants []*models.Tenant, logs []*models.PaymentLog) *dto.BillWithDetails {
	if tenants == nil {
		tenants = []*models.Tenant{}
	}
	entries := make([]*dto.PaymentLogEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, &dto.PaymentLogEntry{PaymentLog: log, CreatedAtBS: FormatBSDate(log.CreatedAt)})
	}
	return &dto.BillWithDetails{
		Bill:        b,
		Period:      bsdate.FormatMonthYear(b.Month, b.Year),
		Status:      BillStatus(b).String(),
		Outstanding: b.Outstanding(),
		Credit:      b.Credit(),
		Room:        room,
		Tenants:     tenants,
		PaymentLogs: entries,
	}
}

func (l *BillQueryLogic) logsByBill(ctx context.Context, bills []*models.Bill) (map[primitive.ObjectID][]*models.PaymentLog, error) {
	ids := make([]primitive.ObjectID, 0, len(bills))
	for _, b := range bills {
		ids = append(ids, b.ID)
	}
	logs, err := l.paymentLogRepo.ListPaymentLogsByBills(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment logs: %w", err)
	}
	m := make(map[primitive.ObjectID][]*models.PaymentLog, len(bills))
	for _, log := range logs {
		m[log.BillID] = append(m[log.BillID], log)
	}
	return m, nil
}

// ListBillsByPeriod returns every bill of the period with its room, the
// room's tenants and its payment logs.
func (l *BillQueryLogic) ListBillsByPeriod(ctx context.Context, period bsdate.Period) ([]*dto.BillWithDetails, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	bills, err := l.billRepo.ListBillsByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	if len(bills) == 0 {
		return []*dto.BillWithDetails{}, nil
	}

	rooms, err := l.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	tenants, err := l.tenantRepo.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	logs, err := l.logsByBill(ctx, bills)
	if err != nil {
		return nil, err
	}

	roomByID := make(map[primitive.ObjectID]*models.Room, len(rooms))
	for _, r := range rooms {
		roomByID[r.ID] = r
	}
	tenantsByRoom := make(map[primitive.ObjectID][]*models.Tenant)
	for _, t := range tenants {
		tenantsByRoom[t.RoomID] = append(tenantsByRoom[t.RoomID], t)
	}

	res := make([]*dto.BillWithDetails, 0, len(bills))
	for _, b := range bills {
		res = append(res, newBillWithDetails(b, roomByID[b.RoomID], tenantsByRoom[b.RoomID], logs[b.ID]))
	}
	return res, nil
}

// RoomHistory returns the room's bills oldest first, each with its payment logs.
func (l *BillQueryLogic) RoomHistory(ctx context.Context, roomID primitive.ObjectID) ([]*dto.BillWithDetails, error) {
	if _, err := l.room(ctx, roomID); err != nil {
		return nil, err
	}
	bills, err := l.billRepo.ListBillsByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	logs, err := l.logsByBill(ctx, bills)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.BillWithDetails, 0, len(bills))
	for _, b := range bills {
		res = append(res, newBillWithDetails(b, nil, nil, logs[b.ID]))
	}
	return res, nil
}

// ActiveBill returns the room's most recent unpaid bill.
func (l *BillQueryLogic) ActiveBill(ctx context.Context, roomID primitive.ObjectID) (*dto.BillWithDetails, error) {
	room, err := l.room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	bill, err := l.billRepo.GetLatestUnpaidBill(ctx, roomID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrBillNotFound, "no unpaid bill for room %s", room.Name)
		}
		return nil, fmt.Errorf("failed to get active bill: %w", err)
	}
	tenants, err := l.tenantRepo.ListTenantsByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	logs, err := l.logsByBill(ctx, []*models.Bill{bill})
	if err != nil {
		return nil, err
	}
	return newBillWithDetails(bill, room, tenants, logs[bill.ID]), nil
}

func (l *BillQueryLogic) room(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	room, err := l.roomRepo.GetRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrRoomNotFound, "id %s", id.Hex())
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}
