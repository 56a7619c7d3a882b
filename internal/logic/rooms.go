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
)

const (
	MinDueDay = 1
	MaxDueDay = 32
)

// RoomLogic administers rooms and their tenants. A room owns its tenants,
// readings, bills and payment logs; deleting it deletes them.
type RoomLogic struct {
	roomRepo       repository.RoomRepository
	tenantRepo     repository.TenantRepository
	readingRepo    repository.ReadingRepository
	billRepo       repository.BillRepository
	paymentLogRepo repository.PaymentLogRepository
	calendar       *CalendarLogic
	auditLogRepo   repository.AuditLogRepository
	eventPublisher *BillingEventPublisher
	logger         *zap.Logger
}

func NewRoomLogic(
	roomRepo repository.RoomRepository,
	tenantRepo repository.TenantRepository,
	readingRepo repository.ReadingRepository,
	billRepo repository.BillRepository,
	paymentLogRepo repository.PaymentLogRepository,
	calendar *CalendarLogic,
	auditLogRepo repository.AuditLogRepository,
	eventPublisher *BillingEventPublisher,
	logger *zap.Logger,
) *RoomLogic {
	return &RoomLogic{
		roomRepo:       roomRepo,
		tenantRepo:     tenantRepo,
		readingRepo:    readingRepo,
		billRepo:       billRepo,
		paymentLogRepo: paymentLogRepo,
		calendar:       calendar,
		auditLogRepo:   auditLogRepo,
		eventPublisher: eventPublisher,
		logger:         logger.Named("RoomLogic"),
	}
}

func validateCharge(name string, v primitive.Decimal128) error {
	if v.IsNaN() || v.IsInf() != 0 || helper.IsNegative(v) {
		return invalid(ErrNegativeAmount, "%s is %s", name, v.String())
	}
	return nil
}

func validateDueDay(day int) error {
	if day < MinDueDay || day > MaxDueDay {
		return invalid(ErrInvalidDueDay, "got %d", day)
	}
	return nil
}

func validateDeviceCount(n int) error {
	if n < 0 {
		return invalid(ErrInvalidDeviceCount, "got %d", n)
	}
	return nil
}

func (l *RoomLogic) CreateRoom(ctx context.Context, d *dto.CreateRoomRequest) (*models.Room, error) {
	name := strings.TrimSpace(d.GetName())
	if name == "" {
		return nil, invalid(ErrInvalidName, "")
	}
	if err := validateCharge("baseRent", d.GetBaseRent()); err != nil {
		return nil, err
	}
	water, waste := helper.Zero, helper.Zero
	if v := d.GetWaterCharge(); v != nil {
		if err := validateCharge("waterCharge", *v); err != nil {
			return nil, err
		}
		water = *v
	}
	if v := d.GetWasteCharge(); v != nil {
		if err := validateCharge("wasteCharge", *v); err != nil {
			return nil, err
		}
		waste = *v
	}

	now := time.Now()
	room := &models.Room{
		ID:          primitive.NewObjectID(),
		Name:        name,
		BaseRent:    d.GetBaseRent(),
		WaterCharge: water,
		WasteCharge: waste,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := l.roomRepo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildCreateRoomAuditLog(d.GetOperator(), room)); err != nil {
		l.logger.Error("CreateRoom: failed to create audit log", zap.Error(err))
	}
	event := roomEvent(constants.BillingActionRoomCreated, room.ID, fmt.Sprintf("Room %s created with rent %s", room.Name, room.BaseRent))
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("CreateRoom: failed to publish event", zap.Error(err), zap.Stringer("roomID", room.ID))
		return nil, err
	}
	return room, nil
}

// ListRooms returns every room with its tenants and their next due dates.
func (l *RoomLogic) ListRooms(ctx context.Context) ([]*dto.RoomWithTenants, error) {
	today, err := l.calendar.Today()
	if err != nil {
		return nil, err
	}
	rooms, err := l.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	tenants, err := l.tenantRepo.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	byRoom := make(map[primitive.ObjectID][]*dto.TenantWithDue)
	for _, t := range tenants {
		due := nextDueDate(today, t.DueDay)
		byRoom[t.RoomID] = append(byRoom[t.RoomID], &dto.TenantWithDue{
			Tenant:       t,
			NextDue:      due,
			NextDueLabel: bsdate.FormatDate(due.Day, due.Month, due.Year),
		})
	}

	res := make([]*dto.RoomWithTenants, 0, len(rooms))
	for _, r := range rooms {
		ts := byRoom[r.ID]
		if ts == nil {
			ts = []*dto.TenantWithDue{}
		}
		res = append(res, &dto.RoomWithTenants{Room: r, Tenants: ts})
	}
	return res, nil
}

// DeleteRoom removes the room and everything it owns. Run it in a
// transaction.
func (l *RoomLogic) DeleteRoom(ctx context.Context, roomID primitive.ObjectID, operator *models.User) error {
	room, err := l.roomRepo.DeleteRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return notFound(ErrRoomNotFound, "id %s", roomID.Hex())
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}

	tenants, err := l.tenantRepo.DeleteTenantsByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete tenants: %w", err)
	}
	if _, err := l.readingRepo.DeleteReadingsByRoom(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete readings: %w", err)
	}
	if _, err := l.paymentLogRepo.DeletePaymentLogsByRoom(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete payment logs: %w", err)
	}
	if _, err := l.billRepo.DeleteBillsByRoom(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete bills: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildDeleteRoomAuditLog(operator, room, tenants)); err != nil {
		l.logger.Error("DeleteRoom: failed to create audit log", zap.Error(err))
	}
	event := roomEvent(constants.BillingActionRoomDeleted, room.ID, fmt.Sprintf("Room %s deleted", room.Name))
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("DeleteRoom: failed to publish event", zap.Error(err), zap.Stringer("roomID", room.ID))
		return err
	}

	l.logger.Info("room deleted", zap.Stringer("roomID", room.ID), zap.Int64("tenants", tenants))
	return nil
}

// AddTenant adds a tenant to a room. An existing tenant flags the room so
// the next generation also bills the period before it.
func (l *RoomLogic) AddTenant(ctx context.Context, d *dto.AddTenantRequest) (*models.Tenant, error) {
	name := strings.TrimSpace(d.GetName())
	if name == "" {
		return nil, invalid(ErrInvalidName, "")
	}
	if err := validateDeviceCount(d.GetDeviceCount()); err != nil {
		return nil, err
	}
	if err := validateDueDay(d.GetDueDay()); err != nil {
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
	tenant := &models.Tenant{
		ID:          primitive.NewObjectID(),
		RoomID:      room.ID,
		Name:        name,
		DeviceCount: d.GetDeviceCount(),
		DueDay:      d.GetDueDay(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := l.tenantRepo.CreateTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	if d.IsExistingTenant() {
		if err := l.roomRepo.UpdateRoom(ctx, room.ID, repository.WithPendingOnboarding(true)); err != nil {
			return nil, fmt.Errorf("failed to flag room for onboarding: %w", err)
		}
	}

	if err := l.auditLogRepo.Create(ctx, buildAddTenantAuditLog(d.GetOperator(), tenant, d.IsExistingTenant())); err != nil {
		l.logger.Error("AddTenant: failed to create audit log", zap.Error(err))
	}
	event := roomEvent(constants.BillingActionTenantAdded, room.ID, fmt.Sprintf("%s moved into %s", tenant.Name, room.Name))
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("AddTenant: failed to publish event", zap.Error(err), zap.Stringer("tenantID", tenant.ID))
		return nil, err
	}
	return tenant, nil
}

// UpdateTenant changes the given fields of a tenant.
func (l *RoomLogic) UpdateTenant(ctx context.Context, d *dto.UpdateTenantRequest) (*models.Tenant, error) {
	var opts []repository.UpdateOption
	if v := d.GetName(); v != nil {
		name := strings.TrimSpace(*v)
		if name == "" {
			return nil, invalid(ErrInvalidName, "")
		}
		opts = append(opts, repository.WithTenantName(name))
	}
	if v := d.GetDeviceCount(); v != nil {
		if err := validateDeviceCount(*v); err != nil {
			return nil, err
		}
		opts = append(opts, repository.WithDeviceCount(*v))
	}
	if v := d.GetDueDay(); v != nil {
		if err := validateDueDay(*v); err != nil {
			return nil, err
		}
		opts = append(opts, repository.WithDueDay(*v))
	}
	if len(opts) == 0 {
		return nil, invalid(ErrEmptyUpdate, "")
	}

	before, err := l.tenantRepo.GetTenantByID(ctx, d.GetTenantID())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrTenantNotFound, "id %s", d.GetTenantID().Hex())
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	after, err := l.tenantRepo.UpdateTenant(ctx, before.ID, opts...)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, notFound(ErrTenantNotFound, "id %s", before.ID.Hex())
		}
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildUpdateTenantAuditLog(d.GetOperator(), before, after)); err != nil {
		l.logger.Error("UpdateTenant: failed to create audit log", zap.Error(err))
	}
	event := roomEvent(constants.BillingActionTenantUpdated, after.RoomID,
		fmt.Sprintf("%s updated: %d devices, due day %d", after.Name, after.DeviceCount, after.DueDay))
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("UpdateTenant: failed to publish event", zap.Error(err), zap.Stringer("tenantID", after.ID))
		return nil, err
	}
	return after, nil
}

// SetDeviceCount replaces a tenant's device count in one update.
func (l *RoomLogic) SetDeviceCount(ctx context.Context, tenantID primitive.ObjectID, count int, operator *models.User) (*models.Tenant, error) {
	return l.UpdateTenant(ctx, dto.NewUpdateTenantRequest(tenantID, nil, &count, nil, operator))
}

func (l *RoomLogic) DeleteTenant(ctx context.Context, tenantID primitive.ObjectID, operator *models.User) error {
	tenant, err := l.tenantRepo.DeleteTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return notFound(ErrTenantNotFound, "id %s", tenantID.Hex())
		}
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildDeleteTenantAuditLog(operator, tenant)); err != nil {
		l.logger.Error("DeleteTenant: failed to create audit log", zap.Error(err))
	}
	event := roomEvent(constants.BillingActionTenantRemoved, tenant.RoomID, fmt.Sprintf("%s moved out", tenant.Name))
	if err := l.eventPublisher.Publish(ctx, event); err != nil {
		l.logger.Error("DeleteTenant: failed to publish event", zap.Error(err), zap.Stringer("tenantID", tenant.ID))
		return err
	}
	return nil
}
