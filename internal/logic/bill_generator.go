package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/constants"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/db"
	"rental_billing/internal/dto"
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// Skip reasons reported by Generate.
const (
	SkipBillExists = "bill already exists for this period"
	SkipNoReading  = "no meter reading for this period"
	SkipFailed     = "generation failed"
)

// IDGenerator issues bill serial numbers.
type IDGenerator interface {
	GetID() (uint64, error)
}

// BillInputs is everything a bill's amounts depend on.
type BillInputs struct {
	Room    *models.Room
	Tenants []*models.Tenant
	Rates   *models.RateConfig
	// Current and Previous may be nil. Usage is zero unless both exist.
	Current  *models.Reading
	Previous *models.Reading
	Arrears  decimal.Decimal
}

type BillAmounts struct {
	Usage         decimal.Decimal
	Rent          decimal.Decimal
	Electricity   decimal.Decimal
	Water         decimal.Decimal
	Waste         decimal.Decimal
	Internet      decimal.Decimal
	ServiceCharge decimal.Decimal
	Arrears       decimal.Decimal
	Total         decimal.Decimal
}

// ComputeBill prices one room for one period.
//
// Electricity is usage x per-unit rate plus the electricity service charge,
// rounded to 2 places. The service charge is folded into electricity, so the
// ServiceCharge component starts at zero and exists for corrections.
func ComputeBill(in BillInputs) BillAmounts {
	usage := decimal.Zero
	if in.Current != nil && in.Previous != nil {
		usage = helper.ToDecimal(in.Current.Units).Sub(helper.ToDecimal(in.Previous.Units))
		if usage.IsNegative() {
			usage = decimal.Zero
		}
	}

	electricity := usage.Mul(helper.ToDecimal(in.Rates.ElectricityPerUnit)).
		Add(helper.ToDecimal(in.Rates.ElectricityServiceCharge)).
		Round(2)

	devices := 0
	for _, t := range in.Tenants {
		devices += t.DeviceCount
	}
	internet := helper.ToDecimal(in.Rates.InternetPerDevice).Mul(decimal.NewFromInt(int64(devices)))

	arrears := in.Arrears
	if arrears.IsNegative() {
		arrears = decimal.Zero
	}

	a := BillAmounts{
		Usage:         usage,
		Rent:          helper.ToDecimal(in.Room.BaseRent),
		Electricity:   electricity,
		Water:         helper.ToDecimal(in.Room.WaterCharge),
		Waste:         helper.ToDecimal(in.Room.WasteCharge),
		Internet:      internet,
		ServiceCharge: decimal.Zero,
		Arrears:       arrears,
	}
	a.Total = decimal.Sum(a.Rent, a.Electricity, a.Water, a.Waste, a.Internet, a.ServiceCharge, a.Arrears)
	return a
}

func (a BillAmounts) apply(b *models.Bill) error {
	for _, f := range []struct {
		dst *primitive.Decimal128
		v   decimal.Decimal
	}{
		{&b.Usage, a.Usage},
		{&b.RentAmount, a.Rent},
		{&b.ElectricityAmount, a.Electricity},
		{&b.WaterAmount, a.Water},
		{&b.WasteAmount, a.Waste},
		{&b.InternetAmount, a.Internet},
		{&b.ServiceCharge, a.ServiceCharge},
		{&b.Arrears, a.Arrears},
		{&b.TotalAmount, a.Total},
	} {
		v, err := helper.ToDecimal128(f.v)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// BillGenerator issues bills for a period, one transaction per room.
type BillGenerator struct {
	roomRepo       repository.RoomRepository
	tenantRepo     repository.TenantRepository
	readingRepo    repository.ReadingRepository
	billRepo       repository.BillRepository
	rates          RateProvider
	tm             db.TransactionManager
	idGen          IDGenerator
	auditLogRepo   repository.AuditLogRepository
	eventPublisher *BillingEventPublisher
	logger         *zap.Logger
}

func NewBillGenerator(
	roomRepo repository.RoomRepository,
	tenantRepo repository.TenantRepository,
	readingRepo repository.ReadingRepository,
	billRepo repository.BillRepository,
	rates RateProvider,
	tm db.TransactionManager,
	idGen IDGenerator,
	auditLogRepo repository.AuditLogRepository,
	eventPublisher *BillingEventPublisher,
	logger *zap.Logger,
) *BillGenerator {
	return &BillGenerator{
		roomRepo:       roomRepo,
		tenantRepo:     tenantRepo,
		readingRepo:    readingRepo,
		billRepo:       billRepo,
		rates:          rates,
		tm:             tm,
		idGen:          idGen,
		auditLogRepo:   auditLogRepo,
		eventPublisher: eventPublisher,
		logger:         logger.Named("BillGenerator"),
	}
}

// roomOutcome is the result of one room's transaction. A non-empty skip
// means nothing was written.
type roomOutcome struct {
	created []*models.Bill
	skip    string
}

// Generate bills every room for the period. A room that cannot be billed is
// reported in Skipped and never fails the batch.
func (g *BillGenerator) Generate(ctx context.Context, d *dto.GenerateBillsRequest) (*dto.GenerateResult, error) {
	period := d.GetPeriod()
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	rates, err := g.rates.Get(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := g.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	res := &dto.GenerateResult{
		Period:  period,
		Created: []*models.Bill{},
		Skipped: []dto.SkippedRoom{},
	}
	for _, room := range rooms {
		out, err := g.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
			return g.generateForRoom(sessCtx, room, period, rates, d.GetOperator())
		})
		if errors.Is(err, ErrDuplicateBill) {
			out, err = &roomOutcome{skip: SkipBillExists}, nil
		}
		if err != nil {
			g.logger.Error("Generate: room failed",
				zap.Error(err), zap.Stringer("roomID", room.ID), zap.Stringer("period", period))
			res.Skipped = append(res.Skipped, dto.SkippedRoom{RoomID: room.ID, RoomName: room.Name, Period: period, Reason: SkipFailed})
			continue
		}
		o := out.(*roomOutcome)
		if o.skip != "" {
			g.logger.Info("Generate: room skipped",
				zap.Stringer("roomID", room.ID), zap.String("room", room.Name),
				zap.Stringer("period", period), zap.String("reason", o.skip))
			res.Skipped = append(res.Skipped, dto.SkippedRoom{RoomID: room.ID, RoomName: room.Name, Period: period, Reason: o.skip})
			continue
		}
		res.Created = append(res.Created, o.created...)
	}

	g.logger.Info("bills generated",
		zap.Stringer("period", period),
		zap.Int("created", len(res.Created)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func (g *BillGenerator) generateForRoom(ctx context.Context, room *models.Room, period bsdate.Period, rates *models.RateConfig, operator *models.User) (*roomOutcome, error) {
	exists, err := g.billExists(ctx, room.ID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return &roomOutcome{skip: SkipBillExists}, nil
	}

	current, err := g.reading(ctx, room.ID, period)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &roomOutcome{skip: SkipNoReading}, nil
	}

	tenants, err := g.tenantRepo.ListTenantsByRoom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	out := &roomOutcome{}
	if room.PendingOnboarding {
		bill, err := g.onboardingBill(ctx, room, tenants, period.Prev(), rates)
		if err != nil {
			return nil, err
		}
		if bill != nil {
			out.created = append(out.created, bill)
		}
		if err := g.roomRepo.UpdateRoom(ctx, room.ID, repository.WithPendingOnboarding(false)); err != nil {
			return nil, fmt.Errorf("failed to clear onboarding flag: %w", err)
		}
	}

	previous, err := g.reading(ctx, room.ID, period.Prev())
	if err != nil {
		return nil, err
	}
	arrears, err := g.arrears(ctx, room.ID, period)
	if err != nil {
		return nil, err
	}

	amounts := ComputeBill(BillInputs{
		Room:     room,
		Tenants:  tenants,
		Rates:    rates,
		Current:  current,
		Previous: previous,
		Arrears:  arrears,
	})
	bill, err := g.createBill(ctx, room.ID, period, amounts, false)
	if err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			// A write error aborts the session, so this cannot be a plain skip.
			return nil, conflict(ErrDuplicateBill, "room %s, %s", room.Name, period)
		}
		return nil, err
	}
	out.created = append(out.created, bill)

	for _, b := range out.created {
		if err := g.auditLogRepo.Create(ctx, buildGenerateBillAuditLog(operator, b)); err != nil {
			g.logger.Error("Generate: failed to create audit log", zap.Error(err), zap.Stringer("billID", b.ID))
		}
		label := bsdate.FormatMonthYear(b.Month, b.Year)
		event := billEvent(constants.BillingActionBillGenerated, b, b.TotalAmount,
			fmt.Sprintf("Bill of %s issued to %s for %s", b.TotalAmount, room.Name, label))
		if err := g.eventPublisher.Publish(ctx, event); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// onboardingBill bills the period before an existing tenant was moved into
// the system, with no arrears. It returns nil if that period is already
// billed.
func (g *BillGenerator) onboardingBill(ctx context.Context, room *models.Room, tenants []*models.Tenant, period bsdate.Period, rates *models.RateConfig) (*models.Bill, error) {
	exists, err := g.billExists(ctx, room.ID, period)
	if err != nil || exists {
		return nil, err
	}
	current, err := g.reading(ctx, room.ID, period)
	if err != nil {
		return nil, err
	}
	previous, err := g.reading(ctx, room.ID, period.Prev())
	if err != nil {
		return nil, err
	}

	amounts := ComputeBill(BillInputs{
		Room:     room,
		Tenants:  tenants,
		Rates:    rates,
		Current:  current,
		Previous: previous,
		Arrears:  decimal.Zero,
	})
	return g.createBill(ctx, room.ID, period, amounts, true)
}

func (g *BillGenerator) createBill(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period, amounts BillAmounts, onboarding bool) (*models.Bill, error) {
	serial, err := g.idGen.GetID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bill serial: %w", err)
	}
	now := time.Now()
	bill := &models.Bill{
		ID:         primitive.NewObjectID(),
		Serial:     serial,
		RoomID:     roomID,
		Month:      period.Month,
		Year:       period.Year,
		PaidAmount: helper.Zero,
		Onboarding: onboarding,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := amounts.apply(bill); err != nil {
		return nil, err
	}
	bill.IsPaid = amounts.Total.LessThanOrEqual(decimal.Zero)

	if _, err := g.billRepo.CreateBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (g *BillGenerator) billExists(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (bool, error) {
	_, err := g.billRepo.GetBill(ctx, roomID, period)
	if errors.Is(err, mongodb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bill for %s: %w", period, err)
	}
	return true, nil
}

func (g *BillGenerator) reading(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Reading, error) {
	r, err := g.readingRepo.GetReading(ctx, roomID, period)
	if errors.Is(err, mongodb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading for %s: %w", period, err)
	}
	return r, nil
}

// arrears is the outstanding balance of the room's latest bill before period.
func (g *BillGenerator) arrears(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (decimal.Decimal, error) {
	prev, err := g.billRepo.GetLatestBillBefore(ctx, roomID, period)
	if errors.Is(err, mongodb.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get previous bill: %w", err)
	}
	return prev.Outstanding(), nil
}
