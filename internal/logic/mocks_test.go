package logic

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/dao/repository"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// --- Room ---

type mockRoomRepository struct {
	mock.Mock
}

func newMockRoomRepository() *mockRoomRepository {
	return &mockRoomRepository{}
}

func (m *mockRoomRepository) CreateRoom(ctx context.Context, room *models.Room) (primitive.ObjectID, error) {
	args := m.Called(ctx, room)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockRoomRepository) GetRoomByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *mockRoomRepository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *mockRoomRepository) CountRooms(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRoomRepository) UpdateRoom(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, id, opts)
	return args.Error(0)
}

func (m *mockRoomRepository) DeleteRoom(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

// --- Tenant ---

type mockTenantRepository struct {
	mock.Mock
}

func newMockTenantRepository() *mockTenantRepository {
	return &mockTenantRepository{}
}

func (m *mockTenantRepository) CreateTenant(ctx context.Context, tenant *models.Tenant) (primitive.ObjectID, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockTenantRepository) GetTenantByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepository) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *mockTenantRepository) ListTenantsByRoom(ctx context.Context, roomID primitive.ObjectID) ([]*models.Tenant, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *mockTenantRepository) CountTenants(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTenantRepository) UpdateTenant(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) (*models.Tenant, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepository) DeleteTenant(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepository) DeleteTenantsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Reading ---

type mockReadingRepository struct {
	mock.Mock
}

func newMockReadingRepository() *mockReadingRepository {
	return &mockReadingRepository{}
}

func (m *mockReadingRepository) CreateReading(ctx context.Context, reading *models.Reading) (primitive.ObjectID, error) {
	args := m.Called(ctx, reading)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockReadingRepository) GetReadingByID(ctx context.Context, id primitive.ObjectID) (*models.Reading, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reading), args.Error(1)
}

func (m *mockReadingRepository) GetReading(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Reading, error) {
	args := m.Called(ctx, roomID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reading), args.Error(1)
}

func (m *mockReadingRepository) ListReadingsByPeriod(ctx context.Context, period bsdate.Period) ([]*models.Reading, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reading), args.Error(1)
}

func (m *mockReadingRepository) UpdateReadingUnits(ctx context.Context, id primitive.ObjectID, units primitive.Decimal128) (*models.Reading, error) {
	args := m.Called(ctx, id, units)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reading), args.Error(1)
}

func (m *mockReadingRepository) DeleteReadingsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Bill ---

type mockBillRepository struct {
	mock.Mock
}

func newMockBillRepository() *mockBillRepository {
	return &mockBillRepository{}
}

func (m *mockBillRepository) billOrNil(args mock.Arguments) (*models.Bill, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillRepository) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	args := m.Called(ctx, bill)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockBillRepository) GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	return m.billOrNil(m.Called(ctx, id))
}

func (m *mockBillRepository) GetBill(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Bill, error) {
	return m.billOrNil(m.Called(ctx, roomID, period))
}

func (m *mockBillRepository) GetLatestBillBefore(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Bill, error) {
	return m.billOrNil(m.Called(ctx, roomID, period))
}

func (m *mockBillRepository) GetLatestUnpaidBill(ctx context.Context, roomID primitive.ObjectID) (*models.Bill, error) {
	return m.billOrNil(m.Called(ctx, roomID))
}

func (m *mockBillRepository) LatestBilledPeriods(ctx context.Context) (map[primitive.ObjectID]bsdate.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]bsdate.Period), args.Error(1)
}

func (m *mockBillRepository) ListBillsByPeriod(ctx context.Context, period bsdate.Period) ([]*models.Bill, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *mockBillRepository) ListBillsByRoom(ctx context.Context, roomID primitive.ObjectID) ([]*models.Bill, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *mockBillRepository) ApplyPayment(ctx context.Context, id primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error) {
	return m.billOrNil(m.Called(ctx, id, amount))
}

func (m *mockBillRepository) CorrectBill(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) (*models.Bill, error) {
	return m.billOrNil(m.Called(ctx, id, opts))
}

func (m *mockBillRepository) SumPaidByPeriod(ctx context.Context, period bsdate.Period) (primitive.Decimal128, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(primitive.Decimal128), args.Error(1)
}

func (m *mockBillRepository) SumOutstanding(ctx context.Context) (primitive.Decimal128, error) {
	args := m.Called(ctx)
	return args.Get(0).(primitive.Decimal128), args.Error(1)
}

func (m *mockBillRepository) CountUnpaidByPeriod(ctx context.Context, period bsdate.Period) (int64, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBillRepository) DeleteBillsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

// --- PaymentLog ---

type mockPaymentLogRepository struct {
	mock.Mock
}

func newMockPaymentLogRepository() *mockPaymentLogRepository {
	return &mockPaymentLogRepository{}
}

func (m *mockPaymentLogRepository) CreatePaymentLog(ctx context.Context, log *models.PaymentLog) (primitive.ObjectID, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockPaymentLogRepository) ListPaymentLogsByBills(ctx context.Context, billIDs []primitive.ObjectID) ([]*models.PaymentLog, error) {
	args := m.Called(ctx, billIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaymentLog), args.Error(1)
}

func (m *mockPaymentLogRepository) ListWorkLogs(ctx context.Context, params *repository.ListWorkLogsParams) ([]*models.PaymentLog, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.PaymentLog), args.Get(1).(int64), args.Error(2)
}

func (m *mockPaymentLogRepository) DeletePaymentLogsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

// --- RateConfig ---

type mockRateConfigRepository struct {
	mock.Mock
}

func newMockRateConfigRepository() *mockRateConfigRepository {
	return &mockRateConfigRepository{}
}

func (m *mockRateConfigRepository) GetRateConfig(ctx context.Context) (*models.RateConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateConfig), args.Error(1)
}

func (m *mockRateConfigRepository) UpsertRateConfig(ctx context.Context, cfg *models.RateConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// --- AuditLog ---

type mockAuditLogRepository struct {
	mock.Mock
}

func newMockAuditLogRepository() *mockAuditLogRepository {
	return &mockAuditLogRepository{}
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// --- Outbox ---

type mockOutboxRepository struct {
	mock.Mock
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{}
}

func (m *mockOutboxRepository) Create(ctx context.Context, message *models.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockOutboxRepository) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OutboxMessage), args.Error(1)
}

func (m *mockOutboxRepository) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepository) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}

// --- Activity ---

type mockActivityRepository struct {
	mock.Mock
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{}
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockActivityRepository) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Activity), args.Error(1)
}

func (m *mockActivityRepository) TrimTo(ctx context.Context, keep int) (int64, error) {
	args := m.Called(ctx, keep)
	return args.Get(0).(int64), args.Error(1)
}

// --- Fixtures ---

type fixedIDGenerator struct {
	next uint64
}

func (g *fixedIDGenerator) GetID() (uint64, error) {
	g.next++
	return g.next, nil
}

type staticRates struct {
	cfg *models.RateConfig
}

func (s staticRates) Get(context.Context) (*models.RateConfig, error) {
	c := *s.cfg
	return &c, nil
}

func newTestPublisher(outboxRepo *mockOutboxRepository) *BillingEventPublisher {
	return NewBillingEventPublisher(outboxRepo, BillingEventTopic("billing_events"))
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
