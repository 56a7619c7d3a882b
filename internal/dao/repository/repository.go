package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

type RoomRepository interface {
	CreateRoom(ctx context.Context, room *models.Room) (primitive.ObjectID, error)
	GetRoomByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	CountRooms(ctx context.Context) (int64, error)
	UpdateRoom(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	DeleteRoom(ctx context.Context, id primitive.ObjectID) (*models.Room, error)
}

type TenantRepository interface {
	CreateTenant(ctx context.Context, tenant *models.Tenant) (primitive.ObjectID, error)
	GetTenantByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	ListTenantsByRoom(ctx context.Context, roomID primitive.ObjectID) ([]*models.Tenant, error)
	CountTenants(ctx context.Context) (int64, error)
	UpdateTenant(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) (*models.Tenant, error)
	DeleteTenant(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error)
	DeleteTenantsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error)
}

type ReadingRepository interface {
	// CreateReading returns mongodb.ErrDuplicate when the room already has a
	// reading for the period.
	CreateReading(ctx context.Context, reading *models.Reading) (primitive.ObjectID, error)
	GetReadingByID(ctx context.Context, id primitive.ObjectID) (*models.Reading, error)
	GetReading(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Reading, error)
	ListReadingsByPeriod(ctx context.Context, period bsdate.Period) ([]*models.Reading, error)
	UpdateReadingUnits(ctx context.Context, id primitive.ObjectID, units primitive.Decimal128) (*models.Reading, error)
	DeleteReadingsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error)
}

type BillRepository interface {
	// CreateBill returns mongodb.ErrDuplicate when the room already has a
	// bill for the period.
	CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error)
	GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	GetBill(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Bill, error)
	// GetLatestBillBefore returns the room's most recent bill strictly before period.
	GetLatestBillBefore(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Bill, error)
	GetLatestUnpaidBill(ctx context.Context, roomID primitive.ObjectID) (*models.Bill, error)
	// LatestBilledPeriods maps every billed room to the period of its most recent bill.
	LatestBilledPeriods(ctx context.Context) (map[primitive.ObjectID]bsdate.Period, error)
	ListBillsByPeriod(ctx context.Context, period bsdate.Period) ([]*models.Bill, error)
	ListBillsByRoom(ctx context.Context, roomID primitive.ObjectID) ([]*models.Bill, error)
	// ApplyPayment atomically adds amount to paid_amount and recomputes is_paid.
	ApplyPayment(ctx context.Context, id primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error)
	// CorrectBill sets the given components and recomputes total_amount and
	// is_paid in the same update.
	CorrectBill(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) (*models.Bill, error)
	SumPaidByPeriod(ctx context.Context, period bsdate.Period) (primitive.Decimal128, error)
	SumOutstanding(ctx context.Context) (primitive.Decimal128, error)
	CountUnpaidByPeriod(ctx context.Context, period bsdate.Period) (int64, error)
	DeleteBillsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error)
}

type PaymentLogRepository interface {
	CreatePaymentLog(ctx context.Context, log *models.PaymentLog) (primitive.ObjectID, error)
	ListPaymentLogsByBills(ctx context.Context, billIDs []primitive.ObjectID) ([]*models.PaymentLog, error)
	ListWorkLogs(ctx context.Context, params *ListWorkLogsParams) ([]*models.PaymentLog, int64, error)
	DeletePaymentLogsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error)
}

type RateConfigRepository interface {
	// GetRateConfig returns mongodb.ErrNotFound until rates are first saved.
	GetRateConfig(ctx context.Context) (*models.RateConfig, error)
	UpsertRateConfig(ctx context.Context, cfg *models.RateConfig) error
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type OutboxRepository interface {
	Create(ctx context.Context, message *models.OutboxMessage) error
	ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error
	IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListRecent(ctx context.Context, limit int) ([]*models.Activity, error)
	// TrimTo deletes everything but the newest keep entries.
	TrimTo(ctx context.Context, keep int) (int64, error)
}
