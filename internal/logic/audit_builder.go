package logic

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/constants"
	"rental_billing/internal/models"
)

// Audit actions.
const (
	AuditRecordReading = "RECORD_READING"
	AuditUpdateReading = "UPDATE_READING"
	AuditGenerateBill  = "GENERATE_BILL"
	AuditRecordPayment = "RECORD_PAYMENT"
	AuditCorrectBill   = "CORRECT_BILL"
	AuditSetRates      = "SET_RATES"
	AuditCreateRoom    = "CREATE_ROOM"
	AuditDeleteRoom    = "DELETE_ROOM"
	AuditAddTenant     = "ADD_TENANT"
	AuditUpdateTenant  = "UPDATE_TENANT"
	AuditDeleteTenant  = "DELETE_TENANT"
)

// AuditLogOption defines a function that configures an AuditLog object.
type AuditLogOption func(*models.AuditLog)

// WithReason is an option to add a reason to an audit log.
func WithReason(reason string) AuditLogOption {
	return func(log *models.AuditLog) {
		if reason != "" {
			log.Reason = reason
		}
	}
}

// NewAuditLog is a shared constructor for creating standardized audit log objects using the Option Pattern.
// A nil user is recorded as the system.
func NewAuditLog(user *models.User, action, entityType string, entityID primitive.ObjectID, before, after interface{}, opts ...AuditLogOption) *models.AuditLog {
	if user == nil {
		user = models.SystemUser
	}
	log := &models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     user.UserId,
		UserName:   user.Name,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes: map[string]interface{}{
			"before": before,
			"after":  after,
		},
		Timestamp: time.Now(),
	}

	for _, opt := range opts {
		opt(log)
	}

	return log
}

func buildRecordReadingAuditLog(operator *models.User, reading *models.Reading) *models.AuditLog {
	return NewAuditLog(operator, AuditRecordReading, constants.EntityReading, reading.ID, nil, reading)
}

func buildUpdateReadingAuditLog(operator *models.User, before, after *models.Reading) *models.AuditLog {
	return NewAuditLog(operator, AuditUpdateReading, constants.EntityReading, before.ID, before, after)
}

func buildGenerateBillAuditLog(operator *models.User, bill *models.Bill) *models.AuditLog {
	var opts []AuditLogOption
	if bill.Onboarding {
		opts = append(opts, WithReason("onboarding of an existing tenant"))
	}
	return NewAuditLog(operator, AuditGenerateBill, constants.EntityBill, bill.ID, nil, bill, opts...)
}

func buildRecordPaymentAuditLog(operator *models.User, before, after *models.Bill, log *models.PaymentLog) *models.AuditLog {
	audit := NewAuditLog(operator, AuditRecordPayment, constants.EntityBill, before.ID,
		map[string]interface{}{"paid_amount": before.PaidAmount, "is_paid": before.IsPaid},
		map[string]interface{}{"paid_amount": after.PaidAmount, "is_paid": after.IsPaid},
		WithReason(log.Remarks),
	)
	audit.Changes["payment_log"] = log
	return audit
}

func buildCorrectBillAuditLog(operator *models.User, before, after *models.Bill) *models.AuditLog {
	return NewAuditLog(operator, AuditCorrectBill, constants.EntityBill, before.ID, before, after)
}

func buildSetRatesAuditLog(operator *models.User, before, after *models.RateConfig) *models.AuditLog {
	return NewAuditLog(operator, AuditSetRates, constants.EntityRateConfig, primitive.NilObjectID, before, after)
}

func buildCreateRoomAuditLog(operator *models.User, room *models.Room) *models.AuditLog {
	return NewAuditLog(operator, AuditCreateRoom, constants.EntityRoom, room.ID, nil, room)
}

func buildDeleteRoomAuditLog(operator *models.User, room *models.Room, tenants int64) *models.AuditLog {
	audit := NewAuditLog(operator, AuditDeleteRoom, constants.EntityRoom, room.ID, room, nil)
	audit.Changes["deleted_tenants"] = tenants
	return audit
}

func buildAddTenantAuditLog(operator *models.User, tenant *models.Tenant, existing bool) *models.AuditLog {
	var opts []AuditLogOption
	if existing {
		opts = append(opts, WithReason("existing tenant"))
	}
	return NewAuditLog(operator, AuditAddTenant, constants.EntityTenant, tenant.ID, nil, tenant, opts...)
}

func buildUpdateTenantAuditLog(operator *models.User, before, after *models.Tenant) *models.AuditLog {
	return NewAuditLog(operator, AuditUpdateTenant, constants.EntityTenant, before.ID, before, after)
}

func buildDeleteTenantAuditLog(operator *models.User, tenant *models.Tenant) *models.AuditLog {
	return NewAuditLog(operator, AuditDeleteTenant, constants.EntityTenant, tenant.ID, tenant, nil)
}
