package constants

// BillingAction names a billing domain event published through the outbox.
type BillingAction string

const (
	BillingActionBillGenerated   BillingAction = "bill.generated"
	BillingActionBillCorrected   BillingAction = "bill.corrected"
	BillingActionPaymentRecorded BillingAction = "payment.recorded"
	BillingActionReadingRecorded BillingAction = "reading.recorded"
	BillingActionReadingUpdated  BillingAction = "reading.updated"
	BillingActionReadingReminder BillingAction = "reading.reminder"
	BillingActionRatesUpdated    BillingAction = "rates.updated"
	BillingActionRoomCreated     BillingAction = "room.created"
	BillingActionRoomDeleted     BillingAction = "room.deleted"
	BillingActionTenantAdded     BillingAction = "tenant.added"
	BillingActionTenantUpdated   BillingAction = "tenant.updated"
	BillingActionTenantRemoved   BillingAction = "tenant.removed"
)

func (a BillingAction) String() string {
	return string(a)
}
