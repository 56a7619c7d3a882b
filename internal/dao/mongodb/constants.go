package mongodb

const (
	CollectionRooms       = "rooms"
	CollectionTenants     = "tenants"
	CollectionReadings    = "readings"
	CollectionBills       = "bills"
	CollectionPaymentLogs = "payment_logs"
	CollectionSettings    = "settings"
	CollectionOutbox      = "outbox"
	CollectionAuditLogs   = "audit_logs"
	CollectionActivities  = "activities"
)
