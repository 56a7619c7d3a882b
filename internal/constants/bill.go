package constants

// BillStatus is derived from a bill's paid and total amounts; it is never
// stored.
type BillStatus int

const (
	BillStatusUnknown BillStatus = iota
	BillStatusUnpaid
	BillStatusPartiallyPaid
	BillStatusPaid
)

func (s BillStatus) String() string {
	switch s {
	case BillStatusUnpaid:
		return "unpaid"
	case BillStatusPartiallyPaid:
		return "partially_paid"
	case BillStatusPaid:
		return "paid"
	default:
		return "unknown"
	}
}

// Entity names used in audit logs.
const (
	EntityBill       = "bill"
	EntityReading    = "reading"
	EntityRoom       = "room"
	EntityTenant     = "tenant"
	EntityRateConfig = "rate_config"
)
