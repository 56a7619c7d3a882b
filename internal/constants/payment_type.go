package constants

// PaymentType is how a payment settles a bill.
type PaymentType int

const (
	PaymentTypeUnknown PaymentType = iota
	PaymentTypeCash
	// PaymentTypeWork is in-kind settlement; its remarks describe the work.
	PaymentTypeWork
)

func (p PaymentType) String() string {
	switch p {
	case PaymentTypeCash:
		return "CASH"
	case PaymentTypeWork:
		return "WORK"
	default:
		return "UNKNOWN"
	}
}

var paymentTypeMap = map[string]PaymentType{
	"CASH": PaymentTypeCash,
	"WORK": PaymentTypeWork,
}

// ParsePaymentType maps the wire value to a PaymentType. An empty string is
// treated as CASH.
func ParsePaymentType(s string) PaymentType {
	if s == "" {
		return PaymentTypeCash
	}
	if p, ok := paymentTypeMap[s]; ok {
		return p
	}
	return PaymentTypeUnknown
}
