package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/helper"
)

// Bill is the charge sheet of a room for one BS period. (room_id, month, year)
// is unique. TotalAmount always equals the sum of the component amounts.
type Bill struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Serial            uint64               `bson:"serial" json:"serial"`
	RoomID            primitive.ObjectID   `bson:"room_id" json:"roomId"`
	Month             int                  `bson:"month" json:"month"`
	Year              int                  `bson:"year" json:"year"`
	RentAmount        primitive.Decimal128 `bson:"rent_amount" json:"rentAmount"`
	ElectricityAmount primitive.Decimal128 `bson:"electricity_amount" json:"electricityAmount"`
	WaterAmount       primitive.Decimal128 `bson:"water_amount" json:"waterAmount"`
	WasteAmount       primitive.Decimal128 `bson:"waste_amount" json:"wasteAmount"`
	InternetAmount    primitive.Decimal128 `bson:"internet_amount" json:"internetAmount"`
	ServiceCharge     primitive.Decimal128 `bson:"service_charge" json:"serviceCharge"`
	Arrears           primitive.Decimal128 `bson:"arrears" json:"arrears"`
	TotalAmount       primitive.Decimal128 `bson:"total_amount" json:"totalAmount"`
	PaidAmount        primitive.Decimal128 `bson:"paid_amount" json:"paidAmount"`
	IsPaid            bool                 `bson:"is_paid" json:"isPaid"`
	// Units consumed in the period, kept for display.
	Usage      primitive.Decimal128 `bson:"usage" json:"usage"`
	Onboarding bool                 `bson:"onboarding,omitempty" json:"onboarding,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updatedAt"`
}

// Outstanding is max(0, total - paid).
func (b *Bill) Outstanding() decimal.Decimal {
	out := helper.ToDecimal(b.TotalAmount).Sub(helper.ToDecimal(b.PaidAmount))
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Credit is the overpaid surplus, max(0, paid - total). It is informational
// and never carried into later bills.
func (b *Bill) Credit() decimal.Decimal {
	c := helper.ToDecimal(b.PaidAmount).Sub(helper.ToDecimal(b.TotalAmount))
	if c.IsNegative() {
		return decimal.Zero
	}
	return c
}

// PaymentLog is an append-only settlement entry against a bill.
type PaymentLog struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BillID      primitive.ObjectID   `bson:"bill_id" json:"billId"`
	RoomID      primitive.ObjectID   `bson:"room_id" json:"roomId"`
	Month       int                  `bson:"month" json:"month"`
	Year        int                  `bson:"year" json:"year"`
	Amount      primitive.Decimal128 `bson:"amount" json:"amount"`
	PaymentType string               `bson:"payment_type" json:"paymentType"`
	Remarks     string               `bson:"remarks,omitempty" json:"remarks"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
	CreatedBy   *User                `bson:"created_by,omitempty" json:"createdBy,omitempty"`
}
