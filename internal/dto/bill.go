package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// BillWithDetails is a bill joined with its room, the room's tenants and
// the bill's payment logs.
type BillWithDetails struct {
	*models.Bill
	Period      string             `json:"period"`
	Status      string             `json:"status"`
	Outstanding decimal.Decimal    `json:"outstanding"`
	Credit      decimal.Decimal    `json:"credit"`
	Room        *models.Room       `json:"room,omitempty"`
	Tenants     []*models.Tenant   `json:"tenants"`
	PaymentLogs []*PaymentLogEntry `json:"paymentLogs"`
}

// PaymentLogEntry is a payment log with its creation date on the BS
// calendar, e.g. "15 Poush 2081".
type PaymentLogEntry struct {
	*models.PaymentLog
	CreatedAtBS string `json:"createdAtBs"`
}

// SkippedRoom is a room the generator did not bill, with the reason.
type SkippedRoom struct {
	RoomID   primitive.ObjectID `json:"roomId"`
	RoomName string             `json:"roomName"`
	Period   bsdate.Period      `json:"period"`
	Reason   string             `json:"reason"`
}

type GenerateResult struct {
	Period  bsdate.Period  `json:"period"`
	Created []*models.Bill `json:"created"`
	Skipped []SkippedRoom  `json:"skipped"`
}

// WorkLog is a WORK payment with the context needed to list it on its own.
type WorkLog struct {
	*models.PaymentLog
	RoomName    string `json:"roomName"`
	PeriodLabel string `json:"period"`
	CreatedAtBS string `json:"createdAtBs"`
}

// BillingEvent is the payload of every outbox message.
type BillingEvent struct {
	Action     string              `json:"action"`
	RoomID     *primitive.ObjectID `json:"roomId,omitempty"`
	BillID     *primitive.ObjectID `json:"billId,omitempty"`
	Month      int                 `json:"month,omitempty"`
	Year       int                 `json:"year,omitempty"`
	Amount     string              `json:"amount,omitempty"`
	Summary    string              `json:"summary"`
	OccurredAt time.Time           `json:"occurredAt"`
}
