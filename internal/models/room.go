package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is a rentable unit. It owns its tenants, readings and bills; those
// documents refer back to it through RoomID.
type Room struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name     string               `bson:"name" json:"name"`
	BaseRent primitive.Decimal128 `bson:"base_rent" json:"baseRent"`
	// Optional fixed monthly charges, zero when the room has none.
	WaterCharge primitive.Decimal128 `bson:"water_charge" json:"waterCharge"`
	WasteCharge primitive.Decimal128 `bson:"waste_charge" json:"wasteCharge"`
	// PendingOnboarding is set when an existing tenant is moved into the
	// system; the next generation also bills the period before it.
	PendingOnboarding bool      `bson:"pending_onboarding" json:"pendingOnboarding"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updatedAt"`
}

type Tenant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID      primitive.ObjectID `bson:"room_id" json:"roomId"`
	Name        string             `bson:"name" json:"name"`
	DeviceCount int                `bson:"device_count" json:"deviceCount"`
	DueDay      int                `bson:"due_day" json:"dueDay"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
