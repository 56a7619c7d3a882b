package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is one line of the dashboard's recent activity feed, written by
// the consumer from billing events.
type Activity struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Action     string              `bson:"action" json:"action"`
	RoomID     *primitive.ObjectID `bson:"room_id,omitempty" json:"roomId,omitempty"`
	BillID     *primitive.ObjectID `bson:"bill_id,omitempty" json:"billId,omitempty"`
	Summary    string              `bson:"summary" json:"summary"`
	OccurredAt time.Time           `bson:"occurred_at" json:"occurredAt"`
}
