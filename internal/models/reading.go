package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading is the cumulative electricity meter value of a room for one BS
// period. (room_id, month, year) is unique.
type Reading struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	RoomID    primitive.ObjectID   `bson:"room_id" json:"roomId"`
	Month     int                  `bson:"month" json:"month"`
	Year      int                  `bson:"year" json:"year"`
	Units     primitive.Decimal128 `bson:"units" json:"units"`
	CreatedAt time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updatedAt"`
}
