package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/pkg/bsdate"
)

// --- Parameter Structs ---

// ListWorkLogsParams filters WORK payment logs. Nil filters match everything.
type ListWorkLogsParams struct {
	Period *bsdate.Period
	RoomID *primitive.ObjectID
	Limit  int
	Offset int
}
