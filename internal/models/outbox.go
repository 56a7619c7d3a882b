package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OutboxStatusPending    = "PENDING"
	OutboxStatusProcessing = "PROCESSING"
	OutboxStatusProcessed  = "PROCESSED"
	OutboxStatusFailed     = "FAILED"
)

// MaxOutboxRetries is the number of publish attempts before a message is
// parked as FAILED.
const MaxOutboxRetries = 10

// OutboxMessage is a billing event written in the same transaction as the
// state change it describes, and relayed to the broker later.
type OutboxMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Topic       string             `bson:"topic"`
	Action      string             `bson:"action"`
	Payload     string             `bson:"payload"` // JSON
	Status      string             `bson:"status"`
	Retries     int                `bson:"retries"`
	ClaimID     primitive.ObjectID `bson:"claim_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty"`
	ProcessedAt *time.Time         `bson:"processed_at,omitempty"`
	Error       string             `bson:"error,omitempty"`
}
