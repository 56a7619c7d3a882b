package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rental_billing/internal/dao/fields"
	"rental_billing/internal/models"
)

func NewOutboxDAO(db *mongo.Database, logger *zap.Logger) *OutboxDAO {
	return &OutboxDAO{
		outboxCollection: db.Collection(CollectionOutbox),
		logger:           logger.Named("OutboxDAO"),
	}
}

type OutboxDAO struct {
	outboxCollection *mongo.Collection
	logger           *zap.Logger
}

func (d *OutboxDAO) Create(ctx context.Context, message *models.OutboxMessage) error {
	if _, err := d.outboxCollection.InsertOne(ctx, message); err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("action", message.Action))
		return err
	}
	return nil
}

// ClaimAndFetchEvents claims a batch of pending events in three phases:
// find candidate ids, flip them to PROCESSING under a fresh claim id, then
// load what this call actually claimed. The status filter in phase 2 keeps
// two processors from claiming the same message.
func (d *OutboxDAO) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{fields.FieldObjectId: 1})

	cursor, err := d.outboxCollection.Find(ctx, bson.M{fields.FieldStatus: models.OutboxStatusPending}, findOptions)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: phase 1 Find failed", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		d.logger.Error("ClaimAndFetchEvents: phase 1 decode failed", zap.Error(err))
		return nil, err
	}
	if len(results) == 0 {
		return []*models.OutboxMessage{}, nil
	}

	ids := make([]primitive.ObjectID, len(results))
	for i, res := range results {
		ids[i] = res.ID
	}

	claimID := primitive.NewObjectID()
	updateResult, err := d.outboxCollection.UpdateMany(ctx,
		bson.M{
			fields.FieldObjectId: bson.M{"$in": ids},
			fields.FieldStatus:   models.OutboxStatusPending,
		},
		bson.M{"$set": bson.M{
			fields.FieldStatus:    models.OutboxStatusProcessing,
			"claim_id":            claimID,
			fields.FieldUpdatedAt: time.Now(),
		}},
	)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: phase 2 UpdateMany failed", zap.Error(err))
		return nil, err
	}
	if updateResult.ModifiedCount == 0 {
		return []*models.OutboxMessage{}, nil
	}

	claimedCursor, err := d.outboxCollection.Find(ctx, bson.M{"claim_id": claimID},
		options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}}))
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: phase 3 Find failed", zap.Error(err))
		return nil, err
	}

	var claimed []*models.OutboxMessage
	if err = claimedCursor.All(ctx, &claimed); err != nil {
		d.logger.Error("ClaimAndFetchEvents: phase 3 decode failed", zap.Error(err))
		return nil, err
	}
	return claimed, nil
}

func (d *OutboxDAO) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	_, err := d.outboxCollection.UpdateOne(ctx,
		bson.M{fields.FieldObjectId: id},
		bson.M{"$set": bson.M{
			fields.FieldStatus: models.OutboxStatusProcessed,
			"processed_at":     time.Now(),
		}},
	)
	return err
}

// IncrementRetry puts a message back to PENDING, or parks it as FAILED once
// it has used up MaxOutboxRetries attempts.
func (d *OutboxDAO) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "retries", Value: bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$retries", 0}}}, 1}}}},
			{Key: "error", Value: bson.D{{Key: "$literal", Value: errorMessage}}},
			{Key: fields.FieldUpdatedAt, Value: time.Now()},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: fields.FieldStatus, Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$gte", Value: bson.A{"$retries", models.MaxOutboxRetries}}},
				models.OutboxStatusFailed,
				models.OutboxStatusPending,
			}}}},
		}}},
	}
	_, err := d.outboxCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	return err
}
