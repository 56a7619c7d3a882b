package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rental_billing/internal/dao/fields"
	"rental_billing/internal/models"
)

func NewActivityDAO(db *mongo.Database, logger *zap.Logger) *ActivityDAO {
	return &ActivityDAO{
		collection: db.Collection(CollectionActivities),
		logger:     logger.Named("ActivityDAO"),
	}
}

type ActivityDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func (d *ActivityDAO) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	if _, err := d.collection.InsertOne(ctx, activity); err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("action", activity.Action))
		return err
	}
	return nil
}

func (d *ActivityDAO) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: fields.FieldObjectId, Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := d.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		d.logger.Error("ListRecent: Find failed", zap.Error(err))
		return nil, err
	}
	activities := []*models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		d.logger.Error("ListRecent: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return activities, nil
}

// TrimTo keeps the newest keep entries by _id and deletes the rest.
func (d *ActivityDAO) TrimTo(ctx context.Context, keep int) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: fields.FieldObjectId, Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{fields.FieldObjectId: 1})

	var boundary struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := d.collection.FindOne(ctx, bson.M{}, opts).Decode(&boundary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		d.logger.Error("TrimTo: FindOne failed", zap.Error(err))
		return 0, err
	}

	res, err := d.collection.DeleteMany(ctx, bson.M{fields.FieldObjectId: bson.M{"$lte": boundary.ID}})
	if err != nil {
		d.logger.Error("TrimTo: DeleteMany failed", zap.Error(err))
		return 0, err
	}
	return res.DeletedCount, nil
}
