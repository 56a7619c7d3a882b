package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rental_billing/internal/dao/fields"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func NewReadingDAO(db *mongo.Database, logger *zap.Logger) *ReadingDAO {
	return &ReadingDAO{
		readingsCollection: db.Collection(CollectionReadings),
		logger:             logger.Named("ReadingDAO"),
	}
}

type ReadingDAO struct {
	readingsCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *ReadingDAO) CreateReading(ctx context.Context, reading *models.Reading) (primitive.ObjectID, error) {
	if reading.ID.IsZero() {
		reading.ID = primitive.NewObjectID()
	}
	if _, err := d.readingsCollection.InsertOne(ctx, reading); err != nil {
		err = translateWriteErr(err)
		if errors.Is(err, ErrDuplicate) {
			return primitive.NilObjectID, err
		}
		d.logger.Error("CreateReading: InsertOne failed", zap.Error(err), zap.Stringer("roomID", reading.RoomID))
		return primitive.NilObjectID, err
	}
	return reading.ID, nil
}

func (d *ReadingDAO) GetReadingByID(ctx context.Context, id primitive.ObjectID) (*models.Reading, error) {
	return d.findOne(ctx, bson.M{fields.FieldObjectId: id})
}

func (d *ReadingDAO) GetReading(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Reading, error) {
	return d.findOne(ctx, roomPeriodFilter(roomID, period))
}

func (d *ReadingDAO) findOne(ctx context.Context, filter bson.M) (*models.Reading, error) {
	var reading models.Reading
	err := d.readingsCollection.FindOne(ctx, filter).Decode(&reading)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("findOne: FindOne failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	return &reading, nil
}

func (d *ReadingDAO) ListReadingsByPeriod(ctx context.Context, period bsdate.Period) ([]*models.Reading, error) {
	cursor, err := d.readingsCollection.Find(ctx, periodFilter(period))
	if err != nil {
		d.logger.Error("ListReadingsByPeriod: Find failed", zap.Error(err), zap.Stringer("period", period))
		return nil, err
	}
	readings := []*models.Reading{}
	if err := cursor.All(ctx, &readings); err != nil {
		d.logger.Error("ListReadingsByPeriod: cursor.All failed", zap.Error(err), zap.Stringer("period", period))
		return nil, err
	}
	return readings, nil
}

// UpdateReadingUnits overwrites the units of an existing reading. It never
// creates one.
func (d *ReadingDAO) UpdateReadingUnits(ctx context.Context, id primitive.ObjectID, units primitive.Decimal128) (*models.Reading, error) {
	update := bson.M{"$set": bson.M{
		fields.FieldReadingUnits: units,
		fields.FieldUpdatedAt:    time.Now(),
	}}

	var reading models.Reading
	err := d.readingsCollection.FindOneAndUpdate(ctx,
		bson.M{fields.FieldObjectId: id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&reading)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("UpdateReadingUnits: FindOneAndUpdate failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &reading, nil
}

func (d *ReadingDAO) DeleteReadingsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	res, err := d.readingsCollection.DeleteMany(ctx, bson.M{fields.FieldRoomID: roomID})
	if err != nil {
		d.logger.Error("DeleteReadingsByRoom: DeleteMany failed", zap.Error(err), zap.Stringer("roomID", roomID))
		return 0, err
	}
	return res.DeletedCount, nil
}
