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
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/models"
)

func NewRoomDAO(db *mongo.Database, logger *zap.Logger) *RoomDAO {
	return &RoomDAO{
		roomsCollection: db.Collection(CollectionRooms),
		logger:          logger.Named("RoomDAO"),
	}
}

type RoomDAO struct {
	roomsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *RoomDAO) CreateRoom(ctx context.Context, room *models.Room) (primitive.ObjectID, error) {
	if room.ID.IsZero() {
		room.ID = primitive.NewObjectID()
	}
	if _, err := d.roomsCollection.InsertOne(ctx, room); err != nil {
		d.logger.Error("CreateRoom: InsertOne failed", zap.Error(err), zap.String("name", room.Name))
		return primitive.NilObjectID, translateWriteErr(err)
	}
	return room.ID, nil
}

func (d *RoomDAO) GetRoomByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	var room models.Room
	err := d.roomsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetRoomByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &room, nil
}

// ListRooms returns every room ordered by name.
func (d *RoomDAO) ListRooms(ctx context.Context) ([]*models.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: fields.FieldRoomName, Value: 1}})
	cursor, err := d.roomsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		d.logger.Error("ListRooms: Find failed", zap.Error(err))
		return nil, err
	}
	rooms := []*models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		d.logger.Error("ListRooms: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return rooms, nil
}

func (d *RoomDAO) CountRooms(ctx context.Context) (int64, error) {
	n, err := d.roomsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		d.logger.Error("CountRooms: CountDocuments failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

// UpdateRoom updates a single room using functional options.
func (d *RoomDAO) UpdateRoom(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	updateData := repository.ApplyUpdateOptions(opts...)
	if len(updateData.SetFields) == 0 && len(updateData.IncFields) == 0 {
		return nil
	}

	update := bson.M{}
	updateData.SetFields[fields.FieldUpdatedAt] = time.Now()
	update["$set"] = updateData.SetFields
	if len(updateData.IncFields) > 0 {
		update["$inc"] = updateData.IncFields
	}

	res, err := d.roomsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	if err != nil {
		d.logger.Error("UpdateRoom: UpdateOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *RoomDAO) DeleteRoom(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	var room models.Room
	err := d.roomsCollection.FindOneAndDelete(ctx, bson.M{fields.FieldObjectId: id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("DeleteRoom: FindOneAndDelete failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &room, nil
}
