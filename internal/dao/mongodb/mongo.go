package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/dao/fields"
)

// NewMongoDB connects to MongoDB and verifies the connection. The returned
// cleanup disconnects the client.
func NewMongoDB(cfg *conf.MongodbConfig, logger *zap.Logger) (*mongo.Client, func(), error) {
	uri := fmt.Sprintf("mongodb://%s:%d", cfg.Host, cfg.Port)
	if cfg.User != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("mongodb disconnect failed", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

var roomPeriodKeys = bson.D{
	{Key: fields.FieldRoomID, Value: 1},
	{Key: fields.FieldYear, Value: 1},
	{Key: fields.FieldMonth, Value: 1},
}

// EnsureIndexes creates the indexes the DAOs rely on. The unique
// (room_id, year, month) indexes on readings and bills are what make
// duplicate creation fail with ErrDuplicate under concurrency.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionReadings: {
			{Keys: roomPeriodKeys, Options: options.Index().SetUnique(true).SetName("uniq_room_period")},
			{Keys: bson.D{{Key: fields.FieldYear, Value: 1}, {Key: fields.FieldMonth, Value: 1}}},
		},
		CollectionBills: {
			{Keys: roomPeriodKeys, Options: options.Index().SetUnique(true).SetName("uniq_room_period")},
			{Keys: bson.D{{Key: fields.FieldYear, Value: 1}, {Key: fields.FieldMonth, Value: 1}}},
			{Keys: bson.D{{Key: fields.FieldBillIsPaid, Value: 1}}},
		},
		CollectionTenants: {
			{Keys: bson.D{{Key: fields.FieldRoomID, Value: 1}}},
		},
		CollectionPaymentLogs: {
			{Keys: bson.D{{Key: fields.FieldBillID, Value: 1}}},
			{Keys: bson.D{{Key: fields.FieldRoomID, Value: 1}}},
			{Keys: bson.D{
				{Key: fields.FieldPaymentLogPaymentType, Value: 1},
				{Key: fields.FieldYear, Value: 1},
				{Key: fields.FieldMonth, Value: 1},
			}},
		},
		CollectionOutbox: {
			{Keys: bson.D{{Key: fields.FieldStatus, Value: 1}, {Key: fields.FieldCreatedAt, Value: 1}}},
		},
		CollectionAuditLogs: {
			{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
