package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rental_billing/internal/dao/fields"
	"rental_billing/internal/models"
)

func NewRateConfigDAO(db *mongo.Database, logger *zap.Logger) *RateConfigDAO {
	return &RateConfigDAO{
		settingsCollection: db.Collection(CollectionSettings),
		logger:             logger.Named("RateConfigDAO"),
	}
}

// RateConfigDAO keeps the single rate document in the settings collection.
type RateConfigDAO struct {
	settingsCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *RateConfigDAO) GetRateConfig(ctx context.Context) (*models.RateConfig, error) {
	var cfg models.RateConfig
	err := d.settingsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: models.RateConfigID}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetRateConfig: FindOne failed", zap.Error(err))
		return nil, err
	}
	return &cfg, nil
}

// UpsertRateConfig replaces the rate document in one write.
func (d *RateConfigDAO) UpsertRateConfig(ctx context.Context, cfg *models.RateConfig) error {
	cfg.ID = models.RateConfigID
	_, err := d.settingsCollection.ReplaceOne(ctx,
		bson.M{fields.FieldObjectId: models.RateConfigID},
		cfg,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		d.logger.Error("UpsertRateConfig: ReplaceOne failed", zap.Error(err))
		return err
	}
	return nil
}
