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

func NewTenantDAO(db *mongo.Database, logger *zap.Logger) *TenantDAO {
	return &TenantDAO{
		tenantsCollection: db.Collection(CollectionTenants),
		logger:            logger.Named("TenantDAO"),
	}
}

type TenantDAO struct {
	tenantsCollection *mongo.Collection
	logger            *zap.Logger
}

func (d *TenantDAO) CreateTenant(ctx context.Context, tenant *models.Tenant) (primitive.ObjectID, error) {
	if tenant.ID.IsZero() {
		tenant.ID = primitive.NewObjectID()
	}
	if _, err := d.tenantsCollection.InsertOne(ctx, tenant); err != nil {
		d.logger.Error("CreateTenant: InsertOne failed", zap.Error(err), zap.Stringer("roomID", tenant.RoomID))
		return primitive.NilObjectID, translateWriteErr(err)
	}
	return tenant.ID, nil
}

func (d *TenantDAO) GetTenantByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := d.tenantsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetTenantByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &tenant, nil
}

func (d *TenantDAO) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	return d.find(ctx, bson.M{})
}

func (d *TenantDAO) ListTenantsByRoom(ctx context.Context, roomID primitive.ObjectID) ([]*models.Tenant, error) {
	return d.find(ctx, bson.M{fields.FieldRoomID: roomID})
}

func (d *TenantDAO) find(ctx context.Context, filter bson.M) ([]*models.Tenant, error) {
	opts := options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}})
	cursor, err := d.tenantsCollection.Find(ctx, filter, opts)
	if err != nil {
		d.logger.Error("find: Find failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	tenants := []*models.Tenant{}
	if err := cursor.All(ctx, &tenants); err != nil {
		d.logger.Error("find: cursor.All failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	return tenants, nil
}

func (d *TenantDAO) CountTenants(ctx context.Context) (int64, error) {
	n, err := d.tenantsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		d.logger.Error("CountTenants: CountDocuments failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

// UpdateTenant applies opts in one atomic update and returns the tenant as
// stored afterwards.
func (d *TenantDAO) UpdateTenant(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) (*models.Tenant, error) {
	updateData := repository.ApplyUpdateOptions(opts...)
	updateData.SetFields[fields.FieldUpdatedAt] = time.Now()
	update := bson.M{"$set": updateData.SetFields}
	if len(updateData.IncFields) > 0 {
		update["$inc"] = updateData.IncFields
	}

	var tenant models.Tenant
	err := d.tenantsCollection.FindOneAndUpdate(ctx,
		bson.M{fields.FieldObjectId: id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("UpdateTenant: FindOneAndUpdate failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &tenant, nil
}

func (d *TenantDAO) DeleteTenant(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := d.tenantsCollection.FindOneAndDelete(ctx, bson.M{fields.FieldObjectId: id}).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("DeleteTenant: FindOneAndDelete failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &tenant, nil
}

func (d *TenantDAO) DeleteTenantsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	res, err := d.tenantsCollection.DeleteMany(ctx, bson.M{fields.FieldRoomID: roomID})
	if err != nil {
		d.logger.Error("DeleteTenantsByRoom: DeleteMany failed", zap.Error(err), zap.Stringer("roomID", roomID))
		return 0, err
	}
	return res.DeletedCount, nil
}
