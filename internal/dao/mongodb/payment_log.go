package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rental_billing/internal/constants"
	"rental_billing/internal/dao/fields"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/models"
)

func NewPaymentLogDAO(db *mongo.Database, logger *zap.Logger) *PaymentLogDAO {
	return &PaymentLogDAO{
		logsCollection: db.Collection(CollectionPaymentLogs),
		logger:         logger.Named("PaymentLogDAO"),
	}
}

// PaymentLogDAO stores the append-only payment ledger.
type PaymentLogDAO struct {
	logsCollection *mongo.Collection
	logger         *zap.Logger
}

func (d *PaymentLogDAO) CreatePaymentLog(ctx context.Context, log *models.PaymentLog) (primitive.ObjectID, error) {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if _, err := d.logsCollection.InsertOne(ctx, log); err != nil {
		d.logger.Error("CreatePaymentLog: InsertOne failed", zap.Error(err), zap.Stringer("billID", log.BillID))
		return primitive.NilObjectID, err
	}
	return log.ID, nil
}

// ListPaymentLogsByBills returns the logs of the given bills, oldest first.
func (d *PaymentLogDAO) ListPaymentLogsByBills(ctx context.Context, billIDs []primitive.ObjectID) ([]*models.PaymentLog, error) {
	if len(billIDs) == 0 {
		return []*models.PaymentLog{}, nil
	}
	filter := bson.M{fields.FieldBillID: bson.M{"$in": billIDs}}
	opts := options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}})
	cursor, err := d.logsCollection.Find(ctx, filter, opts)
	if err != nil {
		d.logger.Error("ListPaymentLogsByBills: Find failed", zap.Error(err), zap.Int("bills", len(billIDs)))
		return nil, err
	}
	logs := []*models.PaymentLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		d.logger.Error("ListPaymentLogsByBills: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return logs, nil
}

// ListWorkLogs pages through WORK settlements, newest first.
func (d *PaymentLogDAO) ListWorkLogs(ctx context.Context, params *repository.ListWorkLogsParams) ([]*models.PaymentLog, int64, error) {
	filter := bson.M{fields.FieldPaymentLogPaymentType: constants.PaymentTypeWork.String()}
	if params.Period != nil {
		filter[fields.FieldMonth] = params.Period.Month
		filter[fields.FieldYear] = params.Period.Year
	}
	if params.RoomID != nil {
		filter[fields.FieldRoomID] = *params.RoomID
	}

	total, err := d.logsCollection.CountDocuments(ctx, filter)
	if err != nil {
		d.logger.Error("ListWorkLogs: CountDocuments failed", zap.Error(err), zap.Any("filter", filter))
		return nil, 0, err
	}
	if total == 0 {
		return []*models.PaymentLog{}, 0, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: -1}}).
		SetSkip(int64(params.Offset)).
		SetLimit(int64(params.Limit))
	cursor, err := d.logsCollection.Find(ctx, filter, opts)
	if err != nil {
		d.logger.Error("ListWorkLogs: Find failed", zap.Error(err), zap.Any("filter", filter))
		return nil, 0, err
	}
	logs := []*models.PaymentLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		d.logger.Error("ListWorkLogs: cursor.All failed", zap.Error(err), zap.Any("filter", filter))
		return nil, 0, err
	}
	return logs, total, nil
}

func (d *PaymentLogDAO) DeletePaymentLogsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	res, err := d.logsCollection.DeleteMany(ctx, bson.M{fields.FieldRoomID: roomID})
	if err != nil {
		d.logger.Error("DeletePaymentLogsByRoom: DeleteMany failed", zap.Error(err), zap.Stringer("roomID", roomID))
		return 0, err
	}
	return res.DeletedCount, nil
}
