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
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func NewBillDAO(db *mongo.Database, logger *zap.Logger) *BillDAO {
	return &BillDAO{
		billsCollection: db.Collection(CollectionBills),
		logger:          logger.Named("BillDAO"),
	}
}

type BillDAO struct {
	billsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *BillDAO) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	if bill.ID.IsZero() {
		bill.ID = primitive.NewObjectID()
	}
	if _, err := d.billsCollection.InsertOne(ctx, bill); err != nil {
		err = translateWriteErr(err)
		if errors.Is(err, ErrDuplicate) {
			return primitive.NilObjectID, err
		}
		d.logger.Error("CreateBill: InsertOne failed", zap.Error(err), zap.Any("bill", bill))
		return primitive.NilObjectID, err
	}
	return bill.ID, nil
}

// GetBillByID retrieves a single bill by its ID.
func (d *BillDAO) GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	return d.findOne(ctx, bson.M{fields.FieldObjectId: id})
}

func (d *BillDAO) GetBill(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Bill, error) {
	return d.findOne(ctx, roomPeriodFilter(roomID, period))
}

func (d *BillDAO) GetLatestBillBefore(ctx context.Context, roomID primitive.ObjectID, period bsdate.Period) (*models.Bill, error) {
	return d.findOne(ctx, beforePeriodFilter(roomID, period), options.FindOne().SetSort(newestPeriodFirst))
}

func (d *BillDAO) GetLatestUnpaidBill(ctx context.Context, roomID primitive.ObjectID) (*models.Bill, error) {
	filter := bson.M{fields.FieldRoomID: roomID, fields.FieldBillIsPaid: false}
	return d.findOne(ctx, filter, options.FindOne().SetSort(newestPeriodFirst))
}

func (d *BillDAO) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOne(ctx, filter, opts...).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("findOne: FindOne failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	return &bill, nil
}

func (d *BillDAO) LatestBilledPeriods(ctx context.Context) (map[primitive.ObjectID]bsdate.Period, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: newestPeriodFirst}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + fields.FieldRoomID},
			{Key: fields.FieldYear, Value: bson.D{{Key: "$first", Value: "$" + fields.FieldYear}}},
			{Key: fields.FieldMonth, Value: bson.D{{Key: "$first", Value: "$" + fields.FieldMonth}}},
		}}},
	}
	cursor, err := d.billsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		d.logger.Error("LatestBilledPeriods: Aggregate failed", zap.Error(err))
		return nil, err
	}

	var rows []struct {
		RoomID primitive.ObjectID `bson:"_id"`
		Month  int                `bson:"month"`
		Year   int                `bson:"year"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		d.logger.Error("LatestBilledPeriods: cursor.All failed", zap.Error(err))
		return nil, err
	}

	res := make(map[primitive.ObjectID]bsdate.Period, len(rows))
	for _, r := range rows {
		res[r.RoomID] = bsdate.Period{Month: r.Month, Year: r.Year}
	}
	return res, nil
}

func (d *BillDAO) ListBillsByPeriod(ctx context.Context, period bsdate.Period) ([]*models.Bill, error) {
	return d.find(ctx, periodFilter(period), options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}}))
}

// ListBillsByRoom returns the room's bills in period order.
func (d *BillDAO) ListBillsByRoom(ctx context.Context, roomID primitive.ObjectID) ([]*models.Bill, error) {
	return d.find(ctx, bson.M{fields.FieldRoomID: roomID}, options.Find().SetSort(oldestPeriodFirst))
}

func (d *BillDAO) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.Bill, error) {
	cursor, err := d.billsCollection.Find(ctx, filter, opts...)
	if err != nil {
		d.logger.Error("find: Find failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	bills := []*models.Bill{}
	if err := cursor.All(ctx, &bills); err != nil {
		d.logger.Error("find: cursor.All failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	return bills, nil
}

// isPaidStage recomputes is_paid from the stored amounts.
var isPaidStage = bson.D{{Key: "$set", Value: bson.D{
	{Key: fields.FieldBillIsPaid, Value: bson.D{{Key: "$gte", Value: bson.A{
		"$" + fields.FieldBillPaidAmount,
		"$" + fields.FieldBillTotalAmount,
	}}}},
}}}

func fieldOrZero(name string) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{"$" + name, helper.Zero}}}
}

// ApplyPayment increments paid_amount server side, so concurrent payments
// against one bill never lose an increment.
func (d *BillDAO) ApplyPayment(ctx context.Context, id primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: fields.FieldBillPaidAmount, Value: bson.D{{Key: "$add", Value: bson.A{
				fieldOrZero(fields.FieldBillPaidAmount),
				amount,
			}}}},
			{Key: fields.FieldUpdatedAt, Value: time.Now()},
		}}},
		isPaidStage,
	}
	return d.findOneAndUpdate(ctx, "ApplyPayment", id, update)
}

// CorrectBill sets the component fields carried by opts, then recomputes
// total_amount as their sum and is_paid against the existing paid_amount.
func (d *BillDAO) CorrectBill(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) (*models.Bill, error) {
	updateData := repository.ApplyUpdateOptions(opts...)
	updateData.SetFields[fields.FieldUpdatedAt] = time.Now()

	components := make(bson.A, 0, len(fields.BillComponents))
	for _, f := range fields.BillComponents {
		components = append(components, fieldOrZero(f))
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: updateData.SetFields}},
		{{Key: "$set", Value: bson.D{
			{Key: fields.FieldBillTotalAmount, Value: bson.D{{Key: "$add", Value: components}}},
		}}},
		isPaidStage,
	}
	return d.findOneAndUpdate(ctx, "CorrectBill", id, update)
}

func (d *BillDAO) findOneAndUpdate(ctx context.Context, op string, id primitive.ObjectID, update mongo.Pipeline) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOneAndUpdate(ctx,
		bson.M{fields.FieldObjectId: id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error(op+": FindOneAndUpdate failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &bill, nil
}

func (d *BillDAO) sum(ctx context.Context, op string, match bson.M, expr interface{}) (primitive.Decimal128, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: expr}}},
		}}},
	}
	cursor, err := d.billsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		d.logger.Error(op+": Aggregate failed", zap.Error(err))
		return primitive.Decimal128{}, err
	}

	var rows []struct {
		Total primitive.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		d.logger.Error(op+": cursor.All failed", zap.Error(err))
		return primitive.Decimal128{}, err
	}
	if len(rows) == 0 {
		return helper.Zero, nil
	}
	return rows[0].Total, nil
}

func (d *BillDAO) SumPaidByPeriod(ctx context.Context, period bsdate.Period) (primitive.Decimal128, error) {
	return d.sum(ctx, "SumPaidByPeriod", periodFilter(period), fieldOrZero(fields.FieldBillPaidAmount))
}

// SumOutstanding totals max(0, total - paid) over all unpaid bills.
func (d *BillDAO) SumOutstanding(ctx context.Context) (primitive.Decimal128, error) {
	outstanding := bson.D{{Key: "$max", Value: bson.A{
		bson.D{{Key: "$subtract", Value: bson.A{
			"$" + fields.FieldBillTotalAmount,
			fieldOrZero(fields.FieldBillPaidAmount),
		}}},
		helper.Zero,
	}}}
	return d.sum(ctx, "SumOutstanding", bson.M{fields.FieldBillIsPaid: false}, outstanding)
}

func (d *BillDAO) CountUnpaidByPeriod(ctx context.Context, period bsdate.Period) (int64, error) {
	filter := periodFilter(period)
	filter[fields.FieldBillIsPaid] = false
	n, err := d.billsCollection.CountDocuments(ctx, filter)
	if err != nil {
		d.logger.Error("CountUnpaidByPeriod: CountDocuments failed", zap.Error(err), zap.Stringer("period", period))
		return 0, err
	}
	return n, nil
}

func (d *BillDAO) DeleteBillsByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	res, err := d.billsCollection.DeleteMany(ctx, bson.M{fields.FieldRoomID: roomID})
	if err != nil {
		d.logger.Error("DeleteBillsByRoom: DeleteMany failed", zap.Error(err), zap.Stringer("roomID", roomID))
		return 0, err
	}
	return res.DeletedCount, nil
}
