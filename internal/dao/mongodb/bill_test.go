package mongodb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"rental_billing/internal/dao/repository"
	"rental_billing/internal/helper"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func buildBill(t *testing.T, roomID primitive.ObjectID, p bsdate.Period, total, paid string) *models.Bill {
	now := time.Now().UTC()
	return &models.Bill{
		RoomID:            roomID,
		Month:             p.Month,
		Year:              p.Year,
		RentAmount:        dec(t, total),
		ElectricityAmount: helper.Zero,
		WaterAmount:       helper.Zero,
		WasteAmount:       helper.Zero,
		InternetAmount:    helper.Zero,
		ServiceCharge:     helper.Zero,
		Arrears:           helper.Zero,
		TotalAmount:       dec(t, total),
		PaidAmount:        dec(t, paid),
		IsPaid:            total == paid,
		Usage:             helper.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestBillDAO_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate insert maps to ErrDuplicate", func(mt *mtest.T) {
		dao := &BillDAO{billsCollection: mt.Coll, logger: zap.NewNop()}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := dao.CreateBill(context.Background(), buildBill(t, primitive.NewObjectID(), bsdate.Period{Month: 9, Year: 2081}, "100", "0"))
		require.True(mt, errors.Is(err, ErrDuplicate))
	})

	mt.Run("missing bill maps to ErrNotFound", func(mt *mtest.T) {
		dao := &BillDAO{billsCollection: mt.Coll, logger: zap.NewNop()}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := dao.GetBillByID(context.Background(), primitive.NewObjectID())
		require.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("apply payment returns the updated document", func(mt *mtest.T) {
		dao := &BillDAO{billsCollection: mt.Coll, logger: zap.NewNop()}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "total_amount", Value: dec(t, "5950")},
			{Key: "paid_amount", Value: dec(t, "5950")},
			{Key: "is_paid", Value: true},
		}}))

		bill, err := dao.ApplyPayment(context.Background(), id, dec(t, "5950"))
		require.NoError(mt, err)
		assert.Equal(mt, id, bill.ID)
		assert.True(mt, bill.IsPaid)
		assert.Equal(mt, "5950", bill.PaidAmount.String())
	})

	mt.Run("sum over no bills is zero", func(mt *mtest.T) {
		dao := &BillDAO{billsCollection: mt.Coll, logger: zap.NewNop()}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		total, err := dao.SumOutstanding(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, "0", total.String())
	})

	mt.Run("latest billed periods are keyed by room", func(mt *mtest.T) {
		dao := &BillDAO{billsCollection: mt.Coll, logger: zap.NewNop()}
		roomID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: roomID}, {Key: "year", Value: 2081}, {Key: "month", Value: 8}},
		))

		periods, err := dao.LatestBilledPeriods(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, map[primitive.ObjectID]bsdate.Period{roomID: {Month: 8, Year: 2081}}, periods)
	})
}

func TestBillDAO_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupIntegrationDB(t)
	dao := NewBillDAO(db, zap.NewNop())
	ctx := context.Background()
	poush := bsdate.Period{Month: 9, Year: 2081}

	t.Run("unique room period", func(t *testing.T) {
		roomID := primitive.NewObjectID()
		_, err := dao.CreateBill(ctx, buildBill(t, roomID, poush, "100", "0"))
		require.NoError(t, err)

		_, err = dao.CreateBill(ctx, buildBill(t, roomID, poush, "200", "0"))
		require.True(t, errors.Is(err, ErrDuplicate))
	})

	t.Run("concurrent payments are not lost", func(t *testing.T) {
		roomID := primitive.NewObjectID()
		id, err := dao.CreateBill(ctx, buildBill(t, roomID, poush, "5950", "0"))
		require.NoError(t, err)

		installment := dec(t, "595")
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := dao.ApplyPayment(ctx, id, installment)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		bill, err := dao.GetBillByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, helper.ToDecimal(bill.PaidAmount).Cmp(helper.ToDecimal(dec(t, "5950"))))
		assert.True(t, bill.IsPaid)
	})

	t.Run("correction recomputes total and paid flag", func(t *testing.T) {
		roomID := primitive.NewObjectID()
		id, err := dao.CreateBill(ctx, buildBill(t, roomID, poush, "5000", "5000"))
		require.NoError(t, err)

		bill, err := dao.CorrectBill(ctx, id, repository.WithElectricityAmount(dec(t, "550")), repository.WithInternetAmount(dec(t, "400")))
		require.NoError(t, err)
		assert.Equal(t, "5950", helper.ToDecimal(bill.TotalAmount).String())
		assert.False(t, bill.IsPaid)
		assert.Equal(t, "5000", helper.ToDecimal(bill.PaidAmount).String())
	})

	t.Run("latest bill before a period", func(t *testing.T) {
		roomID := primitive.NewObjectID()
		for _, p := range []bsdate.Period{{Month: 11, Year: 2080}, {Month: 12, Year: 2080}, {Month: 1, Year: 2081}} {
			_, err := dao.CreateBill(ctx, buildBill(t, roomID, p, "6000", "4000"))
			require.NoError(t, err)
		}

		prev, err := dao.GetLatestBillBefore(ctx, roomID, bsdate.Period{Month: 1, Year: 2081})
		require.NoError(t, err)
		assert.Equal(t, 12, prev.Month)
		assert.Equal(t, 2080, prev.Year)

		_, err = dao.GetLatestBillBefore(ctx, roomID, bsdate.Period{Month: 11, Year: 2080})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
