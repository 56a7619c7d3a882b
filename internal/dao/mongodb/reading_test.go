package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

func TestReadingDAO_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate reading maps to ErrDuplicate", func(mt *mtest.T) {
		dao := &ReadingDAO{readingsCollection: mt.Coll, logger: zap.NewNop()}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := dao.CreateReading(context.Background(), &models.Reading{RoomID: primitive.NewObjectID(), Month: 9, Year: 2081})
		require.True(mt, errors.Is(err, ErrDuplicate))
	})

	mt.Run("update of unknown reading is not found", func(mt *mtest.T) {
		dao := &ReadingDAO{readingsCollection: mt.Coll, logger: zap.NewNop()}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := dao.UpdateReadingUnits(context.Background(), primitive.NewObjectID(), dec(t, "150"))
		require.True(mt, errors.Is(err, ErrNotFound))
	})
}

func TestReadingDAO_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupIntegrationDB(t)
	dao := NewReadingDAO(db, zap.NewNop())
	ctx := context.Background()
	roomID := primitive.NewObjectID()
	poush := bsdate.Period{Month: 9, Year: 2081}

	id, err := dao.CreateReading(ctx, &models.Reading{RoomID: roomID, Month: 9, Year: 2081, Units: dec(t, "150"), CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = dao.CreateReading(ctx, &models.Reading{RoomID: roomID, Month: 9, Year: 2081, Units: dec(t, "151"), CreatedAt: time.Now()})
	require.True(t, errors.Is(err, ErrDuplicate))

	got, err := dao.GetReading(ctx, roomID, poush)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	updated, err := dao.UpdateReadingUnits(ctx, id, dec(t, "160"))
	require.NoError(t, err)
	assert.Equal(t, "160", updated.Units.String())

	list, err := dao.ListReadingsByPeriod(ctx, poush)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = dao.GetReading(ctx, roomID, poush.Prev())
	assert.True(t, errors.Is(err, ErrNotFound))
}
