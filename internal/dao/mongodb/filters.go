package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/dao/fields"
	"rental_billing/pkg/bsdate"
)

func periodFilter(p bsdate.Period) bson.M {
	return bson.M{fields.FieldMonth: p.Month, fields.FieldYear: p.Year}
}

func roomPeriodFilter(roomID primitive.ObjectID, p bsdate.Period) bson.M {
	f := periodFilter(p)
	f[fields.FieldRoomID] = roomID
	return f
}

// beforePeriodFilter matches documents of the room whose period is strictly
// earlier than p.
func beforePeriodFilter(roomID primitive.ObjectID, p bsdate.Period) bson.M {
	return bson.M{
		fields.FieldRoomID: roomID,
		"$or": bson.A{
			bson.M{fields.FieldYear: bson.M{"$lt": p.Year}},
			bson.M{fields.FieldYear: p.Year, fields.FieldMonth: bson.M{"$lt": p.Month}},
		},
	}
}

// newestPeriodFirst sorts by period descending.
var newestPeriodFirst = bson.D{{Key: fields.FieldYear, Value: -1}, {Key: fields.FieldMonth, Value: -1}}

// oldestPeriodFirst sorts by period ascending.
var oldestPeriodFirst = bson.D{{Key: fields.FieldYear, Value: 1}, {Key: fields.FieldMonth, Value: 1}}
