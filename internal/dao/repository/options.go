package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/dao/fields"
)

// ------------------- UpdateOptions -------------------

// UpdateOptions is an exported struct that holds the fields for a MongoDB update operation.
// It is used with the Functional Options pattern.
type UpdateOptions struct {
	SetFields bson.M
	IncFields bson.M
}

// NewUpdateOptions creates a new instance of UpdateOptions.
func NewUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		SetFields: bson.M{},
		IncFields: bson.M{},
	}
}

// UpdateOption defines a function that can modify the UpdateOptions.
type UpdateOption func(*UpdateOptions)

// ApplyUpdateOptions folds opts into a fresh UpdateOptions.
func ApplyUpdateOptions(opts ...UpdateOption) *UpdateOptions {
	o := NewUpdateOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// --- Room ---

func WithPendingOnboarding(pending bool) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldRoomPendingOnboarding] = pending
	}
}

// --- Tenant ---

func WithTenantName(name string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTenantName] = name
	}
}

func WithDeviceCount(count int) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTenantDeviceCount] = count
	}
}

func WithDueDay(day int) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTenantDueDay] = day
	}
}

// --- Bill components, used by bill corrections ---

func WithRentAmount(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillRentAmount] = v
	}
}

func WithElectricityAmount(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillElectricityAmount] = v
	}
}

func WithWaterAmount(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillWaterAmount] = v
	}
}

func WithWasteAmount(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillWasteAmount] = v
	}
}

func WithInternetAmount(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillInternetAmount] = v
	}
}

func WithServiceCharge(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillServiceCharge] = v
	}
}

func WithArrears(v primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillArrears] = v
	}
}
