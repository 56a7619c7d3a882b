package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateConfigID is the _id of the single rate configuration document.
const RateConfigID = "billing_rates"

type RateConfig struct {
	ID                       string               `bson:"_id" json:"-"`
	InternetPerDevice        primitive.Decimal128 `bson:"internet_per_device" json:"internetPerDevice"`
	ElectricityPerUnit       primitive.Decimal128 `bson:"electricity_per_unit" json:"electricityPerUnit"`
	ElectricityServiceCharge primitive.Decimal128 `bson:"electricity_service_charge" json:"electricityServiceCharge"`
	UpdatedAt                time.Time            `bson:"updated_at" json:"updatedAt,omitempty"`
	UpdatedBy                *User                `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
}
