package service

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/helper"
	"rental_billing/pkg/bsdate"
)

func parsePeriod(monthStr, yearStr string) (bsdate.Period, error) {
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return bsdate.Period{}, fmt.Errorf("invalid month %q", monthStr)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return bsdate.Period{}, fmt.Errorf("invalid year %q", yearStr)
	}
	return bsdate.NewPeriod(month, year)
}

func pathPeriod(r *http.Request) (bsdate.Period, error) {
	return parsePeriod(r.PathValue("month"), r.PathValue("year"))
}

func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := r.PathValue(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func toDecimal128(name string, d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := helper.ToDecimal128(d)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

// optionalDecimal128 converts a field that may be absent from the body.
func optionalDecimal128(name string, d decimal.NullDecimal) (*primitive.Decimal128, error) {
	if !d.Valid {
		return nil, nil
	}
	v, err := toDecimal128(name, d.Decimal)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
