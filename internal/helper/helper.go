package helper

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Zero is a Decimal128 zero with a normal exponent. The Go zero value of
// primitive.Decimal128 renders as "0E-6176" and must not be stored.
var Zero = MustDecimal128(decimal.Zero)

// ToDecimal converts a stored Decimal128 to an exact decimal. NaN, Inf and the
// zero value of primitive.Decimal128 all map to zero.
func ToDecimal(d primitive.Decimal128) decimal.Decimal {
	if d.IsNaN() || d.IsInf() != 0 {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(d.String())
	if err != nil || v.IsZero() {
		return decimal.Zero
	}
	return v
}

// ToDecimal128 converts an exact decimal to its storage form.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	res, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to Decimal128: %w", d.String(), err)
	}
	return res, nil
}

// MustDecimal128 is ToDecimal128 for values known to fit, such as constants.
func MustDecimal128(d decimal.Decimal) primitive.Decimal128 {
	res, err := ToDecimal128(d)
	if err != nil {
		panic(err)
	}
	return res
}

// ParseAmount parses a decimal string into Decimal128.
func ParseAmount(s string) (primitive.Decimal128, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return ToDecimal128(d)
}

// IsNegative reports whether d is below zero.
func IsNegative(d primitive.Decimal128) bool {
	return ToDecimal(d).IsNegative()
}
