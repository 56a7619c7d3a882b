package helper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func d128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	v, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return v
}

func TestToDecimal(t *testing.T) {
	t.Run("zero value maps to zero", func(t *testing.T) {
		assert.True(t, ToDecimal(primitive.Decimal128{}).IsZero())
	})

	t.Run("exact fraction", func(t *testing.T) {
		assert.Equal(t, "0.1", ToDecimal(d128(t, "0.1")).String())
	})

	t.Run("NaN maps to zero", func(t *testing.T) {
		assert.True(t, ToDecimal(d128(t, "NaN")).IsZero())
	})
}

func TestZero(t *testing.T) {
	assert.Equal(t, "0", Zero.String())
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative(d128(t, "-12.50")))
	assert.False(t, IsNegative(Zero))
	assert.False(t, IsNegative(d128(t, "0.01")))
}

func TestToDecimal128(t *testing.T) {
	v, err := ToDecimal128(decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2")))
	require.NoError(t, err)
	assert.Equal(t, "0.3", v.String())
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("200")
	require.NoError(t, err)
	assert.Equal(t, "200", v.String())

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}
