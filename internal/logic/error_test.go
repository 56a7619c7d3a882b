package logic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"rental_billing/pkg/bsdate"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", invalid(ErrMissingRemarks, ""), KindValidation},
		{"not found names the id", notFound(ErrBillNotFound, "id %s", "abc"), KindNotFound},
		{"conflict", conflict(ErrDuplicateBill, ""), KindConflict},
		{"wrapped calendar range", fmt.Errorf("today: %w", bsdate.ErrOutOfRange), KindRange},
		{"bad period", validatePeriod(bsdate.Period{Month: 13, Year: 2081}), KindValidation},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestError_WrapsSentinel(t *testing.T) {
	err := notFound(ErrBillNotFound, "id %s", "abc")
	assert.True(t, errors.Is(err, ErrBillNotFound))
	assert.Equal(t, "bill not found: id abc", err.Error())
}
