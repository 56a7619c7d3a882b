package bsdate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAD_KnownDates(t *testing.T) {
	cases := []struct {
		ad   time.Time
		want Date
	}{
		{time.Date(1943, time.April, 14, 0, 0, 0, 0, time.UTC), Date{2000, 1, 1}},
		{time.Date(2013, time.April, 14, 0, 0, 0, 0, time.UTC), Date{2070, 1, 1}},
		{time.Date(2023, time.April, 14, 0, 0, 0, 0, time.UTC), Date{2080, 1, 1}},
		{time.Date(2024, time.April, 13, 0, 0, 0, 0, time.UTC), Date{2081, 1, 1}},
		{time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), Date{2081, 9, 15}},
		{time.Date(2025, time.April, 14, 0, 0, 0, 0, time.UTC), Date{2082, 1, 1}},
	}

	for _, tc := range cases {
		got, err := FromAD(tc.ad)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.ad.Format(time.DateOnly))
	}
}

func TestFromAD_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("NPT", 5*3600+45*60)
	// 20:00 UTC on 12 April is already 13 April in Kathmandu.
	ts := time.Date(2024, time.April, 12, 20, 0, 0, 0, time.UTC).In(loc)

	got, err := FromAD(ts)
	require.NoError(t, err)
	assert.Equal(t, Date{2081, 1, 1}, got)
}

func TestRoundTrip(t *testing.T) {
	start := time.Date(1943, time.April, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, totalDays)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		bs, err := FromAD(d)
		require.NoError(t, err)
		back, err := ToAD(bs.Year, bs.Month, bs.Day)
		require.NoError(t, err)
		if !back.Equal(d) {
			t.Fatalf("round trip mismatch: %s -> %s -> %s", d.Format(time.DateOnly), bs, back.Format(time.DateOnly))
		}
	}
}

func TestFromAD_OutOfRange(t *testing.T) {
	_, err := FromAD(time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = FromAD(epoch.AddDate(0, 0, totalDays))
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestToAD_Invalid(t *testing.T) {
	_, err := ToAD(1999, 1, 1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = ToAD(2081, 13, 1)
	assert.True(t, errors.Is(err, ErrInvalidDate))

	// Baisakh 2082 has 30 days.
	_, err = ToAD(2082, 1, 31)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestMonthYearToAD(t *testing.T) {
	m, y, err := MonthYearToAD(9, 2081)
	require.NoError(t, err)
	assert.Equal(t, time.December, m)
	assert.Equal(t, 2024, y)

	m, y, err = MonthYearToAD(1, 2081)
	require.NoError(t, err)
	assert.Equal(t, time.April, m)
	assert.Equal(t, 2024, y)
}

func TestYearOptions(t *testing.T) {
	assert.Equal(t, []int{2079, 2080, 2081, 2082, 2083}, YearOptions(2081))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Baisakh", MonthName(1))
	assert.Equal(t, "Chaitra", MonthName(12))
	assert.Equal(t, "Invalid", MonthName(0))
	assert.Equal(t, "Poush 2081", FormatMonthYear(9, 2081))
	assert.Equal(t, "15 Poush 2081", FormatDate(15, 9, 2081))
	assert.Equal(t, "2081-09-15", Date{2081, 9, 15}.String())
}

func TestPeriod(t *testing.T) {
	p := Period{Month: 1, Year: 2081}
	assert.Equal(t, Period{Month: 12, Year: 2080}, p.Prev())
	assert.Equal(t, Period{Month: 2, Year: 2081}, p.Next())
	assert.Equal(t, Period{Month: 1, Year: 2082}, Period{Month: 12, Year: 2081}.Next())

	assert.Equal(t, 1, p.MonthsSince(p.Prev()))
	assert.Equal(t, 13, Period{Month: 2, Year: 2082}.MonthsSince(p))
	assert.True(t, p.Prev().Before(p))
	assert.False(t, p.Before(p))

	_, err := NewPeriod(13, 2081)
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
	_, err = NewPeriod(1, 1990)
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}
