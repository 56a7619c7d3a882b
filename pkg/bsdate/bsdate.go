// Package bsdate converts between Gregorian (AD) dates and Bikram Sambat (BS)
// dates for the years covered by the embedded month-length table.
package bsdate

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinYear = 2000
	MaxYear = MinYear + len(monthDays) - 1
)

var (
	ErrOutOfRange  = errors.New("date is outside the supported BS range")
	ErrInvalidDate = errors.New("invalid BS date")
)

// epoch is the AD date of 1 Baisakh 2000 BS.
var epoch = time.Date(1943, time.April, 14, 0, 0, 0, 0, time.UTC)

var (
	yearOffsets []int // days from epoch to 1 Baisakh of each year
	totalDays   int
)

func init() {
	yearOffsets = make([]int, len(monthDays))
	for i, months := range monthDays {
		yearOffsets[i] = totalDays
		for _, n := range months {
			totalDays += n
		}
	}
}

var monthNames = [12]string{
	"Baisakh", "Jestha", "Ashadh", "Shrawan", "Bhadra", "Ashwin",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

// Date is a calendar date in Bikram Sambat.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// New validates year/month/day against the real month lengths.
func New(year, month, day int) (Date, error) {
	n, err := DaysInMonth(year, month)
	if err != nil {
		return Date{}, err
	}
	if day < 1 || day > n {
		return Date{}, fmt.Errorf("%w: %d-%02d-%02d (month has %d days)", ErrInvalidDate, year, month, day, n)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// DaysInMonth returns the length of a BS month.
func DaysInMonth(year, month int) (int, error) {
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: year %d not in [%d, %d]", ErrOutOfRange, year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	return monthDays[year-MinYear][month-1], nil
}

// FromAD converts the calendar day of t (in t's own location) to BS.
func FromAD(t time.Time) (Date, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	n := int(day.Sub(epoch).Hours() / 24)
	if n < 0 || n >= totalDays {
		return Date{}, fmt.Errorf("%w: %s", ErrOutOfRange, day.Format(time.DateOnly))
	}

	yi := len(yearOffsets) - 1
	for yearOffsets[yi] > n {
		yi--
	}
	n -= yearOffsets[yi]

	month := 0
	for n >= monthDays[yi][month] {
		n -= monthDays[yi][month]
		month++
	}
	return Date{Year: MinYear + yi, Month: month + 1, Day: n + 1}, nil
}

// ToAD converts a BS date to midnight UTC of the matching AD day.
func ToAD(year, month, day int) (time.Time, error) {
	d, err := New(year, month, day)
	if err != nil {
		return time.Time{}, err
	}
	return d.AD(), nil
}

// AD returns midnight UTC of the matching AD day. d must be valid.
func (d Date) AD() time.Time {
	n := yearOffsets[d.Year-MinYear]
	for m := 0; m < d.Month-1; m++ {
		n += monthDays[d.Year-MinYear][m]
	}
	n += d.Day - 1
	return epoch.AddDate(0, 0, n)
}

// MonthYearToAD maps a BS period to an AD (month, year) by converting the
// 15th of the BS month. A BS month straddles two AD months, so this is a
// mid-month anchor for storage queries and not an exact boundary mapping.
func MonthYearToAD(month, year int) (time.Month, int, error) {
	t, err := ToAD(year, month, 15)
	if err != nil {
		return 0, 0, err
	}
	return t.Month(), t.Year(), nil
}

// YearOptions lists current-2 through current+2.
func YearOptions(current int) []int {
	years := make([]int, 0, 5)
	for i := -2; i <= 2; i++ {
		years = append(years, current+i)
	}
	return years
}

// Period returns the billing period the date falls in.
func (d Date) Period() Period {
	return Period{Month: d.Month, Year: d.Year}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthName returns the English transliteration of a BS month, or "Invalid".
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Invalid"
	}
	return monthNames[month-1]
}

// FormatMonthYear renders e.g. "Poush 2081".
func FormatMonthYear(month, year int) string {
	return fmt.Sprintf("%s %d", MonthName(month), year)
}

// FormatDate renders e.g. "15 Poush 2081".
func FormatDate(day, month, year int) string {
	return fmt.Sprintf("%d %s %d", day, MonthName(month), year)
}
