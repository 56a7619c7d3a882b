package bsdate

import (
	"errors"
	"fmt"
)

var ErrInvalidPeriod = errors.New("invalid BS period")

// Period is a BS (month, year) billing cycle.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewPeriod validates month (1-12) and year against the supported range.
func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < MinYear || p.Year > MaxYear {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

// Prev returns the immediately preceding period, rolling Baisakh back to
// Chaitra of the previous year.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

func (p Period) index() int {
	return p.Year*12 + p.Month - 1
}

// MonthsSince returns how many months p is after other (negative if before).
func (p Period) MonthsSince(other Period) int {
	return p.index() - other.index()
}

func (p Period) Before(other Period) bool {
	return p.index() < other.index()
}

func (p Period) String() string {
	return FormatMonthYear(p.Month, p.Year)
}
