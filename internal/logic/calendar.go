package logic

import (
	"time"

	"rental_billing/pkg/bsdate"
)

// CalendarLogic answers "what is today in BS". The process time zone is set
// from configuration at startup, so time.Now is already local.
type CalendarLogic struct {
	now func() time.Time
}

func NewCalendarLogic() *CalendarLogic {
	return &CalendarLogic{now: time.Now}
}

func (c *CalendarLogic) Today() (bsdate.Date, error) {
	return bsdate.FromAD(c.now())
}

// YearOptions lists the BS years offered by period pickers.
func (c *CalendarLogic) YearOptions() ([]int, error) {
	today, err := c.Today()
	if err != nil {
		return nil, err
	}
	return bsdate.YearOptions(today.Year), nil
}

// NextDueDate is the next date a tenant with the given due day pays: this
// month when the day is still ahead, next month otherwise. The day is not
// clamped to the month length.
func (c *CalendarLogic) NextDueDate(dueDay int) (bsdate.Date, error) {
	today, err := c.Today()
	if err != nil {
		return bsdate.Date{}, err
	}
	return nextDueDate(today, dueDay), nil
}

func nextDueDate(today bsdate.Date, dueDay int) bsdate.Date {
	p := today.Period()
	if dueDay <= today.Day {
		p = p.Next()
	}
	return bsdate.Date{Year: p.Year, Month: p.Month, Day: dueDay}
}

// FormatBSDate renders an AD timestamp as a BS date in the process time zone.
// Timestamps outside the supported range render as an empty string.
func FormatBSDate(t time.Time) string {
	d, err := bsdate.FromAD(t.In(time.Local))
	if err != nil {
		return ""
	}
	return bsdate.FormatDate(d.Day, d.Month, d.Year)
}
