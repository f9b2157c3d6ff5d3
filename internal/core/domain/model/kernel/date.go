package kernel

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = time.DateOnly

// ErrDateIsNotConstructed is returned when a zero-value Date is used.
var ErrDateIsNotConstructed = errs.NewValueIsRequiredError("date must be created via NewDate, ParseDate or DateFromTime")

var weekdayNames = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// Date is a calendar day without time of day or zone. Runs and orders are
// scheduled on a Date; two Dates are equal when they name the same day.
type Date struct {
	t     time.Time
	guard guard.ConstructorGuard
}

func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, errs.NewValueIsInvalidErrorWithCause(
			"date", fmt.Errorf("%04d-%02d-%02d is not a calendar day", year, month, day))
	}
	return Date{t: t, guard: guard.NewConstructorGuard()}, nil
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return DateFromTime(t), nil
}

// DateFromTime keeps the calendar day of t in t's own location.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{
		t:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		guard: guard.NewConstructorGuard(),
	}
}

func (d Date) Validate() error {
	return d.guard.Validate(ErrDateIsNotConstructed)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return d.t
}

// Weekday returns the three-letter lowercase name used by zone activeDays.
func (d Date) Weekday() string {
	return weekdayNames[d.t.Weekday()]
}

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n), guard: d.guard}
}

func (d Date) IsEqual(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Compact returns YYYYMMDD.
func (d Date) Compact() string {
	return d.t.Format("20060102")
}

// IsWeekdayName reports whether s is one of mon..sun.
func IsWeekdayName(s string) bool {
	for _, n := range weekdayNames {
		if n == s {
			return true
		}
	}
	return false
}

// WeekdayNames returns mon..sun in calendar order starting Monday.
func WeekdayNames() []string {
	return []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
}
