package zone

import (
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Weekdays is the set of days a zone is active on, kept in calendar order
// (mon..sun) without duplicates.
type Weekdays []string

// NewWeekdays normalizes names to lowercase and rejects anything outside mon..sun.
func NewWeekdays(names ...string) (Weekdays, error) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if !kernel.IsWeekdayName(n) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"activeDays", fmt.Errorf("%q is not one of mon..sun", n))
		}
		set[n] = struct{}{}
	}

	out := make(Weekdays, 0, len(set))
	for _, n := range kernel.WeekdayNames() {
		if _, ok := set[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (w Weekdays) Contains(day string) bool {
	return slices.Contains(w, day)
}

// Includes reports whether date falls on one of the days.
func (w Weekdays) Includes(date kernel.Date) bool {
	return w.Contains(date.Weekday())
}

func (w Weekdays) String() string {
	return strings.Join(w, ",")
}
