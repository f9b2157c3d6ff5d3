package kernel_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := kernel.ParseDate("2025-03-04")

	require.NoError(t, err)
	require.NoError(t, d.Validate())
	assert.Equal(t, "2025-03-04", d.String())
	assert.Equal(t, "20250304", d.Compact())
	assert.Equal(t, "tue", d.Weekday())

	_, err = kernel.ParseDate("04/03/2025")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewDate_RejectsNonCalendarDay(t *testing.T) {
	_, err := kernel.NewDate(2025, time.February, 30)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDateFromTime_DropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	late := time.Date(2025, 3, 7, 23, 30, 0, 0, loc)

	d := kernel.DateFromTime(late)

	assert.Equal(t, "2025-03-07", d.String())
	assert.Equal(t, "fri", d.Weekday())
	assert.True(t, d.IsEqual(kernel.DateFromTime(time.Date(2025, 3, 7, 1, 0, 0, 0, time.UTC))))
}

func TestDate_AddDays(t *testing.T) {
	d, _ := kernel.ParseDate("2025-03-09")

	next := d.AddDays(1)

	assert.Equal(t, "2025-03-10", next.String())
	assert.Equal(t, "mon", next.Weekday())
	require.NoError(t, next.Validate())
}

func TestDate_ZeroValue(t *testing.T) {
	var d kernel.Date
	assert.Equal(t, kernel.ErrDateIsNotConstructed, d.Validate())
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}, kernel.WeekdayNames())
	assert.True(t, kernel.IsWeekdayName("sat"))
	assert.False(t, kernel.IsWeekdayName("Saturday"))
}
