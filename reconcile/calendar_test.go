package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/attendance-reconciler/reconcile"
)

func TestBuildCalendarContext_MultiDayOccurrence(t *testing.T) {
	// GIVEN: A holiday spanning April 13-15
	// THEN: Every day in the interval resolves to the holiday, neighbors do not

	ctx := reconcile.BuildCalendarContext([]reconcile.CalendarOccurrence{
		{
			Title: "New Year",
			Type:  reconcile.EventHoliday,
			Start: reconcile.NewDate(2025, time.April, 13),
			End:   reconcile.NewDate(2025, time.April, 15),
		},
	})

	for d := 13; d <= 15; d++ {
		name, ok := ctx.HolidayName(reconcile.NewDate(2025, time.April, d))
		assert.True(t, ok, "April %d", d)
		assert.Equal(t, "New Year", name)
	}

	_, ok := ctx.HolidayName(reconcile.NewDate(2025, time.April, 12))
	assert.False(t, ok)
	_, ok = ctx.HolidayName(reconcile.NewDate(2025, time.April, 16))
	assert.False(t, ok)
}

func TestBuildCalendarContext_PoyaAndHolidayAreSeparate(t *testing.T) {
	d := reconcile.NewDate(2025, time.May, 12)
	ctx := reconcile.BuildCalendarContext([]reconcile.CalendarOccurrence{
		{Title: "Vesak Poya", Type: reconcile.EventPoya, Start: d, End: d},
	})

	name, ok := ctx.PoyaName(d)
	assert.True(t, ok)
	assert.Equal(t, "Vesak Poya", name)

	_, ok = ctx.HolidayName(d)
	assert.False(t, ok)
}

func TestBuildCalendarContext_SkipsDegenerateIntervals(t *testing.T) {
	// An inverted interval must not loop; a zero start is ignored.
	ctx := reconcile.BuildCalendarContext([]reconcile.CalendarOccurrence{
		{
			Title: "broken",
			Type:  reconcile.EventHoliday,
			Start: reconcile.NewDate(2025, time.June, 10),
			End:   reconcile.NewDate(2025, time.June, 1),
		},
		{Title: "zero", Type: reconcile.EventHoliday},
	})

	_, ok := ctx.HolidayName(reconcile.NewDate(2025, time.June, 10))
	assert.False(t, ok)
}

func TestDateSpan(t *testing.T) {
	dates := []reconcile.Date{
		reconcile.NewDate(2025, time.March, 5),
		{}, // unparseable rows carry a zero date
		reconcile.NewDate(2025, time.March, 1),
		reconcile.NewDate(2025, time.March, 9),
	}

	min, max, ok := reconcile.DateSpan(dates)
	assert.True(t, ok)
	assert.Equal(t, "2025-03-01", min.String())
	assert.Equal(t, "2025-03-09", max.String())

	_, _, ok = reconcile.DateSpan([]reconcile.Date{{}})
	assert.False(t, ok)
}

func TestValidClockTime(t *testing.T) {
	assert.True(t, reconcile.ValidClockTime(""))
	assert.True(t, reconcile.ValidClockTime("08:30"))
	assert.True(t, reconcile.ValidClockTime("23:59"))
	assert.False(t, reconcile.ValidClockTime("24:00"))
	assert.False(t, reconcile.ValidClockTime("8am"))
	assert.False(t, reconcile.ValidClockTime("08:61"))
}
