package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*3600)

var weekdaysMonFri = []int{1, 2, 3, 4, 5}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, ict)
}

func findCell(t *testing.T, cells []Day, date string) Day {
	t.Helper()
	for _, c := range cells {
		if c.Date == date {
			return c
		}
	}
	t.Fatalf("no cell for %s", date)
	return Day{}
}

func TestMonthGrid_LeadingPlaceholders(t *testing.T) {
	// September 2026 starts on a Tuesday -> 2 leading blanks (Sun, Mon).
	cells := MonthGrid(day(2026, time.September, 1), weekdaysMonFri, day(2026, time.September, 1), "")
	require.GreaterOrEqual(t, len(cells), 32)
	assert.True(t, cells[0].Disabled)
	assert.Empty(t, cells[0].Date)
	assert.True(t, cells[1].Disabled)
	assert.Empty(t, cells[1].Date)
	assert.Equal(t, 1, cells[2].DayOfMonth)
	assert.Equal(t, "2026-09-01", cells[2].Date)
	assert.Equal(t, 30, cells[len(cells)-1].DayOfMonth)
}

func TestMonthGrid_PastDaysDisabled(t *testing.T) {
	today := day(2026, time.September, 15)
	// Doctor works every day, so only the past rule applies.
	all := []int{0, 1, 2, 3, 4, 5, 6}
	cells := MonthGrid(day(2026, time.September, 1), all, today, "")

	assert.True(t, findCell(t, cells, "2026-09-14").Disabled, "yesterday must be disabled")
	assert.False(t, findCell(t, cells, "2026-09-15").Disabled, "today itself is selectable")
	assert.False(t, findCell(t, cells, "2026-09-16").Disabled)
}

func TestMonthGrid_NonWorkingWeekdaysDisabled(t *testing.T) {
	today := day(2026, time.September, 1)
	cells := MonthGrid(day(2026, time.September, 1), weekdaysMonFri, today, "")

	// 2026-09-05 is a Saturday, 2026-09-06 a Sunday.
	assert.True(t, findCell(t, cells, "2026-09-05").Disabled)
	assert.True(t, findCell(t, cells, "2026-09-06").Disabled)
	assert.False(t, findCell(t, cells, "2026-09-07").Disabled, "Monday must be selectable")
}

func TestMonthGrid_WeekendTodayNextSelectableIsMonday(t *testing.T) {
	// Today is Saturday 2026-09-05; doctor works Mon-Fri.
	today := day(2026, time.September, 5)
	cells := MonthGrid(day(2026, time.September, 1), weekdaysMonFri, today, "")

	assert.True(t, findCell(t, cells, "2026-09-05").Disabled, "Saturday disabled")
	assert.True(t, findCell(t, cells, "2026-09-06").Disabled, "Sunday disabled")
	first := ""
	for _, c := range cells {
		if c.Date != "" && !c.Disabled {
			first = c.Date
			break
		}
	}
	assert.Equal(t, "2026-09-07", first, "next selectable date should be the following Monday")
}

func TestMonthGrid_TodayAndSelectedFlags(t *testing.T) {
	today := day(2026, time.September, 15)
	cells := MonthGrid(day(2026, time.September, 1), weekdaysMonFri, today, "2026-09-21")

	assert.True(t, findCell(t, cells, "2026-09-15").IsToday)
	assert.False(t, findCell(t, cells, "2026-09-16").IsToday)
	assert.True(t, findCell(t, cells, "2026-09-21").IsSelected)
	assert.False(t, findCell(t, cells, "2026-09-22").IsSelected)
}

func TestMonthGrid_EmptyWorkingDaysDisablesEverything(t *testing.T) {
	cells := MonthGrid(day(2026, time.September, 1), nil, day(2026, time.September, 1), "")
	for _, c := range cells {
		assert.True(t, c.Disabled)
	}
}

func TestFormatDate_NoUTCShift(t *testing.T) {
	// 23:30 local on the 7th is still the 7th even though it is already the
	// 8th in UTC.
	late := time.Date(2026, time.September, 7, 23, 30, 0, 0, ict)
	assert.Equal(t, "2026-09-07", FormatDate(late))
	assert.NotEqual(t, FormatDate(late.UTC()), FormatDate(late))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-07", ict)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, 0, d.Hour())

	_, err = ParseDate("07/09/2026", ict)
	assert.Error(t, err)
}

func TestAddMonths_NormalizesToFirst(t *testing.T) {
	cursor := day(2026, time.January, 31)
	next := AddMonths(cursor, 1)
	assert.Equal(t, time.February, next.Month())
	assert.Equal(t, 1, next.Day())

	prev := AddMonths(day(2026, time.March, 15), -1)
	assert.Equal(t, time.February, prev.Month())
}

func TestDaySelectable(t *testing.T) {
	today := day(2026, time.September, 15) // Tuesday

	assert.False(t, DaySelectable(day(2026, time.September, 14), weekdaysMonFri, today))
	assert.True(t, DaySelectable(day(2026, time.September, 15), weekdaysMonFri, today))
	assert.False(t, DaySelectable(day(2026, time.September, 19), weekdaysMonFri, today), "Saturday not a working day")
	assert.True(t, DaySelectable(day(2026, time.September, 16), weekdaysMonFri, today))
}
