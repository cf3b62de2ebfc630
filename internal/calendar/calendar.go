// Package calendar generates the month grid the booking wizard renders for
// date selection. All date math is done on wall-clock calendar days in the
// clinic's location; dates are never round-tripped through UTC, which would
// shift bookable days by one near timezone boundaries.
package calendar

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format for calendar days (clinic-local).
	DateLayout = "2006-01-02"
	// MonthLayout is the wire format for the month display cursor.
	MonthLayout = "2006-01"
)

// Day is one cell of the 6x7 month grid. Leading cells before the first of
// the month carry no date and render disabled.
type Day struct {
	Date       string `json:"date,omitempty"`
	DayOfMonth int    `json:"dayOfMonth,omitempty"`
	Disabled   bool   `json:"disabled"`
	IsToday    bool   `json:"isToday"`
	IsSelected bool   `json:"isSelected"`
}

// FormatDate renders t's calendar day in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate returns midnight of the given calendar day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth returns the first of the given month at midnight in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse month %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddMonths moves a month cursor by n months, normalized to the first of the
// month so a cursor on the 31st can never skip February.
func AddMonths(cursor time.Time, n int) time.Time {
	return time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location()).AddDate(0, n, 0)
}

// WorksOn reports whether weekday (Sunday=0) is in the working-day set.
func WorksOn(workingDays []int, weekday time.Weekday) bool {
	for _, wd := range workingDays {
		if wd == int(weekday) {
			return true
		}
	}
	return false
}

// DaySelectable reports whether a concrete day may be chosen: today or later,
// and on one of the doctor's working days. Past is strict; today itself stays
// selectable.
func DaySelectable(day time.Time, workingDays []int, today time.Time) bool {
	if day.Before(StartOfDay(today.In(day.Location()))) {
		return false
	}
	return WorksOn(workingDays, day.Weekday())
}

// MonthGrid produces the ordered day cells for the month containing cursor.
// Days before today and days outside the doctor's working days render
// disabled, so the grid never offers a date that is guaranteed to have zero
// slots. The authoritative slot computation stays server-side; this is only a
// fast reject.
func MonthGrid(cursor time.Time, workingDays []int, today time.Time, selectedDate string) []Day {
	loc := cursor.Location()
	first := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, loc)
	lastDay := first.AddDate(0, 1, -1).Day()
	todayStr := FormatDate(StartOfDay(today.In(loc)))

	cells := make([]Day, 0, int(first.Weekday())+lastDay)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, Day{Disabled: true})
	}

	for d := 1; d <= lastDay; d++ {
		day := time.Date(cursor.Year(), cursor.Month(), d, 0, 0, 0, 0, loc)
		dateStr := FormatDate(day)
		cells = append(cells, Day{
			Date:       dateStr,
			DayOfMonth: d,
			Disabled:   !DaySelectable(day, workingDays, today),
			IsToday:    dateStr == todayStr,
			IsSelected: selectedDate != "" && dateStr == selectedDate,
		})
	}
	return cells
}
