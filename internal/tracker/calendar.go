package tracker

import (
	"time"
)

// Location is the civil calendar every tally is bucketed in. The community
// operates on Bogota time, which has no daylight saving, so a fixed offset
// is enough and avoids a tzdata dependency.
var Location = time.FixedZone("America/Bogota", -5*60*60)

// Weekday identifies one day of the tracked week. Days are ordered
// Monday-first, matching the order of the weekly report.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays lists all days in report order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [...]string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"}

// Name returns the Spanish day name used in reports and as the mirror's
// weekly hash field.
func (d Weekday) Name() string {
	return weekdayNames[d]
}

// ParseWeekday maps a Spanish day name back to its Weekday. Used when
// hydrating weekly hashes from the mirror.
func ParseWeekday(name string) (Weekday, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), true
		}
	}

	return 0, false
}

// WeekdayOf buckets a timestamp into the fixed calendar's weekday.
func WeekdayOf(t time.Time) Weekday {
	local := t.In(Location)
	// time.Weekday is Sunday-based
	return Weekday((int(local.Weekday()) + 6) % 7)
}

// DateOf returns the calendar date of a timestamp in the fixed zone,
// formatted as an ISO 8601 date. This is the mirror's daily hash field.
func DateOf(t time.Time) string {
	return t.In(Location).Format("2006-01-02")
}

// Week is one Sunday-aligned 7-day history window.
type Week struct {
	Start time.Time // Sunday, midnight in Location
	End   time.Time // the following Saturday
}

// Label renders the window's date range as "dd/mm/yyyy - dd/mm/yyyy".
func (w Week) Label() string {
	return w.Start.Format("02/01/2006") + " - " + w.End.Format("02/01/2006")
}

// Days returns the window's 7 calendar dates in chronological order,
// each as an ISO 8601 date string.
func (w Week) Days() []string {
	days := make([]string, 0, 7)
	for d := range 7 {
		days = append(days, w.Start.AddDate(0, 0, d).Format("2006-01-02"))
	}

	return days
}

// LastWeeks computes n Sunday-aligned windows ending with the week that
// contains now, most recent first. Window 0 starts on the most recent
// Sunday on or before now.
func LastWeeks(now time.Time, n int) []Week {
	local := now.In(Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)
	sunday := today.AddDate(0, 0, -int(local.Weekday()))

	weeks := make([]Week, 0, n)
	for i := range n {
		start := sunday.AddDate(0, 0, -7*i)
		weeks = append(weeks, Week{Start: start, End: start.AddDate(0, 0, 6)})
	}

	return weeks
}

// DayName returns the Spanish day name for an ISO date string. Falls back
// to the raw date if it does not parse.
func DayName(isoDate string) string {
	t, err := time.ParseInLocation("2006-01-02", isoDate, Location)
	if err != nil {
		return isoDate
	}

	return WeekdayOf(t).Name()
}
