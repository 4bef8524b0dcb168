// Package datefmt renders dream timestamps relative to the current day.
//
// Dates are compared as calendar days in the location of now, and weeks
// start on Sunday.
package datefmt

import "time"

const (
	clockLayout    = "3:04 PM"
	weekdayLayout  = "Monday"
	monthDayLayout = "January 2"
	fullLayout     = "January 2, 2006"
)

// Relative formats t for list views:
// the clock time for today, "Yesterday", the weekday within the current week,
// the month and day within the current year, and the full date otherwise.
func Relative(t, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case sameDay(t, now):
		return t.Format(clockLayout)
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	case startOfWeek(t).Equal(startOfWeek(now)):
		return t.Format(weekdayLayout)
	case t.Year() == now.Year():
		return t.Format(monthDayLayout)
	default:
		return t.Format(fullLayout)
	}
}

// Detailed formats t for a single dream, always including the clock time.
func Detailed(t, now time.Time) string {
	t = t.In(now.Location())
	clock := t.Format(clockLayout)
	switch {
	case sameDay(t, now):
		return "Today at " + clock
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday at " + clock
	default:
		return t.Format(monthDayLayout) + " at " + clock
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}
