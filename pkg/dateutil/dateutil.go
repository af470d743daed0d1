package dateutil

import "time"

// Day truncates t to midnight in its own location. All streak arithmetic works
// on calendar days, never on raw timestamps.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DiffDays returns the number of whole calendar days from a to b.
func DiffDays(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// WeekStart returns Monday 00:00 of the week containing t. Sunday belongs to
// the week started by the previous Monday.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	return day.AddDate(0, 0, -offset)
}

func IsSameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
