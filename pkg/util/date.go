package util

import "time"

// DayKey renders a timestamp as a calendar-day string, the canonical
// form stored for streak and activity tracking.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsYesterday reports whether prev is exactly one calendar day before now.
func IsYesterday(prev, now time.Time) bool {
	y := now.AddDate(0, 0, -1)
	return SameDay(prev, y)
}

// ParseDayKey is the inverse of DayKey. A zero time is returned for
// empty or malformed input.
func ParseDayKey(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
