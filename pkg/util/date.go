package util

import (
	"time"
)

// ParseDate parses an ISO calendar date (2006-01-02). Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysInMonth returns the number of calendar days in (year, month).
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextMonth returns the (month, year) following the given key.
func NextMonth(month, year int) (int, int) {
	if month == 12 {
		return 1, year + 1
	}
	return month + 1, year
}

// PrevMonth returns the (month, year) preceding the given key.
func PrevMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// MeetingLabel formats a decision date the way the probability table keys its rows.
func MeetingLabel(d time.Time) string {
	return d.Format("Jan 02, 2006")
}
