package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display layout for calendar days.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day. All schedule math
// works on values normalised by Day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDay formats t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a day by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole number of calendar days from a to b
// (negative when b is before a). It counts in Unix seconds, so spans longer
// than a time.Duration can hold stay exact.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

// DayPtr returns a pointer to the normalised day, handy for optional end dates.
func DayPtr(t time.Time) *time.Time {
	d := Day(t)
	return &d
}
