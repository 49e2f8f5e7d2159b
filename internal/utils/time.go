package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Clock supplies the current time. Code that needs "today" takes a Clock so
// tests can pin the date.
type Clock func() time.Time

// SystemClock reads the local wall clock
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock returns a Clock that always reports t
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ClockAt returns a Clock pinned to midnight UTC of the given YYYY-MM-DD date.
// It panics on a malformed date and is intended for tests and fixtures.
func ClockAt(date string) Clock {
	t, err := ParseDate(date)
	if err != nil {
		panic(fmt.Sprintf("ClockAt: %v", err))
	}
	return FixedClock(t)
}

// Today returns the clock's current date as YYYY-MM-DD
func Today(clock Clock) string {
	return clock().Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC so day arithmetic is not
// affected by daylight saving transitions.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b (b - a)
func DaysBetween(a, b string) (int, error) {
	from, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// AddDays returns the date n days after dateStr
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// ValidateDateFormat checks if the string is a zero-padded YYYY-MM-DD date
func ValidateDateFormat(dateStr string) bool {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return false
	}
	// Reject values time.Parse accepts but that would not compare correctly as strings
	return t.Format(constants.DateFormat) == dateStr
}
