package timeutil

import (
	"fmt"
	"time"
)

// ElapsedBetween returns the timer text for later-earlier.
func ElapsedBetween(later, earlier time.Time) (string, error) {
	if later.Before(earlier) {
		return "", fmt.Errorf("%s before %s: %w", later.Format(time.DateTime), earlier.Format(time.DateTime), ErrOrdering)
	}
	return FormatTimer(later.Sub(earlier)), nil
}

func ElapsedSince(clock Clock, t time.Time) (string, error) {
	return ElapsedBetween(clock.Now(), t)
}

// IsSameMinute ignores seconds. b is compared in a's location.
func IsSameMinute(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

func IsToday(clock Clock, date string) bool {
	return date == CurrentDate(clock)
}

// IsWithinNextTwoCalendarDays reports whether t is before the end of tomorrow.
func IsWithinNextTwoCalendarDays(clock Clock, t time.Time) bool {
	now := clock.Now()
	limit := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 2)
	return t.Before(limit)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
