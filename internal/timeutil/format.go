package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	FullTimeLayout = "15:04:05"
	ShortLayout    = "15:04"
)

var (
	ErrFormat   = errors.New("not a recognised time format")
	ErrOrdering = errors.New("later time precedes earlier time")
)

type TimeFormat int

const (
	TimeFormatAny TimeFormat = iota
	TimeFormatShort
	TimeFormatFull
)

var (
	shortTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	fullTimeRe  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)
)

// FormatDuration renders d as "23m" under an hour and "1h23m" otherwise.
// Seconds are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(-d)
	}
	totalMinutes := int64(d / time.Minute)
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatTimer renders d as "MM:SS", or "HH:MM:SS" from one hour up.
func FormatTimer(d time.Duration) string {
	if d < 0 {
		return "-" + FormatTimer(-d)
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func IsTimeFormat(s string, mode TimeFormat) bool {
	switch mode {
	case TimeFormatShort:
		return shortTimeRe.MatchString(s)
	case TimeFormatFull:
		return fullTimeRe.MatchString(s)
	default:
		return shortTimeRe.MatchString(s) || fullTimeRe.MatchString(s)
	}
}

// NormalizeToFullTime turns "HH:MM" into "HH:MM:00" and passes "HH:MM:SS" through.
func NormalizeToFullTime(s string) (string, error) {
	switch {
	case IsTimeFormat(s, TimeFormatShort):
		return s + ":00", nil
	case IsTimeFormat(s, TimeFormatFull):
		return s, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrFormat)
	}
}

func CurrentTime(clock Clock, includeSeconds bool) string {
	if includeSeconds {
		return clock.Now().Format(FullTimeLayout)
	}
	return clock.Now().Format(ShortLayout)
}

func CurrentDate(clock Clock) string {
	return clock.Now().Format(DateLayout)
}
