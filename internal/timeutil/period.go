package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// DaysBetween is the absolute number of calendar days between two dates.
func DaysBetween(d1, d2 time.Time) int {
	a, b := startOfDay(d1), startOfDay(d2)
	if b.Before(a) {
		a, b = b, a
	}
	return int(b.Sub(a).Hours() / 24)
}

// HumanPeriodBetween renders the calendar distance between two dates, e.g.
// "2 weeks 2 days", "1 month" or "1 year 2 months 5 days". Spans shorter than
// two months are expressed in weeks unless they are exactly one month.
func HumanPeriodBetween(d1, d2 time.Time) string {
	a, b := startOfDay(d1), startOfDay(d2)
	if b.Before(a) {
		a, b = b, a
	}
	if a.Equal(b) {
		return "0 day"
	}

	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	anchor := addMonthsClamped(a, months)
	if anchor.After(b) {
		months--
		anchor = addMonthsClamped(a, months)
	}
	days := DaysBetween(anchor, b)
	years := months / 12
	months = months % 12

	var parts []string
	if years == 0 && months < 2 && !(months == 1 && days == 0) {
		total := DaysBetween(a, b)
		parts = appendUnit(parts, total/7, "week")
		parts = appendUnit(parts, total%7, "day")
		return strings.Join(parts, " ")
	}
	parts = appendUnit(parts, years, "year")
	parts = appendUnit(parts, months, "month")
	parts = appendUnit(parts, days, "day")
	return strings.Join(parts, " ")
}

// addMonthsClamped adds n months, clamping the day to the target month's length.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func appendUnit(parts []string, n int, unit string) []string {
	switch {
	case n == 0:
		return parts
	case n == 1:
		return append(parts, "1 "+unit)
	default:
		return append(parts, strconv.Itoa(n)+" "+unit+"s")
	}
}
