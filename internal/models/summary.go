package models

import (
	"sort"
	"time"
)

// DurationStats aggregates a set of durations. Every field is absent when the
// set is empty.
type DurationStats struct {
	Min NullDuration `json:"min"`
	Avg NullDuration `json:"avg"`
	Max NullDuration `json:"max"`
	Sum NullDuration `json:"sum"`
}

type StatsText struct {
	Min string `json:"min"`
	Avg string `json:"avg"`
	Max string `json:"max"`
	Sum string `json:"sum"`
}

type StatsNumeric struct {
	Min NullFloat `json:"min"`
	Avg NullFloat `json:"avg"`
	Max NullFloat `json:"max"`
	Sum NullFloat `json:"sum"`
}

func (s DurationStats) Text() StatsText {
	return StatsText{Min: s.Min.Text(), Avg: s.Avg.Text(), Max: s.Max.Text(), Sum: s.Sum.Text()}
}

func (s DurationStats) Minutes() StatsNumeric {
	return StatsNumeric{Min: s.Min.Minutes(), Avg: s.Avg.Minutes(), Max: s.Max.Minutes(), Sum: s.Sum.Minutes()}
}

func (s DurationStats) Hours() StatsNumeric {
	return StatsNumeric{Min: s.Min.Hours(), Avg: s.Avg.Hours(), Max: s.Max.Hours(), Sum: s.Sum.Hours()}
}

// SummaryRow aggregates the rows of one calendar date.
type SummaryRow struct {
	Date             string        `json:"date"`
	NumberOfRows     int           `json:"number_of_rows"`
	Duration         DurationStats `json:"-"`
	DurationText     StatsText     `json:"duration_text"`
	DurationMinutes  StatsNumeric  `json:"duration_minutes"`
	PreviousEnd      DurationStats `json:"-"`
	PreviousEndText  StatsText     `json:"previous_end_text"`
	PreviousEndHours StatsNumeric  `json:"previous_end_hours"`
}

func aggregate(values []time.Duration) DurationStats {
	if len(values) == 0 {
		return DurationStats{}
	}
	minV, maxV, sum := values[0], values[0], time.Duration(0)
	for _, v := range values {
		minV = min(minV, v)
		maxV = max(maxV, v)
		sum += v
	}
	return DurationStats{
		Min: ValidDuration(minV),
		Avg: ValidDuration(sum / time.Duration(len(values))),
		Max: ValidDuration(maxV),
		Sum: ValidDuration(sum),
	}
}

// ComputeSummary groups rows per date, most recent date first. Absent
// durations (ongoing rows, first row) are left out of the aggregates but the
// row still counts.
func ComputeSummary(rows []MealRow) []SummaryRow {
	type bucket struct {
		count       int
		durations   []time.Duration
		previousEnd []time.Duration
	}
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		b, ok := buckets[row.Date]
		if !ok {
			b = &bucket{}
			buckets[row.Date] = b
		}
		b.count++
		if row.Duration.Valid {
			b.durations = append(b.durations, row.Duration.Duration)
		}
		if row.TimeSincePreviousEnd.Valid {
			b.previousEnd = append(b.previousEnd, row.TimeSincePreviousEnd.Duration)
		}
	}

	out := make([]SummaryRow, 0, len(buckets))
	for date, b := range buckets {
		duration := aggregate(b.durations)
		previousEnd := aggregate(b.previousEnd)
		out = append(out, SummaryRow{
			Date:             date,
			NumberOfRows:     b.count,
			Duration:         duration,
			DurationText:     duration.Text(),
			DurationMinutes:  duration.Minutes(),
			PreviousEnd:      previousEnd,
			PreviousEndText:  previousEnd.Text(),
			PreviousEndHours: previousEnd.Hours(),
		})
	}
	// YYYY-MM-DD sorts lexically
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func (t *MealsTable) ComputeSummary() []SummaryRow {
	return ComputeSummary(t.rows)
}
