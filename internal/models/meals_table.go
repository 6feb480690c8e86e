package models

import (
	"fmt"
	"strings"
	"time"

	"milktracker/internal/timeutil"
)

// LegacyUnknownEnd is the end_time marker of old rows whose end was not noted.
const LegacyUnknownEnd = "?"

// MealRow is a base record augmented with its derived columns.
type MealRow struct {
	MealRecord
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   NullTime  `json:"end_datetime"`

	Duration        NullDuration `json:"duration"`
	DurationText    string       `json:"duration_text"`
	DurationMinutes NullFloat    `json:"duration_minutes"`

	TimeSincePreviousStart      NullDuration `json:"time_since_previous_start"`
	TimeSincePreviousStartText  string       `json:"time_since_previous_start_text"`
	TimeSincePreviousStartHours NullFloat    `json:"time_since_previous_start_hours"`

	TimeSincePreviousEnd      NullDuration `json:"time_since_previous_end"`
	TimeSincePreviousEndText  string       `json:"time_since_previous_end_text"`
	TimeSincePreviousEndHours NullFloat    `json:"time_since_previous_end_hours"`
}

type DeleteMode int

const (
	DeleteAny DeleteMode = iota
	DeleteOngoing
	DeleteFinished
)

// MealsTable is the ordered meal history, oldest first. Rows are never
// re-sorted; at most one ongoing row exists and it is always the last one.
type MealsTable struct {
	rows []MealRow
}

func NewMealsTable() *MealsTable {
	return &MealsTable{}
}

// Load replaces the table content with records, which must already be in
// chronological order.
func (t *MealsTable) Load(records []MealRecord) error {
	cleaned := make([]MealRecord, 0, len(records))
	for i, rec := range records {
		c, err := cleanRecord(rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		cleaned = append(cleaned, c)
	}
	rows, err := ComputeDerivedColumns(cleaned)
	if err != nil {
		return err
	}
	t.rows = rows
	return nil
}

func cleanRecord(rec MealRecord) (MealRecord, error) {
	rec.Date = strings.TrimSpace(rec.Date)
	// spreadsheet exports carry a midnight time after the date
	if len(rec.Date) > len(timeutil.DateLayout) {
		rec.Date = rec.Date[:len(timeutil.DateLayout)]
	}
	if !IsDateFormat(rec.Date) {
		return rec, newValidationError("meal", "date", "%q must be in format YYYY-MM-DD", rec.Date)
	}
	start, err := timeutil.NormalizeToFullTime(strings.TrimSpace(rec.StartTime))
	if err != nil {
		return rec, err
	}
	rec.StartTime = start
	end := strings.TrimSpace(rec.EndTime)
	switch end {
	case LegacyUnknownEnd:
		rec.EndTime = start
	case "":
		rec.EndTime = ""
	default:
		if rec.EndTime, err = timeutil.NormalizeToFullTime(end); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// ComputeDerivedColumns derives every computed column from the base fields and
// the order of records. It is a pure function.
func ComputeDerivedColumns(records []MealRecord) ([]MealRow, error) {
	rows := make([]MealRow, len(records))
	for i, rec := range records {
		row := MealRow{MealRecord: rec}
		start, err := combine(rec.Date, rec.StartTime)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		row.StartDatetime = start
		if !rec.IsOngoing() {
			end, err := combine(rec.Date, rec.EndTime)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			row.EndDatetime = NullTime{Time: end, Valid: true}
			row.Duration = ValidDuration(end.Sub(start))
		}
		if i > 0 {
			prev := rows[i-1]
			row.TimeSincePreviousStart = ValidDuration(start.Sub(prev.StartDatetime))
			if prev.EndDatetime.Valid {
				row.TimeSincePreviousEnd = ValidDuration(start.Sub(prev.EndDatetime.Time))
			}
		}
		row.DurationText = row.Duration.Text()
		row.DurationMinutes = row.Duration.Minutes()
		row.TimeSincePreviousStartText = row.TimeSincePreviousStart.Text()
		row.TimeSincePreviousStartHours = row.TimeSincePreviousStart.Hours()
		row.TimeSincePreviousEndText = row.TimeSincePreviousEnd.Text()
		row.TimeSincePreviousEndHours = row.TimeSincePreviousEnd.Hours()
		rows[i] = row
	}
	return rows, nil
}

// Add appends meal. A trailing ongoing row is dropped first, so starting a
// meal replaces a previous ongoing one and finishing a meal replaces its
// ongoing row.
func (t *MealsTable) Add(meal Meal) error {
	rec, err := cleanRecord(meal.Record())
	if err != nil {
		return err
	}
	rows := t.rows
	if n := len(rows); n > 0 && rows[n-1].IsOngoing() {
		rows = rows[:n-1]
	}
	window := []MealRecord{rec}
	if n := len(rows); n > 0 {
		window = []MealRecord{rows[n-1].MealRecord, rec}
	}
	computed, err := ComputeDerivedColumns(window)
	if err != nil {
		return err
	}
	t.rows = append(rows, computed[len(computed)-1])
	return nil
}

// DeleteLatest removes the last row if it matches mode and reports whether a
// row was removed.
func (t *MealsTable) DeleteLatest(mode DeleteMode) bool {
	n := len(t.rows)
	if n == 0 {
		return false
	}
	last := t.rows[n-1]
	switch mode {
	case DeleteOngoing:
		if !last.IsOngoing() {
			return false
		}
	case DeleteFinished:
		if last.IsOngoing() {
			return false
		}
	}
	t.rows = t.rows[:n-1]
	return true
}

// Clone copies the table so a mutation can be validated and persisted before
// it replaces the original.
func (t *MealsTable) Clone() *MealsTable {
	return &MealsTable{rows: t.Rows()}
}

func (t *MealsTable) Len() int {
	return len(t.rows)
}

// Rows returns a copy of all rows, oldest first.
func (t *MealsTable) Rows() []MealRow {
	return append([]MealRow(nil), t.rows...)
}

// Latest returns the last row, false on an empty table.
func (t *MealsTable) Latest() (MealRow, bool) {
	if len(t.rows) == 0 {
		return MealRow{}, false
	}
	return t.rows[len(t.rows)-1], true
}

// Tail returns up to n rows, most recent first.
func (t *MealsTable) Tail(n int) []MealRow {
	if n > len(t.rows) || n < 0 {
		n = len(t.rows)
	}
	out := make([]MealRow, 0, n)
	for i := len(t.rows) - 1; i >= len(t.rows)-n; i-- {
		out = append(out, t.rows[i])
	}
	return out
}

func (t *MealsTable) HasOngoing() bool {
	last, ok := t.Latest()
	return ok && last.IsOngoing()
}

// Records are the base fields only; derived columns are never persisted.
func (t *MealsTable) Records() []MealRecord {
	out := make([]MealRecord, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.MealRecord
	}
	return out
}

// Persist hands the base fields to writer.
func (t *MealsTable) Persist(writer MealsWriter) error {
	return writer.SaveAll(t.Records())
}

type MealsWriter interface {
	SaveAll(records []MealRecord) error
}
