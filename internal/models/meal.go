package models

import (
	"fmt"
	"time"

	"milktracker/internal/timeutil"
)

const dateTimeLayout = timeutil.DateLayout + " " + timeutil.FullTimeLayout

// MealRecord holds the three persisted base fields of a meal row.
// An empty EndTime marks a meal that is still being recorded.
type MealRecord struct {
	Date      string `json:"date" gorm:"column:date"`
	StartTime string `json:"start_time" gorm:"column:start_time"`
	EndTime   string `json:"end_time" gorm:"column:end_time"`
}

func (r MealRecord) IsOngoing() bool {
	return r.EndTime == ""
}

type Meal interface {
	Record() MealRecord
	IsOngoing() bool
	StartDatetime() time.Time
}

type finishedMealInput struct {
	Date      string `json:"date" validate:"required|calendarDate"`
	StartTime string `json:"start_time" validate:"required|timeOfDay"`
	EndTime   string `json:"end_time" validate:"required|timeOfDay"`
}

type ongoingMealInput struct {
	Date      string `json:"date" validate:"required|calendarDate"`
	StartTime string `json:"start_time" validate:"required|timeOfDay"`
}

// FinishedMeal is a meal with a known end time.
type FinishedMeal struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewFinishedMeal(date, startTime, endTime string) (*FinishedMeal, error) {
	if err := validateStruct("finished_meal", &finishedMealInput{Date: date, StartTime: startTime, EndTime: endTime}); err != nil {
		return nil, err
	}
	start, _ := timeutil.NormalizeToFullTime(startTime)
	end, _ := timeutil.NormalizeToFullTime(endTime)
	return &FinishedMeal{Date: date, StartTime: start, EndTime: end}, nil
}

func (m *FinishedMeal) Record() MealRecord {
	return MealRecord{Date: m.Date, StartTime: m.StartTime, EndTime: m.EndTime}
}

func (m *FinishedMeal) IsOngoing() bool {
	return false
}

func (m *FinishedMeal) StartDatetime() time.Time {
	t, _ := combine(m.Date, m.StartTime)
	return t
}

// EndDatetime rolls over to the next day for meals crossing midnight.
func (m *FinishedMeal) EndDatetime() time.Time {
	end, _ := combine(m.Date, m.EndTime)
	if start := m.StartDatetime(); end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

func (m *FinishedMeal) Duration() time.Duration {
	return m.EndDatetime().Sub(m.StartDatetime())
}

func (m *FinishedMeal) DurationText() string {
	return timeutil.FormatDuration(m.Duration())
}

// OngoingMeal is a meal being recorded. It always owns at least one round and
// only its last round may be active.
type OngoingMeal struct {
	Date      string
	StartTime string
	Rounds    []MealRound
	clock     timeutil.Clock
}

// OngoingMealSnapshot is the restart-durable form of an OngoingMeal.
type OngoingMealSnapshot struct {
	Date      string      `json:"date"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Rounds    []MealRound `json:"rounds"`
}

func NewOngoingMeal(clock timeutil.Clock, date, startTime string) (*OngoingMeal, error) {
	if err := validateStruct("ongoing_meal", &ongoingMealInput{Date: date, StartTime: startTime}); err != nil {
		return nil, err
	}
	start, _ := timeutil.NormalizeToFullTime(startTime)
	m := &OngoingMeal{Date: date, StartTime: start, clock: clock}
	m.autoStartFirstRound()
	return m, nil
}

// RestoreOngoingMeal rebuilds an ongoing meal from its snapshot.
func RestoreOngoingMeal(clock timeutil.Clock, snap OngoingMealSnapshot) (*OngoingMeal, error) {
	if snap.EndTime != "" {
		return nil, newValidationError("ongoing_meal", "end_time", "end_time must be empty for an ongoing meal")
	}
	if err := validateStruct("ongoing_meal", &ongoingMealInput{Date: snap.Date, StartTime: snap.StartTime}); err != nil {
		return nil, err
	}
	for i, r := range snap.Rounds {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		if r.IsActive && i != len(snap.Rounds)-1 {
			return nil, newValidationError("ongoing_meal", "rounds", "only the last round may be active")
		}
	}
	start, _ := timeutil.NormalizeToFullTime(snap.StartTime)
	m := &OngoingMeal{
		Date:      snap.Date,
		StartTime: start,
		Rounds:    append([]MealRound(nil), snap.Rounds...),
		clock:     clock,
	}
	m.autoStartFirstRound()
	return m, nil
}

// autoStartFirstRound opens the first round at the meal start. A meal started
// within the current minute gets the current second, so the round never
// appears to start before the user pressed the button. A start typed ahead of
// the clock opens the round now.
func (m *OngoingMeal) autoStartFirstRound() {
	if len(m.Rounds) > 0 {
		return
	}
	start := m.StartDatetime()
	now := m.clock.Now()
	if timeutil.IsSameMinute(start, now) {
		start = time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), start.Minute(), now.Second(), 0, start.Location())
	}
	if start.After(now) {
		start = now
	}
	m.Rounds = append(m.Rounds, NewMealRound(start))
}

func (m *OngoingMeal) Record() MealRecord {
	return MealRecord{Date: m.Date, StartTime: m.StartTime}
}

func (m *OngoingMeal) IsOngoing() bool {
	return true
}

func (m *OngoingMeal) StartDatetime() time.Time {
	t, _ := combine(m.Date, m.StartTime)
	return t
}

func (m *OngoingMeal) Snapshot() OngoingMealSnapshot {
	return OngoingMealSnapshot{
		Date:      m.Date,
		StartTime: m.StartTime,
		Rounds:    append([]MealRound(nil), m.Rounds...),
	}
}

// Pause closes the last round if it is active.
func (m *OngoingMeal) Pause() error {
	if len(m.Rounds) == 0 {
		return nil
	}
	last := &m.Rounds[len(m.Rounds)-1]
	if !last.IsActive {
		return nil
	}
	return last.Close(m.clock.Now())
}

func (m *OngoingMeal) StartNewRound() error {
	if err := m.Pause(); err != nil {
		return err
	}
	m.Rounds = append(m.Rounds, NewMealRound(m.clock.Now()))
	return nil
}

func (m *OngoingMeal) IsPaused() bool {
	return len(m.Rounds) == 0 || !m.Rounds[len(m.Rounds)-1].IsActive
}

// LatestRound returns the last round, false when there is none.
func (m *OngoingMeal) LatestRound() (MealRound, bool) {
	if len(m.Rounds) == 0 {
		return MealRound{}, false
	}
	return m.Rounds[len(m.Rounds)-1], true
}

func combine(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %s: %w", date, clock, ErrFormat)
	}
	return t, nil
}
