package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milktracker/internal/timeutil"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.Local)
}

func TestNewFinishedMeal_Valid(t *testing.T) {
	m, err := NewFinishedMeal("2024-04-01", "12:01", "13:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", m.Date)
	assert.Equal(t, "12:01:00", m.StartTime)
	assert.Equal(t, "13:00:00", m.EndTime)
	assert.False(t, m.IsOngoing())
	assert.Equal(t, 59*time.Minute, m.Duration())
	assert.Equal(t, "59m", m.DurationText())
}

func TestNewFinishedMeal_Invalid(t *testing.T) {
	cases := []struct{ date, start, end string }{
		{"2024-04-01", "12:01", "13:0"},
		{"2024-04-01", "12:01", ""},
		{"2024-4-01", "12:01", "13:00"},
		{"2024-13-01", "12:01", "13:00"},
		{"2024-04-01", "25:01", "13:00"},
	}
	for _, tc := range cases {
		_, err := NewFinishedMeal(tc.date, tc.start, tc.end)
		assert.ErrorIs(t, err, ErrValidation, "%+v", tc)
	}
}

func TestFinishedMeal_AcrossMidnight(t *testing.T) {
	m, err := NewFinishedMeal("2024-06-10", "23:50", "00:10")
	require.NoError(t, err)
	assert.Equal(t, at(2024, 6, 11, 0, 10, 0), m.EndDatetime())
	assert.Equal(t, 20*time.Minute, m.Duration())
}

func TestNewOngoingMeal_StartsFirstRound(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 0)}
	m, err := NewOngoingMeal(clock, "2024-04-01", "12:01:00")
	require.NoError(t, err)

	assert.Equal(t, "2024-04-01", m.Date)
	assert.Equal(t, "12:01:00", m.StartTime)
	assert.Equal(t, "", m.Record().EndTime)
	require.Len(t, m.Rounds, 1)
	assert.Equal(t, at(2024, 4, 1, 12, 1, 0), m.Rounds[0].StartTime)
	assert.Nil(t, m.Rounds[0].EndTime)
	assert.True(t, m.Rounds[0].IsActive)
}

func TestNewOngoingMeal_SnapsFirstRoundToCurrentSecond(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 7)}
	m, err := NewOngoingMeal(clock, "2024-06-10", "20:50")
	require.NoError(t, err)
	assert.Equal(t, at(2024, 6, 10, 20, 50, 7), m.Rounds[0].StartTime)

	clock.now = at(2024, 6, 10, 20, 51, 7)
	m, err = NewOngoingMeal(clock, "2024-06-10", "20:50")
	require.NoError(t, err)
	assert.Equal(t, at(2024, 6, 10, 20, 50, 0), m.Rounds[0].StartTime)
}

func TestNewOngoingMeal_StartAheadOfClock(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 30)}
	m, err := NewOngoingMeal(clock, "2024-06-10", "20:52")
	require.NoError(t, err)
	assert.Equal(t, "20:52:00", m.StartTime)
	assert.Equal(t, at(2024, 6, 10, 20, 50, 30), m.Rounds[0].StartTime)

	clock.now = at(2024, 6, 10, 20, 51, 0)
	require.NoError(t, m.Pause())
	assert.True(t, m.IsPaused())
	assert.Equal(t, 30*time.Second, m.Rounds[0].Elapsed(clock.now))

	require.NoError(t, m.StartNewRound())
	assert.Len(t, m.Rounds, 2)
	assert.False(t, m.IsPaused())
}

func TestOngoingMeal_PauseRoundStartingAhead(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 30)}
	m, err := RestoreOngoingMeal(clock, OngoingMealSnapshot{
		Date:      "2024-06-10",
		StartTime: "22:00",
		Rounds:    []MealRound{NewMealRound(at(2024, 6, 10, 22, 0, 0))},
	})
	require.NoError(t, err)

	require.NoError(t, m.Pause())
	assert.True(t, m.IsPaused())
	assert.Equal(t, at(2024, 6, 10, 22, 0, 0), *m.Rounds[0].EndTime)

	require.NoError(t, m.StartNewRound())
	assert.Len(t, m.Rounds, 2)
}

func TestNewOngoingMeal_Invalid(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 0)}
	_, err := NewOngoingMeal(clock, "2024-04-01", "12:1")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewOngoingMeal(clock, "", "12:01")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRestoreOngoingMeal(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 5, 17, 0, 0)}
	end := at(2024, 6, 5, 16, 40, 0)
	snap := OngoingMealSnapshot{
		Date:      "2024-06-05",
		StartTime: "16:30:00",
		Rounds: []MealRound{
			{StartTime: at(2024, 6, 5, 16, 30, 42), EndTime: &end},
			{StartTime: at(2024, 6, 5, 16, 45, 0), IsActive: true},
		},
	}
	m, err := RestoreOngoingMeal(clock, snap)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", m.Date)
	assert.Len(t, m.Rounds, 2)
	assert.False(t, m.IsPaused())
	assert.Equal(t, snap, m.Snapshot())
}

func TestRestoreOngoingMeal_Invalid(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 5, 17, 0, 0)}

	_, err := RestoreOngoingMeal(clock, OngoingMealSnapshot{Date: "2024-04-01", StartTime: "12:01", EndTime: "13:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = RestoreOngoingMeal(clock, OngoingMealSnapshot{
		Date:      "2024-06-05",
		StartTime: "16:30",
		Rounds:    []MealRound{{StartTime: at(2024, 6, 5, 16, 30, 0), IsActive: true}, {StartTime: at(2024, 6, 5, 16, 40, 0), IsActive: true}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRestoreOngoingMeal_WithoutRounds(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 5, 17, 0, 0)}
	m, err := RestoreOngoingMeal(clock, OngoingMealSnapshot{Date: "2024-06-05", StartTime: "16:30"})
	require.NoError(t, err)
	require.Len(t, m.Rounds, 1)
	assert.True(t, m.Rounds[0].IsActive)
}

func TestOngoingMeal_PauseAndStartNewRound(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 0)}
	m, err := NewOngoingMeal(clock, timeutil.CurrentDate(clock), timeutil.CurrentTime(clock, true))
	require.NoError(t, err)

	clock.now = at(2024, 6, 10, 21, 10, 7)
	require.NoError(t, m.Pause())
	end := at(2024, 6, 10, 21, 10, 7)
	assert.Equal(t, MealRound{StartTime: at(2024, 6, 10, 20, 50, 0), EndTime: &end}, m.Rounds[0])
	assert.True(t, m.IsPaused())

	clock.now = at(2024, 6, 10, 21, 20, 10)
	require.NoError(t, m.StartNewRound())
	require.Len(t, m.Rounds, 2)
	assert.Equal(t, MealRound{StartTime: at(2024, 6, 10, 21, 20, 10), IsActive: true}, m.Rounds[1])
	assert.False(t, m.IsPaused())
}

func TestOngoingMeal_PauseTwiceClosesOnce(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 0)}
	m, err := NewOngoingMeal(clock, "2024-06-10", "20:50")
	require.NoError(t, err)

	clock.now = at(2024, 6, 10, 21, 0, 0)
	require.NoError(t, m.Pause())
	clock.now = at(2024, 6, 10, 21, 5, 0)
	require.NoError(t, m.Pause())

	require.Len(t, m.Rounds, 1)
	assert.Equal(t, at(2024, 6, 10, 21, 0, 0), *m.Rounds[0].EndTime)
}

func TestOngoingMeal_PauseWithoutRounds(t *testing.T) {
	m := &OngoingMeal{Date: "2024-06-10", StartTime: "20:50:00", clock: &testClock{now: at(2024, 6, 10, 21, 0, 0)}}
	require.NoError(t, m.Pause())
	assert.Empty(t, m.Rounds)
	assert.True(t, m.IsPaused())
}

func TestOngoingMeal_StartNewRoundWhileActive(t *testing.T) {
	clock := &testClock{now: at(2024, 6, 10, 20, 50, 0)}
	m, err := NewOngoingMeal(clock, "2024-06-10", "20:50")
	require.NoError(t, err)

	clock.now = at(2024, 6, 10, 21, 0, 0)
	require.NoError(t, m.StartNewRound())
	require.Len(t, m.Rounds, 2)
	assert.False(t, m.Rounds[0].IsActive)
	assert.Equal(t, at(2024, 6, 10, 21, 0, 0), *m.Rounds[0].EndTime)
	assert.True(t, m.Rounds[1].IsActive)
}
