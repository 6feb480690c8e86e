package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func TestElapsedSince(t *testing.T) {
	clock := fixedClock(time.Date(2024, 6, 10, 20, 50, 0, 0, time.Local))

	cases := []struct {
		since time.Time
		want  string
	}{
		{time.Date(2024, 6, 10, 20, 50, 0, 0, time.Local), "00:00"},
		{time.Date(2024, 6, 10, 20, 30, 35, 0, time.Local), "19:25"},
		{time.Date(2024, 6, 10, 18, 45, 0, 0, time.Local), "02:05:00"},
	}
	for _, tc := range cases {
		got, err := ElapsedSince(clock, tc.since)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestElapsedBetween(t *testing.T) {
	got, err := ElapsedBetween(time.Date(2024, 6, 10, 21, 52, 0, 0, time.Local), time.Date(2024, 6, 10, 20, 50, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "01:02:00", got)

	got, err = ElapsedBetween(time.Date(2024, 6, 10, 21, 52, 12, 0, time.Local), time.Date(2024, 6, 10, 21, 50, 6, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "02:06", got)
}

func TestElapsedBetween_Reversed(t *testing.T) {
	_, err := ElapsedBetween(time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local), time.Date(2024, 6, 10, 21, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, ErrOrdering)
}

func TestIsSameMinute(t *testing.T) {
	assert.True(t, IsSameMinute(time.Date(2024, 6, 10, 21, 52, 0, 0, time.Local), time.Date(2024, 6, 10, 21, 52, 16, 0, time.Local)))
	assert.False(t, IsSameMinute(time.Date(2024, 6, 10, 21, 52, 0, 0, time.Local), time.Date(2024, 6, 10, 21, 51, 16, 0, time.Local)))
	assert.False(t, IsSameMinute(time.Date(2024, 6, 10, 21, 52, 0, 0, time.Local), time.Date(2024, 6, 11, 21, 52, 0, 0, time.Local)))
}

func TestIsToday(t *testing.T) {
	clock := fixedClock(time.Date(2024, 6, 10, 20, 50, 0, 0, time.Local))
	assert.True(t, IsToday(clock, "2024-06-10"))
	assert.False(t, IsToday(clock, "2024-06-11"))
}

func TestIsWithinNextTwoCalendarDays(t *testing.T) {
	clock := fixedClock(time.Date(2024, 6, 10, 20, 50, 0, 0, time.Local))
	assert.True(t, IsWithinNextTwoCalendarDays(clock, time.Date(2024, 6, 9, 12, 15, 0, 0, time.Local)))
	assert.True(t, IsWithinNextTwoCalendarDays(clock, time.Date(2024, 6, 10, 23, 15, 0, 0, time.Local)))
	assert.True(t, IsWithinNextTwoCalendarDays(clock, time.Date(2024, 6, 11, 22, 15, 0, 0, time.Local)))
	assert.True(t, IsWithinNextTwoCalendarDays(clock, time.Date(2024, 6, 11, 23, 59, 0, 0, time.Local)))
	assert.False(t, IsWithinNextTwoCalendarDays(clock, time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)))
	assert.False(t, IsWithinNextTwoCalendarDays(clock, time.Date(2024, 6, 12, 0, 1, 0, 0, time.Local)))
}
