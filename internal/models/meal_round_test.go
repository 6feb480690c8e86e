package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealRound_New(t *testing.T) {
	r := NewMealRound(at(2024, 5, 25, 18, 5, 0))
	assert.True(t, r.IsActive)
	assert.Nil(t, r.EndTime)
	assert.NoError(t, r.Validate())
}

func TestMealRound_Update(t *testing.T) {
	start := at(2024, 6, 10, 20, 50, 0)
	end := at(2024, 6, 10, 21, 55, 0)
	r := NewMealRound(start)

	require.NoError(t, r.Update(func(next *MealRound) {
		next.IsActive = false
		next.EndTime = &end
	}))
	assert.False(t, r.IsActive)
	assert.Equal(t, end, *r.EndTime)

	// reactivating while an end time is set is rejected
	err := r.Update(func(next *MealRound) { next.IsActive = true })
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, r.IsActive)
	assert.Equal(t, end, *r.EndTime)

	// stopping without an end time is rejected
	r = NewMealRound(start)
	err = r.Update(func(next *MealRound) { next.IsActive = false })
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, r.IsActive)
	assert.Nil(t, r.EndTime)
}

func TestMealRound_CloseBeforeStart(t *testing.T) {
	r := NewMealRound(at(2024, 6, 10, 20, 50, 0))
	require.NoError(t, r.Close(at(2024, 6, 10, 20, 0, 0)))
	assert.False(t, r.IsActive)
	assert.Equal(t, at(2024, 6, 10, 20, 50, 0), *r.EndTime)
	assert.Zero(t, r.Elapsed(at(2024, 6, 10, 21, 0, 0)))
}

func TestMealRound_ElapsedBeforeStart(t *testing.T) {
	r := NewMealRound(at(2024, 6, 10, 22, 0, 0))
	assert.Zero(t, r.Elapsed(at(2024, 6, 10, 20, 50, 0)))

	end := at(2024, 6, 10, 21, 0, 0)
	r = MealRound{StartTime: at(2024, 6, 10, 22, 0, 0), EndTime: &end}
	require.NoError(t, r.Validate())
	assert.Zero(t, r.Elapsed(at(2024, 6, 10, 23, 0, 0)))
}

func TestMealRound_Elapsed(t *testing.T) {
	r := NewMealRound(at(2024, 6, 10, 20, 50, 0))
	assert.Equal(t, 5*time.Minute, r.Elapsed(at(2024, 6, 10, 20, 55, 0)))
	require.NoError(t, r.Close(at(2024, 6, 10, 21, 0, 0)))
	assert.Equal(t, 10*time.Minute, r.Elapsed(at(2024, 6, 10, 23, 0, 0)))
}
