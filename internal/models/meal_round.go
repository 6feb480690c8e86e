package models

import "time"

// MealRound is one contiguous actively-feeding interval of an ongoing meal.
type MealRound struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	IsActive  bool       `json:"is_active"`
}

func NewMealRound(start time.Time) MealRound {
	return MealRound{StartTime: start, IsActive: true}
}

func (r MealRound) Validate() error {
	if r.StartTime.IsZero() {
		return newValidationError("meal_round", "start_time", "start_time is required")
	}
	if r.IsActive && r.EndTime != nil {
		return newValidationError("meal_round", "end_time", "there must be no end_time if the round is active")
	}
	if !r.IsActive && r.EndTime == nil {
		return newValidationError("meal_round", "end_time", "there must be an end_time if the round is no longer active")
	}
	return nil
}

// Update applies change to a copy of the round and keeps it only if the
// result is valid. On error the round is left untouched.
func (r *MealRound) Update(change func(next *MealRound)) error {
	next := *r
	change(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	*r = next
	return nil
}

// Close ends the round at at, or at its start when at lies before it.
func (r *MealRound) Close(at time.Time) error {
	if at.Before(r.StartTime) {
		at = r.StartTime
	}
	return r.Update(func(next *MealRound) {
		next.EndTime = &at
		next.IsActive = false
	})
}

// Elapsed is the round length, measured up to now while it is still active.
// A round that has not begun yet has zero length.
func (r MealRound) Elapsed(now time.Time) time.Duration {
	end := now
	if r.EndTime != nil {
		end = *r.EndTime
	}
	if end.Before(r.StartTime) {
		return 0
	}
	return end.Sub(r.StartTime)
}
