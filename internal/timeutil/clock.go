package timeutil

import "time"

// Clock is the source of "now" for everything that depends on the wall clock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

func NewSystemClock() Clock {
	return SystemClock{}
}
