package models

import (
	"math"
	"time"

	json "github.com/goccy/go-json"

	"milktracker/internal/timeutil"
)

// NullDuration is a duration that may be absent, e.g. for ongoing rows or the
// first row of the table.
type NullDuration struct {
	Duration time.Duration
	Valid    bool
}

func ValidDuration(d time.Duration) NullDuration {
	return NullDuration{Duration: d, Valid: true}
}

// Text is empty when the duration is absent.
func (n NullDuration) Text() string {
	if !n.Valid {
		return ""
	}
	return timeutil.FormatDuration(n.Duration)
}

func (n NullDuration) Minutes() NullFloat {
	if !n.Valid {
		return NullFloat{}
	}
	return NullFloat{Value: round2(n.Duration.Minutes()), Valid: true}
}

func (n NullDuration) Hours() NullFloat {
	if !n.Valid {
		return NullFloat{}
	}
	return NullFloat{Value: round2(n.Duration.Hours()), Valid: true}
}

func (n NullDuration) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Duration.Seconds())
}

// UnmarshalJSON reads seconds, as written by MarshalJSON.
func (n *NullDuration) UnmarshalJSON(data []byte) error {
	var seconds *float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return err
	}
	*n = NullDuration{}
	if seconds != nil {
		*n = ValidDuration(time.Duration(math.Round(*seconds * float64(time.Second))))
	}
	return nil
}

type NullFloat struct {
	Value float64
	Valid bool
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullFloat{}
	if v != nil {
		*n = NullFloat{Value: *v, Valid: true}
	}
	return nil
}

type NullTime struct {
	Time  time.Time
	Valid bool
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}

func (n *NullTime) UnmarshalJSON(data []byte) error {
	var v *time.Time
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullTime{}
	if v != nil {
		*n = NullTime{Time: *v, Valid: true}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
