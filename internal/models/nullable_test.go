package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullDuration_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		A NullDuration `json:"a"`
		B NullDuration `json:"b"`
	}{A: ValidDuration(90 * time.Minute)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":5400,"b":null}`, string(raw))

	var back struct {
		A NullDuration `json:"a"`
		B NullDuration `json:"b"`
	}
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, ValidDuration(90*time.Minute), back.A)
	assert.False(t, back.B.Valid)
	assert.Equal(t, "1h30m", back.A.Text())
	assert.Empty(t, back.B.Text())
}

func TestNullDuration_MinutesAndHours(t *testing.T) {
	d := ValidDuration(45*time.Minute + 30*time.Second)
	assert.Equal(t, NullFloat{Value: 45.5, Valid: true}, d.Minutes())
	assert.Equal(t, NullFloat{Value: 0.76, Valid: true}, d.Hours())
	assert.Equal(t, NullFloat{}, NullDuration{}.Minutes())
}

func TestNullTime_JSON(t *testing.T) {
	ts := time.Date(2024, 6, 10, 20, 50, 0, 0, time.UTC)
	raw, err := json.Marshal([]NullTime{{Time: ts, Valid: true}, {}})
	require.NoError(t, err)
	assert.JSONEq(t, `["2024-06-10T20:50:00Z",null]`, string(raw))

	var back []NullTime
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back, 2)
	assert.True(t, back[0].Time.Equal(ts))
	assert.False(t, back[1].Valid)
}
