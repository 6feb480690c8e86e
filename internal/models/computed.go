package models

// ComputedValues is a point-in-time view for the presentation layer. It is
// never authoritative and can always be rebuilt from the table, the ongoing
// meal and the clock.
type ComputedValues struct {
	CurrentTime string `json:"current_time"`

	TimeSinceLatestEnd       NullDuration   `json:"time_since_latest_end"`
	TimeSinceLatestEndText   string         `json:"time_since_latest_end_text"`
	TimeSinceLatestStart     NullDuration   `json:"time_since_latest_start"`
	TimeSinceLatestStartText string         `json:"time_since_latest_start_text"`
	LatestMealInfo           LatestMealInfo `json:"latest_meal_info"`

	IsOngoingMeal         bool   `json:"is_ongoing_meal"`
	IsOngoingMealPaused   bool   `json:"is_ongoing_meal_paused"`
	OngoingMealButtonText string `json:"ongoing_meal_button_text"`
	TimerMealRound        string `json:"timer_meal_round"`
	DefaultStartTime      string `json:"default_start_time"`

	HasBabyTakenVitaminsToday   bool `json:"has_baby_taken_vitamins_today"`
	HasMotherTakenVitaminsToday bool `json:"has_mother_taken_vitamins_today"`

	Age     string `json:"age"`
	AgeDays int    `json:"age_days"`
}

type LatestMealInfo struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  string `json:"duration"`
}

func NoComputedValues() ComputedValues {
	return ComputedValues{OngoingMealButtonText: ButtonPause}
}

const (
	ButtonPause  = "Pause"
	ButtonResume = "Resume"
)
