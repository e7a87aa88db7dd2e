package dto

const (
	StreakMomentum        = "momentum"
	StreakConfirmed       = "confirmed"
	StreakFirstAppearance = "first-appearance"
)

// StreakInfo is the trailing-window recurrence of high scores for one symbol.
type StreakInfo struct {
	Symbol           string `json:"symbol"`
	DistinctDayCount int    `json:"distinct_day_count"`
	Label            string `json:"label"`
}

// StreakLabel classifies a distinct-day count.
func StreakLabel(days int) string {
	switch {
	case days >= 3:
		return StreakMomentum
	case days == 2:
		return StreakConfirmed
	default:
		return StreakFirstAppearance
	}
}
