package dto

import "time"

// RecordFilter narrows a record listing. Empty Status and zero Date mean "any".
type RecordFilter struct {
	Status string
	Date   time.Time
	Limit  int
}

// RecordStatistics aggregates records over a trailing window.
type RecordStatistics struct {
	Days                int              `json:"days"`
	Count               int64            `json:"count"`
	DistinctSymbols     int64            `json:"distinct_symbols"`
	AvgScore            float64          `json:"avg_score"`
	SuggestionHistogram map[string]int64 `json:"suggestion_histogram"`
}
