package dto

import "time"

// Phase is a pipeline run state.
type Phase string

const (
	PhaseIdle             Phase = "Idle"
	PhaseScanning         Phase = "Scanning"
	PhaseDeduping         Phase = "Deduping"
	PhaseEnrichingScoring Phase = "EnrichingScoring"
	PhasePersisting       Phase = "Persisting"
	PhaseStreakChecking   Phase = "StreakChecking"
	PhaseAutoTrading      Phase = "AutoTrading"
	PhaseSummarizing      Phase = "Summarizing"
)

// RunOptions parameterize a single pipeline run. Zero values take the configured defaults.
type RunOptions struct {
	MaxCandidates  int    `json:"max_candidates"`
	ScoreThreshold int    `json:"score_threshold"`
	Trigger        string `json:"trigger"`
}

// CandidateOutcome is the per-candidate result of a run.
type CandidateOutcome struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	Strategy   Strategy   `json:"strategy"`
	Sector     string     `json:"sector"`
	Score      int        `json:"score"`
	Suggestion Suggestion `json:"suggestion"`
	RecordID   uint       `json:"record_id,omitempty"`
	Degraded   bool       `json:"degraded"`
	Persisted  bool       `json:"persisted"`
	Error      string     `json:"error,omitempty"`
}

// TradeOutcome is the result of one auto-trade attempt.
type TradeOutcome struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	StreakDays int     `json:"streak_days"`
	Success    bool    `json:"success"`
	Reason     string  `json:"reason,omitempty"`
	Shares     int64   `json:"shares,omitempty"`
	Price      float64 `json:"price"`
	Cost       string  `json:"cost,omitempty"`
}

// RunSummary reports what a pipeline run did, including partial failures.
type RunSummary struct {
	RunID          string             `json:"run_id"`
	Trigger        string             `json:"trigger"`
	StartedAt      time.Time          `json:"started_at"`
	FinishedAt     time.Time          `json:"finished_at"`
	Duration       string             `json:"duration"`
	Aborted        bool               `json:"aborted"`
	AbortReason    string             `json:"abort_reason,omitempty"`
	SnapshotSize   int                `json:"snapshot_size"`
	Breadth        MarketBreadth      `json:"breadth"`
	Sentiment      MarketSentiment    `json:"sentiment"`
	ScannedByRule  map[Strategy]int   `json:"scanned_by_rule"`
	Candidates     int                `json:"candidates"`
	Scored         int                `json:"scored"`
	Degraded       int                `json:"degraded"`
	Persisted      int                `json:"persisted"`
	Failed         int                `json:"failed"`
	ScoreThreshold int                `json:"score_threshold"`
	Outcomes       []CandidateOutcome `json:"outcomes"`
	Streaks        []StreakInfo       `json:"streaks"`
	Trades         []TradeOutcome     `json:"trades"`
}
