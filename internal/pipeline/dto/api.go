package dto

import (
	"encoding/json"
	"time"

	"golang-stock-sentinel/internal/entity"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateStatusRequest is the body of a record status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusResponse reports a status change.
type UpdateStatusResponse struct {
	ID      uint   `json:"id"`
	Status  string `json:"status"`
	Updated bool   `json:"updated"`
}

// RunRequest is the body of an on-demand pipeline run.
type RunRequest struct {
	MaxCandidates  int `json:"max_candidates"`
	ScoreThreshold int `json:"score_threshold"`
}

// SnapshotStatusResponse describes the cached snapshot for the dashboard.
type SnapshotStatusResponse struct {
	Rows       int             `json:"rows"`
	FetchedAt  time.Time       `json:"fetched_at"`
	AgeSeconds int64           `json:"age_seconds"`
	Stale      bool            `json:"stale"`
	MarketOpen bool            `json:"market_open"`
	Breadth    MarketBreadth   `json:"breadth"`
	Sentiment  MarketSentiment `json:"sentiment"`
}

// PipelineStatusResponse reports the orchestrator's current phase.
type PipelineStatusResponse struct {
	Phase Phase `json:"phase"`
}

// PortfolioResponse is the account overview plus open positions.
type PortfolioResponse struct {
	Summary   PortfolioSummary  `json:"summary"`
	Positions []entity.Position `json:"positions"`
}

// PipelineRunResponse is one entry of the run history.
type PipelineRunResponse struct {
	RunID      string          `json:"run_id"`
	Trigger    string          `json:"trigger"`
	Status     string          `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	DurationMs int64           `json:"duration_ms"`
	Error      string          `json:"error,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}
