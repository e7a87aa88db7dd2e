package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun records one execution of the signal pipeline.
type PipelineRun struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RunID        string         `gorm:"size:36;not null;uniqueIndex" json:"run_id"`
	Trigger      string         `gorm:"size:16;not null" json:"trigger"`
	Status       RunStatus      `gorm:"size:16;not null;index" json:"status"`
	StartedAt    time.Time      `gorm:"not null;index" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	Output       datatypes.JSON `json:"output"`
	ErrorMessage sql.NullString `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
