package entity

import "time"

// RecordStatus is the review state of an analysis record.
type RecordStatus string

const (
	StatusNew       RecordStatus = "New"
	StatusWatchlist RecordStatus = "Watchlist"
	StatusIgnored   RecordStatus = "Ignored"
)

// Valid reports whether s is one of the known review states.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusNew, StatusWatchlist, StatusIgnored:
		return true
	}
	return false
}

// AnalysisRecord is one scored candidate from one pipeline run. Only Status and UpdatedAt change after creation.
type AnalysisRecord struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Symbol      string       `gorm:"size:16;not null;index:idx_analysis_records_symbol_created,priority:1" json:"symbol"`
	Name        string       `gorm:"size:64;not null" json:"name"`
	Price       float64      `gorm:"not null" json:"price"`
	ChangePct   float64      `gorm:"not null" json:"change_pct"`
	Turnover    float64      `gorm:"not null" json:"turnover"`
	VolumeRatio float64      `gorm:"not null" json:"volume_ratio"`
	Sector      string       `gorm:"size:64;not null;default:unknown" json:"sector"`
	Strategy    string       `gorm:"size:32;not null" json:"strategy"`
	Score       int          `gorm:"not null;index" json:"score"`
	Reason      string       `gorm:"type:text" json:"reason"`
	Suggestion  string       `gorm:"size:16;not null" json:"suggestion"`
	Status      RecordStatus `gorm:"size:16;not null;default:New;index" json:"status"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;index:idx_analysis_records_symbol_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
