package repository

import (
	"golang-stock-sentinel/internal/entity"

	"gorm.io/gorm"
)

// AutoMigrate creates the pipeline tables. PostgreSQL deployments use the SQL files under migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.AnalysisRecord{}, &entity.PortfolioDocument{}, &entity.PipelineRun{})
}
