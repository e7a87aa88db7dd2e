package repository

import (
	"context"

	"golang-stock-sentinel/internal/entity"

	"gorm.io/gorm"
)

// PipelineRunRepository defines the data operations on pipeline run history.
type PipelineRunRepository interface {
	Create(ctx context.Context, run *entity.PipelineRun) error
	Update(ctx context.Context, run *entity.PipelineRun) error
	FindByRunID(ctx context.Context, runID string) (*entity.PipelineRun, error)
	FindAll(ctx context.Context, limit int) ([]entity.PipelineRun, error)
}

// NewPipelineRunRepository creates a GORM-based pipeline run repository.
func NewPipelineRunRepository(db *gorm.DB) PipelineRunRepository {
	return &pipelineRunRepository{db: db}
}

type pipelineRunRepository struct {
	db *gorm.DB
}

func (r *pipelineRunRepository) Create(ctx context.Context, run *entity.PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update saves every field of the run, including cleared ones.
func (r *pipelineRunRepository) Update(ctx context.Context, run *entity.PipelineRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *pipelineRunRepository) FindByRunID(ctx context.Context, runID string) (*entity.PipelineRun, error) {
	var run entity.PipelineRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// FindAll returns the most recent runs first.
func (r *pipelineRunRepository) FindAll(ctx context.Context, limit int) ([]entity.PipelineRun, error) {
	tx := r.db.WithContext(ctx).Order("started_at desc").Order("id desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var runs []entity.PipelineRun
	if err := tx.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
