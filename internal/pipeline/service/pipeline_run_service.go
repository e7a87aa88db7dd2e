package service

import (
	"context"
	"encoding/json"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"
)

// PipelineRunService reads the pipeline run history.
type PipelineRunService interface {
	GetRuns(ctx context.Context, limit int) ([]*dto.PipelineRunResponse, error)
	GetRunByID(ctx context.Context, runID string) (*dto.PipelineRunResponse, error)
}

// NewPipelineRunService creates a new pipeline run service.
func NewPipelineRunService(runRepo repository.PipelineRunRepository, log *logger.Logger) PipelineRunService {
	return &pipelineRunService{runRepo: runRepo, logger: log}
}

type pipelineRunService struct {
	runRepo repository.PipelineRunRepository
	logger  *logger.Logger
}

// GetRuns retrieves the most recent runs.
func (s *pipelineRunService) GetRuns(ctx context.Context, limit int) ([]*dto.PipelineRunResponse, error) {
	runs, err := s.runRepo.FindAll(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to get pipeline runs", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.PipelineRunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, mapToPipelineRunResponse(&runs[i]))
	}
	return responses, nil
}

// GetRunByID retrieves one run by its run id.
func (s *pipelineRunService) GetRunByID(ctx context.Context, runID string) (*dto.PipelineRunResponse, error) {
	run, err := s.runRepo.FindByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return mapToPipelineRunResponse(run), nil
}

func mapToPipelineRunResponse(run *entity.PipelineRun) *dto.PipelineRunResponse {
	var duration int64
	if run.CompletedAt.Valid {
		duration = run.CompletedAt.Time.Sub(run.StartedAt).Milliseconds()
	}

	resp := &dto.PipelineRunResponse{
		RunID:      run.RunID,
		Trigger:    run.Trigger,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		DurationMs: duration,
		Error:      run.ErrorMessage.String,
	}
	if len(run.Output) > 0 {
		resp.Output = json.RawMessage(run.Output)
	}
	return resp
}
