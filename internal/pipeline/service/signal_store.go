package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"
)

// ErrInvalidStatus is returned when a status outside New, Watchlist and Ignored is requested.
var ErrInvalidStatus = errors.New("invalid status")

// SignalStore persists analysis records and answers dashboard queries over them.
type SignalStore interface {
	Save(ctx context.Context, record *entity.AnalysisRecord) (uint, error)
	Get(ctx context.Context, id uint) (*entity.AnalysisRecord, error)
	ListByStatus(ctx context.Context, filter dto.RecordFilter) ([]entity.AnalysisRecord, error)
	UpdateStatus(ctx context.Context, id uint, status string) (bool, error)
	Statistics(ctx context.Context, days int) (*dto.RecordStatistics, error)
}

// NewSignalStore creates a new SignalStore. Calendar days are taken in loc.
func NewSignalStore(repo repository.AnalysisRecordRepository, loc *time.Location, now utils.Clock, log *logger.Logger) SignalStore {
	return &signalStore{repo: repo, loc: loc, now: now, logger: log}
}

type signalStore struct {
	repo   repository.AnalysisRecordRepository
	loc    *time.Location
	now    utils.Clock
	logger *logger.Logger
}

// Save inserts a record as New and returns its id.
func (s *signalStore) Save(ctx context.Context, record *entity.AnalysisRecord) (uint, error) {
	now := s.now().UTC()
	record.ID = 0
	if record.Status == "" {
		record.Status = entity.StatusNew
	}
	if record.Sector == "" {
		record.Sector = dto.LabelUnknown
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := s.repo.Create(ctx, record); err != nil {
		return 0, fmt.Errorf("failed to save record for %s: %w", record.Symbol, err)
	}
	return record.ID, nil
}

func (s *signalStore) Get(ctx context.Context, id uint) (*entity.AnalysisRecord, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByStatus lists records by score, newest first within a score. A non-zero Date selects one local calendar day.
func (s *signalStore) ListByStatus(ctx context.Context, filter dto.RecordFilter) ([]entity.AnalysisRecord, error) {
	query := repository.RecordQuery{Limit: filter.Limit}
	if filter.Status != "" {
		status := entity.RecordStatus(filter.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		query.Status = status
	}
	if !filter.Date.IsZero() {
		query.From = utils.StartOfDay(filter.Date.In(s.loc))
		query.To = query.From.AddDate(0, 0, 1)
	}

	records, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// UpdateStatus changes the review status of a record. It reports false for an unknown id.
func (s *signalStore) UpdateStatus(ctx context.Context, id uint, status string) (bool, error) {
	st := entity.RecordStatus(status)
	if !st.Valid() {
		return false, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, st, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to update status of record %d: %w", id, err)
	}
	if updated {
		s.logger.InfoContext(ctx, "Record status updated", logger.Field("id", id), logger.StringField("status", status))
	}
	return updated, nil
}

// Statistics aggregates the records created since local midnight days ago.
func (s *signalStore) Statistics(ctx context.Context, days int) (*dto.RecordStatistics, error) {
	if days <= 0 {
		days = 7
	}
	since := utils.StartOfDay(s.now().In(s.loc)).AddDate(0, 0, -days)

	stats, err := s.repo.Statistics(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	stats.Days = days
	stats.AvgScore = math.Round(stats.AvgScore*100) / 100
	return stats, nil
}
