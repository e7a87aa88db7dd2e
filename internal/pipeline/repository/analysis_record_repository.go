package repository

import (
	"context"
	"strings"
	"time"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"

	"gorm.io/gorm"
)

// RecordQuery filters analysis records. Zero values are ignored.
type RecordQuery struct {
	Status entity.RecordStatus
	From   time.Time
	To     time.Time
	Limit  int
}

// AnalysisRecordRepository defines the data operations on analysis records.
type AnalysisRecordRepository interface {
	Create(ctx context.Context, record *entity.AnalysisRecord) error
	FindByID(ctx context.Context, id uint) (*entity.AnalysisRecord, error)
	FindAll(ctx context.Context, query RecordQuery) ([]entity.AnalysisRecord, error)
	UpdateStatus(ctx context.Context, id uint, status entity.RecordStatus, updatedAt time.Time) (bool, error)
	Statistics(ctx context.Context, since time.Time) (*dto.RecordStatistics, error)
	FindQualifyingTimes(ctx context.Context, symbols []string, since time.Time, minScore int) (map[string][]time.Time, error)
}

// NewAnalysisRecordRepository creates a GORM-based analysis record repository.
func NewAnalysisRecordRepository(db *gorm.DB) AnalysisRecordRepository {
	return &analysisRecordRepository{db: db}
}

type analysisRecordRepository struct {
	db *gorm.DB
}

func (r *analysisRecordRepository) Create(ctx context.Context, record *entity.AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *analysisRecordRepository) FindByID(ctx context.Context, id uint) (*entity.AnalysisRecord, error) {
	var record entity.AnalysisRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAll returns matching records, highest score first and newest first within a score.
func (r *analysisRecordRepository) FindAll(ctx context.Context, query RecordQuery) ([]entity.AnalysisRecord, error) {
	qFilter := []string{}
	qFilterParam := []interface{}{}

	if query.Status != "" {
		qFilter = append(qFilter, "status = ?")
		qFilterParam = append(qFilterParam, query.Status)
	}
	if !query.From.IsZero() {
		qFilter = append(qFilter, "created_at >= ?")
		qFilterParam = append(qFilterParam, query.From.UTC())
	}
	if !query.To.IsZero() {
		qFilter = append(qFilter, "created_at < ?")
		qFilterParam = append(qFilterParam, query.To.UTC())
	}

	tx := r.db.WithContext(ctx).Model(&entity.AnalysisRecord{})
	if len(qFilter) > 0 {
		tx = tx.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var records []entity.AnalysisRecord
	if err := tx.Order("score desc").Order("created_at desc").Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateStatus changes a record's review status. It reports false when no record has that id.
func (r *analysisRecordRepository) UpdateStatus(ctx context.Context, id uint, status entity.RecordStatus, updatedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.AnalysisRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": updatedAt.UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *analysisRecordRepository) Statistics(ctx context.Context, since time.Time) (*dto.RecordStatistics, error) {
	var totals struct {
		Count           int64
		DistinctSymbols int64
		AvgScore        float64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.AnalysisRecord{}).
		Select("COUNT(*) AS count, COUNT(DISTINCT symbol) AS distinct_symbols, COALESCE(AVG(score), 0) AS avg_score").
		Where("created_at >= ?", since.UTC()).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var buckets []struct {
		Suggestion string
		Total      int64
	}
	err = r.db.WithContext(ctx).
		Model(&entity.AnalysisRecord{}).
		Select("suggestion, COUNT(*) AS total").
		Where("created_at >= ?", since.UTC()).
		Group("suggestion").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	stats := &dto.RecordStatistics{
		Count:               totals.Count,
		DistinctSymbols:     totals.DistinctSymbols,
		AvgScore:            totals.AvgScore,
		SuggestionHistogram: make(map[string]int64, len(buckets)),
	}
	for _, b := range buckets {
		stats.SuggestionHistogram[b.Suggestion] = b.Total
	}
	return stats, nil
}

// FindQualifyingTimes returns, per symbol, the creation times of records scoring at least minScore since the given instant.
func (r *analysisRecordRepository) FindQualifyingTimes(ctx context.Context, symbols []string, since time.Time, minScore int) (map[string][]time.Time, error) {
	result := make(map[string][]time.Time, len(symbols))
	if len(symbols) == 0 {
		return result, nil
	}

	var rows []struct {
		Symbol    string
		CreatedAt time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&entity.AnalysisRecord{}).
		Select("symbol, created_at").
		Where("symbol IN (?) AND score >= ? AND created_at >= ?", symbols, minScore, since.UTC()).
		Order("created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.Symbol] = append(result[row.Symbol], row.CreatedAt)
	}
	return result, nil
}
