package service

import (
	"context"
	"fmt"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/utils"
)

const (
	DefaultTrailingDays   = 5
	DefaultScoreThreshold = 75
)

// StreakTracker counts how many distinct days a symbol recently scored at or above a threshold.
type StreakTracker interface {
	Streak(ctx context.Context, symbol string, trailingDays, threshold int) (dto.StreakInfo, error)
	Streaks(ctx context.Context, symbols []string, trailingDays, threshold int) (map[string]dto.StreakInfo, error)
}

// NewStreakTracker creates a new StreakTracker. Calendar days are taken in loc.
func NewStreakTracker(repo repository.AnalysisRecordRepository, loc *time.Location, now utils.Clock) StreakTracker {
	return &streakTracker{repo: repo, loc: loc, now: now}
}

type streakTracker struct {
	repo repository.AnalysisRecordRepository
	loc  *time.Location
	now  utils.Clock
}

func (t *streakTracker) Streak(ctx context.Context, symbol string, trailingDays, threshold int) (dto.StreakInfo, error) {
	streaks, err := t.Streaks(ctx, []string{symbol}, trailingDays, threshold)
	if err != nil {
		return dto.StreakInfo{}, err
	}
	return streaks[symbol], nil
}

// Streaks computes the streak of every symbol in one query. The window is the last trailingDays local days, today included.
func (t *streakTracker) Streaks(ctx context.Context, symbols []string, trailingDays, threshold int) (map[string]dto.StreakInfo, error) {
	if trailingDays <= 0 {
		trailingDays = DefaultTrailingDays
	}
	since := utils.StartOfDay(t.now().In(t.loc)).AddDate(0, 0, -(trailingDays - 1))

	times, err := t.repo.FindQualifyingTimes(ctx, symbols, since, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to load qualifying records: %w", err)
	}

	result := make(map[string]dto.StreakInfo, len(symbols))
	for _, symbol := range symbols {
		days := make(map[string]struct{})
		for _, ts := range times[symbol] {
			days[ts.In(t.loc).Format("2006-01-02")] = struct{}{}
		}
		result[symbol] = dto.StreakInfo{
			Symbol:           symbol,
			DistinctDayCount: len(days),
			Label:            dto.StreakLabel(len(days)),
		}
	}
	return result, nil
}
