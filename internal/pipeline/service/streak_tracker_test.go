package service

import (
	"context"
	"testing"
	"time"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, repo repository.AnalysisRecordRepository, symbol string, score int, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.AnalysisRecord{
		Symbol: symbol, Name: symbol, Score: score, Suggestion: "buy", Strategy: "Breakout",
		Status: entity.StatusNew, CreatedAt: at.UTC(), UpdatedAt: at.UTC(),
	}))
}

func TestStreakTracker_CountsDistinctDays(t *testing.T) {
	repo := repository.NewAnalysisRecordRepository(newTestDB(t))
	now := time.Date(2024, 3, 8, 14, 0, 0, 0, shanghai)
	tracker := NewStreakTracker(repo, shanghai, newTestClock(now).Now)

	// Two qualifying runs on the 8th count once.
	seedRecord(t, repo, "Y", 80, time.Date(2024, 3, 8, 10, 0, 0, 0, shanghai))
	seedRecord(t, repo, "Y", 85, time.Date(2024, 3, 8, 14, 30, 0, 0, shanghai).Add(-time.Hour))
	seedRecord(t, repo, "Y", 75, time.Date(2024, 3, 6, 10, 0, 0, 0, shanghai))
	seedRecord(t, repo, "Y", 90, time.Date(2024, 3, 4, 0, 10, 0, 0, shanghai))
	// Below threshold and outside the window.
	seedRecord(t, repo, "Y", 74, time.Date(2024, 3, 7, 10, 0, 0, 0, shanghai))
	seedRecord(t, repo, "Y", 99, time.Date(2024, 3, 3, 23, 50, 0, 0, shanghai))

	info, err := tracker.Streak(context.Background(), "Y", 5, 75)
	require.NoError(t, err)
	assert.Equal(t, dto.StreakInfo{Symbol: "Y", DistinctDayCount: 3, Label: dto.StreakMomentum}, info)
}

func TestStreakTracker_Labels(t *testing.T) {
	repo := repository.NewAnalysisRecordRepository(newTestDB(t))
	now := time.Date(2024, 3, 8, 14, 0, 0, 0, shanghai)
	tracker := NewStreakTracker(repo, shanghai, newTestClock(now).Now)

	seedRecord(t, repo, "A", 80, now.AddDate(0, 0, -1))
	seedRecord(t, repo, "A", 80, now)
	seedRecord(t, repo, "B", 80, now)

	streaks, err := tracker.Streaks(context.Background(), []string{"A", "B", "C"}, 5, 75)
	require.NoError(t, err)
	assert.Equal(t, dto.StreakConfirmed, streaks["A"].Label)
	assert.Equal(t, 1, streaks["B"].DistinctDayCount)
	assert.Equal(t, dto.StreakFirstAppearance, streaks["B"].Label)
	assert.Equal(t, 0, streaks["C"].DistinctDayCount)
	assert.Equal(t, dto.StreakFirstAppearance, streaks["C"].Label)
}
