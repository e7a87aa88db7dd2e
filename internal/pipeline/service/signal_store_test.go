package service

import (
	"context"
	"testing"
	"time"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, clock *testClock) SignalStore {
	t.Helper()
	return NewSignalStore(repository.NewAnalysisRecordRepository(newTestDB(t)), shanghai, clock.Now, logger.NewNop())
}

func TestSignalStore_SaveDefaults(t *testing.T) {
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	store := newTestStore(t, clock)
	ctx := context.Background()

	id, err := store.Save(ctx, &entity.AnalysisRecord{Symbol: "600000", Name: "Bank", Score: 80, Suggestion: "buy", Strategy: "Breakout"})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, got.Status)
	assert.Equal(t, dto.LabelUnknown, got.Sector)
	assert.True(t, clock.Now().Equal(got.CreatedAt))
}

func TestSignalStore_ListByStatus_LocalDay(t *testing.T) {
	clock := newTestClock(time.Date(2024, 3, 5, 0, 30, 0, 0, shanghai))
	store := newTestStore(t, clock)
	ctx := context.Background()

	save := func(symbol string, score int) {
		_, err := store.Save(ctx, &entity.AnalysisRecord{Symbol: symbol, Name: symbol, Score: score, Suggestion: "buy", Strategy: "Breakout"})
		require.NoError(t, err)
	}

	// 00:30 local on the 5th is still the 4th in UTC.
	save("early", 60)
	clock.Set(time.Date(2024, 3, 5, 14, 0, 0, 0, shanghai))
	save("late", 90)
	clock.Set(time.Date(2024, 3, 4, 23, 59, 0, 0, shanghai))
	save("yesterday", 99)

	day, err := store.ListByStatus(ctx, dto.RecordFilter{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, shanghai)})
	require.NoError(t, err)
	assert.Equal(t, []string{"late", "early"}, recordSymbols(day))

	_, err = store.ListByStatus(ctx, dto.RecordFilter{Status: "Archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSignalStore_UpdateStatus(t *testing.T) {
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	store := newTestStore(t, clock)
	ctx := context.Background()

	id, err := store.Save(ctx, &entity.AnalysisRecord{Symbol: "600000", Name: "Bank", Score: 80, Suggestion: "buy", Strategy: "Breakout"})
	require.NoError(t, err)

	ok, err := store.UpdateStatus(ctx, id, "Watchlist")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.UpdateStatus(ctx, id, "watchlist")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.False(t, ok)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWatchlist, got.Status, "invalid status is never coerced")

	ok, err = store.UpdateStatus(ctx, id, "New")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.UpdateStatus(ctx, 9999, "Ignored")
	require.NoError(t, err)
	assert.False(t, ok)

	watch, err := store.ListByStatus(ctx, dto.RecordFilter{Status: "Watchlist"})
	require.NoError(t, err)
	assert.Empty(t, watch)
}

func TestSignalStore_Statistics(t *testing.T) {
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	store := newTestStore(t, clock)
	ctx := context.Background()

	for _, score := range []int{70, 80, 81} {
		_, err := store.Save(ctx, &entity.AnalysisRecord{Symbol: "600000", Name: "Bank", Score: score, Suggestion: "buy", Strategy: "Breakout"})
		require.NoError(t, err)
	}

	stats, err := store.Statistics(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Days)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, int64(1), stats.DistinctSymbols)
	assert.Equal(t, 77.0, stats.AvgScore)
	assert.Equal(t, int64(3), stats.SuggestionHistogram["buy"])
}

func recordSymbols(records []entity.AnalysisRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Symbol)
	}
	return out
}
