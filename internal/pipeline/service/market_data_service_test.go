package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-sentinel/internal/pipeline/cache"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []dto.InstrumentRow {
	return []dto.InstrumentRow{
		{Symbol: "600000", Name: "Bank", Price: 20, ChangePct: 6, Turnover: 10, VolumeRatio: 1.5, MarketValue: 50e8, Volume: 10000},
		{Symbol: "000001", Name: "ST Weak", Price: 3, ChangePct: 1, Turnover: 2, VolumeRatio: 1, MarketValue: 1e9, Volume: 100},
		{Symbol: "000002", Name: "Halted", Price: 8, ChangePct: 0, Turnover: 0, VolumeRatio: 1, MarketValue: 1e9, Volume: 0},
		{Symbol: "000003", Name: "Broken", Price: -1, ChangePct: 0, Turnover: 0, VolumeRatio: 1, MarketValue: 1e9, Volume: 10},
	}
}

func newTestMarketData(t *testing.T, repo *fakeMarketRepo, clock *testClock, open bool) MarketDataService {
	t.Helper()
	market := stubMarket{open: open}
	c, err := cache.NewSnapshotCache(cache.Config{Dir: t.TempDir(), TTL: 5 * time.Minute, OffHoursTTL: 24 * time.Hour}, market, clock.Now, logger.NewNop())
	require.NoError(t, err)
	opts := dto.SnapshotOptions{Bounds: dto.DefaultBounds(), ExcludeST: true, DropSuspended: true}
	return NewMarketDataService(repo, c, market, newTestRetrier(3), opts, clock.Now, logger.NewNop())
}

func TestMarketDataService_CacheFreshness(t *testing.T) {
	repo := &fakeMarketRepo{rows: sampleRows()}
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	svc := newTestMarketData(t, repo, clock, true)
	ctx := context.Background()

	snap, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.snapshotCalls)
	require.Len(t, snap.Rows, 1, "ST, suspended and invalid rows are dropped")
	assert.Equal(t, "600000", snap.Rows[0].Symbol)

	clock.Advance(4 * time.Minute)
	_, err = svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.snapshotCalls, "fresh read does not call the provider")

	clock.Advance(2 * time.Minute)
	_, err = svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.snapshotCalls, "expired read refetches exactly once")
}

func TestMarketDataService_KeepsZeroVolumeWhenClosed(t *testing.T) {
	repo := &fakeMarketRepo{rows: sampleRows()}
	clock := newTestClock(time.Date(2024, 3, 5, 18, 0, 0, 0, shanghai))
	svc := newTestMarketData(t, repo, clock, false)

	snap, err := svc.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Rows, 2)
}

func TestMarketDataService_RetriesThenFails(t *testing.T) {
	repo := &fakeMarketRepo{snapshotErr: errors.New("connection reset")}
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	svc := newTestMarketData(t, repo, clock, true)

	_, err := svc.GetSnapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, repo.snapshotCalls)
	assert.ErrorContains(t, err, "connection reset")
}

func TestMarketDataService_AllRowsInvalid(t *testing.T) {
	repo := &fakeMarketRepo{rows: []dto.InstrumentRow{{Symbol: "x", Name: "x", Price: -5}}}
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	svc := newTestMarketData(t, repo, clock, true)

	_, err := svc.GetSnapshot(context.Background())
	assert.Error(t, err)

	_, err = svc.SnapshotStatus()
	assert.ErrorIs(t, err, ErrNoSnapshot, "empty snapshots are never cached")
}

func TestMarketDataService_SnapshotStatus(t *testing.T) {
	repo := &fakeMarketRepo{rows: sampleRows()}
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	svc := newTestMarketData(t, repo, clock, true)

	_, err := svc.SnapshotStatus()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.GetSnapshot(context.Background())
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	status, err := svc.SnapshotStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.Rows)
	assert.Equal(t, int64(600), status.AgeSeconds)
	assert.True(t, status.Stale)
	assert.True(t, status.MarketOpen)
	assert.Equal(t, 1, status.Breadth.Up)
	assert.Equal(t, dto.TemperatureScorching, status.Sentiment.Temperature.Level)
	assert.Equal(t, 6.0, status.Sentiment.MedianChange)
}
