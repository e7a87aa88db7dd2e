package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/retry"
	"golang-stock-sentinel/pkg/sqlite"
	"golang-stock-sentinel/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var shanghai = utils.MustLoadLocation(utils.MarketTimezone)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.NewDB(sqlite.Config{Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db.DB))
	return db.DB
}

func newTestRetrier(attempts int) *retry.Executor {
	return retry.NewExecutor(retry.Policy{MaxAttempts: attempts, Delay: time.Millisecond}, logger.NewNop())
}

type stubMarket struct{ open bool }

func (m stubMarket) IsOpen(time.Time) bool        { return m.open }
func (m stubMarket) LastOpen(time.Time) time.Time { return time.Time{} }

// fakeMarketRepo serves canned market data and counts calls.
type fakeMarketRepo struct {
	mu            sync.Mutex
	rows          []dto.InstrumentRow
	snapshotErr   error
	snapshotCalls int
	history       map[string][]dto.DailyBar
	historyErr    error
	historyCalls  int
	sectors       map[string]string
	sectorErr     error
	sectorCalls   int
}

func (f *fakeMarketRepo) FetchSnapshot(ctx context.Context) ([]dto.InstrumentRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotCalls++
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return append([]dto.InstrumentRow(nil), f.rows...), nil
}

func (f *fakeMarketRepo) FetchHistory(ctx context.Context, symbol string, start time.Time) ([]dto.DailyBar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[symbol], nil
}

func (f *fakeMarketRepo) FetchSectorInfo(ctx context.Context, symbol string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sectorCalls++
	if f.sectorErr != nil {
		return "", f.sectorErr
	}
	s, ok := f.sectors[symbol]
	if !ok {
		return "", errors.New("no sector")
	}
	return s, nil
}

// fakeAI replies per symbol; symbols without a reply fail.
type fakeAI struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   int
}

func (f *fakeAI) ScoreCandidate(ctx context.Context, prompt dto.ScoringPrompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	reply, ok := f.replies[prompt.Symbol]
	if !ok {
		return "", errors.New("scoring service unavailable")
	}
	return reply, nil
}

// risingBars builds n oldest-first bars closing at start, start+step, ...
func risingBars(n int, start, step, volume float64) []dto.DailyBar {
	bars := make([]dto.DailyBar, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = dto.DailyBar{Date: day.AddDate(0, 0, i), Open: c, Close: c, High: c, Low: c, Volume: volume}
	}
	return bars
}
