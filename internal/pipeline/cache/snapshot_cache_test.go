package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/markethours"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarket struct{ open bool }

func (m *stubMarket) IsOpen(time.Time) bool        { return m.open }
func (m *stubMarket) LastOpen(time.Time) time.Time { return time.Time{} }

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func sampleSnapshot(at time.Time) *dto.Snapshot {
	return &dto.Snapshot{
		Rows:      []dto.InstrumentRow{{Symbol: "600000", Name: "Bank", Price: 10, ChangePct: 1, Turnover: 2, VolumeRatio: 1, MarketValue: 1e10, Volume: 1000}},
		FetchedAt: at,
	}
}

func newTestCache(t *testing.T, dir string, market *stubMarket, clock *fakeClock) *SnapshotCache {
	t.Helper()
	c, err := NewSnapshotCache(Config{Dir: dir, TTL: 5 * time.Minute, OffHoursTTL: 24 * time.Hour}, market, clock.Now, logger.NewNop())
	require.NoError(t, err)
	return c
}

func TestSnapshotCache_TradingHoursTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	market := &stubMarket{open: true}
	c := newTestCache(t, t.TempDir(), market, clock)

	_, ok := c.Get("snap")
	assert.False(t, ok)

	require.NoError(t, c.Set("snap", sampleSnapshot(clock.t)))

	clock.Advance(4 * time.Minute)
	got, ok := c.Get("snap")
	require.True(t, ok)
	assert.Len(t, got.Rows, 1)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("snap")
	assert.False(t, ok, "entry older than ttl must not be served during trading hours")
}

func TestSnapshotCache_OffHoursServesDayOldCopy(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 5, 16, 0, 0, 0, time.UTC)}
	market := &stubMarket{open: false}
	c := newTestCache(t, t.TempDir(), market, clock)

	require.NoError(t, c.Set("snap", sampleSnapshot(clock.t)))

	clock.Advance(20 * time.Hour)
	_, ok := c.Get("snap")
	assert.True(t, ok)

	clock.Advance(5 * time.Hour)
	_, ok = c.Get("snap")
	assert.False(t, ok)
}

func TestSnapshotCache_OffHoursCopyFollowsLatestSession(t *testing.T) {
	loc := utils.MustLoadLocation(utils.MarketTimezone)
	cal, err := markethours.NewCalendar(loc, nil, nil)
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2024, 3, 7, 20, 0, 0, 0, loc)}
	c, err := NewSnapshotCache(Config{Dir: t.TempDir(), TTL: 5 * time.Minute, OffHoursTTL: 24 * time.Hour}, cal, clock.Now, logger.NewNop())
	require.NoError(t, err)

	thursday := sampleSnapshot(clock.t)
	thursday.Rows[0].Price = 10
	require.NoError(t, c.Set("snap", thursday))

	clock.t = time.Date(2024, 3, 8, 14, 55, 0, 0, loc)
	_, ok := c.Get("snap")
	assert.False(t, ok, "thursday copy is stale once friday trades")

	friday := sampleSnapshot(clock.t)
	friday.Rows[0].Price = 12
	require.NoError(t, c.Set("snap", friday))

	clock.t = time.Date(2024, 3, 8, 15, 30, 0, 0, loc)
	got, ok := c.Get("snap")
	require.True(t, ok)
	assert.Equal(t, 12.0, got.Rows[0].Price)

	_, storedAt, ok := c.Peek("snap")
	require.True(t, ok)
	assert.True(t, c.IsFresh(storedAt))
}

func TestSnapshotCache_OffHoursRejectsCopyFromBeforeSession(t *testing.T) {
	loc := utils.MustLoadLocation(utils.MarketTimezone)
	cal, err := markethours.NewCalendar(loc, nil, nil)
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2024, 3, 7, 20, 0, 0, 0, loc)}
	c, err := NewSnapshotCache(Config{Dir: t.TempDir(), TTL: 5 * time.Minute, OffHoursTTL: 24 * time.Hour}, cal, clock.Now, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Set("snap", sampleSnapshot(clock.t)))

	clock.t = time.Date(2024, 3, 7, 23, 0, 0, 0, loc)
	_, ok := c.Get("snap")
	assert.True(t, ok)

	clock.t = time.Date(2024, 3, 8, 15, 30, 0, 0, loc)
	_, ok = c.Get("snap")
	assert.False(t, ok, "a copy from before friday's session must be refetched")

	_, storedAt, ok := c.Peek("snap")
	require.True(t, ok)
	assert.False(t, c.IsFresh(storedAt))
}

func TestSnapshotCache_RejectsEmptySnapshot(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newTestCache(t, t.TempDir(), &stubMarket{open: true}, clock)

	assert.ErrorIs(t, c.Set("snap", &dto.Snapshot{}), ErrEmptySnapshot)
	assert.ErrorIs(t, c.Set("snap", nil), ErrEmptySnapshot)

	_, ok := c.Get("snap")
	assert.False(t, ok)
}

func TestSnapshotCache_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	market := &stubMarket{open: true}

	first := newTestCache(t, dir, market, clock)
	require.NoError(t, first.Set("snap", sampleSnapshot(clock.t)))

	clock.Advance(time.Minute)
	second := newTestCache(t, dir, market, clock)
	got, ok := second.Get("snap")
	require.True(t, ok)
	assert.Equal(t, "600000", got.Rows[0].Symbol)
}

func TestSnapshotCache_DegenerateFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	c := newTestCache(t, dir, &stubMarket{open: true}, clock)

	path := filepath.Join(dir, "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"snapshot":{"rows":[]},"stored_at":"2024-03-05T10:00:00Z"}`), 0o644))

	_, ok := c.Get("snap")
	assert.False(t, ok)
	assert.NoFileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	_, ok = c.Get("snap")
	assert.False(t, ok)
}

func TestSnapshotCache_PeekAndClear(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	market := &stubMarket{open: true}
	c := newTestCache(t, t.TempDir(), market, clock)

	_, _, ok := c.Peek("snap")
	assert.False(t, ok)

	require.NoError(t, c.Set("snap", sampleSnapshot(clock.t)))
	storedAt := clock.t

	clock.Advance(time.Hour)
	snap, at, ok := c.Peek("snap")
	require.True(t, ok)
	assert.Equal(t, storedAt, at.UTC())
	assert.Len(t, snap.Rows, 1)
	assert.False(t, c.IsFresh(at))

	require.NoError(t, c.Clear())
	_, _, ok = c.Peek("snap")
	assert.False(t, ok)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "a_b_c-1", sanitizeKey("a/b.c-1"))
}
