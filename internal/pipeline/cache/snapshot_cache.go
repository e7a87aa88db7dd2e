package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

// ErrEmptySnapshot is returned when an empty snapshot is offered to the cache.
var ErrEmptySnapshot = errors.New("refusing to cache empty snapshot")

// MarketClock reports whether the market is trading at an instant and when the latest session opened.
type MarketClock interface {
	IsOpen(t time.Time) bool
	LastOpen(t time.Time) time.Time
}

// Config holds snapshot cache settings.
type Config struct {
	Dir         string
	TTL         time.Duration
	OffHoursTTL time.Duration
}

// SnapshotCache keeps market snapshots in memory and on disk.
//
// While the market is open an entry is fresh for TTL. While it is closed the cache serves a
// separate off-hours copy for OffHoursTTL, provided it was stored after the latest session opened.
type SnapshotCache struct {
	dir         string
	ttl         time.Duration
	offHoursTTL time.Duration
	memory      *gocache.Cache
	market      MarketClock
	now         utils.Clock
	logger      *logger.Logger
}

type entry struct {
	Snapshot *dto.Snapshot `json:"snapshot"`
	StoredAt time.Time     `json:"stored_at"`
}

// NewSnapshotCache creates the cache directory and returns a ready cache.
func NewSnapshotCache(cfg Config, market MarketClock, now utils.Clock, log *logger.Logger) (*SnapshotCache, error) {
	if cfg.TTL <= 0 || cfg.OffHoursTTL <= 0 {
		return nil, fmt.Errorf("cache ttl values must be positive")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if now == nil {
		now = utils.TimeNowCST
	}
	return &SnapshotCache{
		dir:         cfg.Dir,
		ttl:         cfg.TTL,
		offHoursTTL: cfg.OffHoursTTL,
		memory:      gocache.New(cfg.TTL, 2*cfg.TTL),
		market:      market,
		now:         now,
		logger:      log,
	}, nil
}

// Get returns a fresh snapshot for key, or false when a fetch is needed.
func (c *SnapshotCache) Get(key string) (*dto.Snapshot, bool) {
	now := c.now()

	if !c.market.IsOpen(now) {
		if e, ok := c.readFile(c.offHoursPath(key)); ok && c.offHoursFresh(now, e.StoredAt) {
			c.logger.Debug("Serving off-hours snapshot", logger.StringField("key", key), logger.Field("stored_at", e.StoredAt))
			return e.Snapshot, true
		}
		return nil, false
	}

	if v, found := c.memory.Get(key); found {
		e := v.(*entry)
		if now.Sub(e.StoredAt) < c.ttl {
			return e.Snapshot, true
		}
		c.memory.Delete(key)
	}

	if e, ok := c.readFile(c.livePath(key)); ok && now.Sub(e.StoredAt) < c.ttl {
		c.memory.Set(key, e, c.ttl)
		return e.Snapshot, true
	}

	return nil, false
}

// Peek returns the most recent snapshot for key regardless of freshness, with the time it was stored.
func (c *SnapshotCache) Peek(key string) (*dto.Snapshot, time.Time, bool) {
	var newest *entry
	consider := func(e *entry) {
		if e != nil && (newest == nil || e.StoredAt.After(newest.StoredAt)) {
			newest = e
		}
	}

	if v, found := c.memory.Get(key); found {
		consider(v.(*entry))
	}
	if e, ok := c.readFile(c.livePath(key)); ok {
		consider(e)
	}
	if e, ok := c.readFile(c.offHoursPath(key)); ok {
		consider(e)
	}

	if newest == nil {
		return nil, time.Time{}, false
	}
	return newest.Snapshot, newest.StoredAt, true
}

// IsFresh reports whether a snapshot stored at storedAt would still be served by Get.
func (c *SnapshotCache) IsFresh(storedAt time.Time) bool {
	now := c.now()
	if c.market.IsOpen(now) {
		return now.Sub(storedAt) < c.ttl
	}
	return c.offHoursFresh(now, storedAt)
}

// offHoursFresh rejects copies older than OffHoursTTL or taken before the latest session opened.
func (c *SnapshotCache) offHoursFresh(now, storedAt time.Time) bool {
	if now.Sub(storedAt) >= c.offHoursTTL {
		return false
	}
	return !storedAt.Before(c.market.LastOpen(now))
}

// Set stores a snapshot in memory and writes both the live and off-hours copies. Empty snapshots are rejected.
func (c *SnapshotCache) Set(key string, snapshot *dto.Snapshot) error {
	if snapshot.IsEmpty() {
		return ErrEmptySnapshot
	}

	now := c.now()
	e := &entry{Snapshot: snapshot, StoredAt: now}
	c.memory.Set(key, e, c.ttl)

	if err := c.writeFile(c.livePath(key), e); err != nil {
		return err
	}
	return c.writeFile(c.offHoursPath(key), e)
}

// Clear drops every cached snapshot from memory and disk.
func (c *SnapshotCache) Clear() error {
	c.memory.Flush()

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list cache files: %w", err)
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache file %s: %w", f, err)
		}
	}
	return nil
}

func (c *SnapshotCache) livePath(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func (c *SnapshotCache) offHoursPath(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".offhours.json")
}

func (c *SnapshotCache) readFile(path string) (*entry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to read snapshot cache file", logger.StringField("path", path), logger.ErrorField(err))
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Snapshot.IsEmpty() {
		c.logger.Warn("Discarding degenerate snapshot cache file", logger.StringField("path", path), logger.ErrorField(err))
		_ = os.Remove(path)
		return nil, false
	}
	return &e, true
}

func (c *SnapshotCache) writeFile(path string, e *entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}
