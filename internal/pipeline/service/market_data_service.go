package service

import (
	"context"
	"errors"
	"fmt"

	"golang-stock-sentinel/internal/pipeline/cache"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/retry"
	"golang-stock-sentinel/pkg/utils"
)

// ErrNoSnapshot is returned by SnapshotStatus when nothing has been cached yet.
var ErrNoSnapshot = errors.New("no snapshot cached")

// MarketDataService provides validated market snapshots, served from cache when fresh.
type MarketDataService interface {
	GetSnapshot(ctx context.Context) (*dto.Snapshot, error)
	SnapshotStatus() (*dto.SnapshotStatusResponse, error)
}

// NewMarketDataService creates a new MarketDataService.
func NewMarketDataService(
	repo repository.MarketDataRepository,
	snapshotCache *cache.SnapshotCache,
	market cache.MarketClock,
	retrier *retry.Executor,
	opts dto.SnapshotOptions,
	now utils.Clock,
	log *logger.Logger,
) MarketDataService {
	return &marketDataService{
		repo:    repo,
		cache:   snapshotCache,
		market:  market,
		retrier: retrier,
		opts:    opts,
		now:     now,
		logger:  log,
	}
}

type marketDataService struct {
	repo    repository.MarketDataRepository
	cache   *cache.SnapshotCache
	market  cache.MarketClock
	retrier *retry.Executor
	opts    dto.SnapshotOptions
	now     utils.Clock
	logger  *logger.Logger
}

// GetSnapshot returns the cached snapshot when fresh, otherwise fetches, validates and caches a new one.
func (s *marketDataService) GetSnapshot(ctx context.Context) (*dto.Snapshot, error) {
	if snap, ok := s.cache.Get(common.SnapshotCacheKey); ok {
		s.logger.DebugContext(ctx, "Using cached snapshot", logger.IntField("rows", len(snap.Rows)))
		return snap, nil
	}

	rows, err := retry.Run(ctx, s.retrier, "fetch_snapshot", s.repo.FetchSnapshot)
	if err != nil {
		return nil, err
	}

	now := s.now()
	opts := s.opts
	// Rows without volume are only meaningful as suspensions while the market trades.
	opts.DropSuspended = opts.DropSuspended && s.market.IsOpen(now)

	snap, dropped := dto.NewSnapshot(rows, now, opts)
	if dropped.Total() > 0 {
		s.logger.InfoContext(ctx, "Dropped snapshot rows",
			logger.IntField("invalid", dropped.Invalid),
			logger.IntField("st", dropped.ST),
			logger.IntField("suspended", dropped.Suspended),
		)
	}
	if snap.IsEmpty() {
		return nil, fmt.Errorf("snapshot has no valid rows out of %d fetched", len(rows))
	}

	if err := s.cache.Set(common.SnapshotCacheKey, snap); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache snapshot", logger.ErrorField(err))
	}

	s.logger.InfoContext(ctx, "Fetched market snapshot", logger.IntField("rows", len(snap.Rows)))
	return snap, nil
}

// SnapshotStatus describes the newest cached snapshot regardless of its age.
func (s *marketDataService) SnapshotStatus() (*dto.SnapshotStatusResponse, error) {
	snap, storedAt, ok := s.cache.Peek(common.SnapshotCacheKey)
	if !ok {
		return nil, ErrNoSnapshot
	}
	now := s.now()
	return &dto.SnapshotStatusResponse{
		Rows:       len(snap.Rows),
		FetchedAt:  snap.FetchedAt,
		AgeSeconds: int64(now.Sub(storedAt).Seconds()),
		Stale:      !s.cache.IsFresh(storedAt),
		MarketOpen: s.market.IsOpen(now),
		Breadth:    snap.Breadth(),
		Sentiment:  snap.Sentiment(),
	}, nil
}
