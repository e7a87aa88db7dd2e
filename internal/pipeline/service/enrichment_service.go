package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/retry"
	"golang-stock-sentinel/pkg/utils"

	"github.com/markcheno/go-talib"
	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultHistoryDays    = 120
	DefaultMinHistoryBars = 20
	longMAPeriod          = 60
)

// EnrichmentConfig tunes the enrichment step.
type EnrichmentConfig struct {
	HistoryDays    int
	MinHistoryBars int
	SectorTTL      time.Duration
}

// EnrichmentService attaches sector and technical context to candidates. It never fails a candidate.
type EnrichmentService interface {
	Enrich(ctx context.Context, c dto.Candidate) dto.Enrichment
}

// NewEnrichmentService creates a new EnrichmentService.
func NewEnrichmentService(repo repository.MarketDataRepository, retrier *retry.Executor, cfg EnrichmentConfig, now utils.Clock, log *logger.Logger) EnrichmentService {
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = DefaultHistoryDays
	}
	if cfg.MinHistoryBars <= 0 {
		cfg.MinHistoryBars = DefaultMinHistoryBars
	}
	if cfg.SectorTTL <= 0 {
		cfg.SectorTTL = 24 * time.Hour
	}
	return &enrichmentService{
		repo:    repo,
		retrier: retrier,
		cfg:     cfg,
		sectors: gocache.New(cfg.SectorTTL, time.Hour),
		now:     now,
		logger:  log,
	}
}

type enrichmentService struct {
	repo    repository.MarketDataRepository
	retrier *retry.Executor
	cfg     EnrichmentConfig
	sectors *gocache.Cache
	now     utils.Clock
	logger  *logger.Logger
}

func (s *enrichmentService) Enrich(ctx context.Context, c dto.Candidate) dto.Enrichment {
	e := dto.Enrichment{
		Sector:      s.sector(ctx, c.Symbol),
		Trend:       dto.LabelUnknown,
		VolumeLabel: dto.LabelUnknown,
	}

	start := s.now().AddDate(0, 0, -s.cfg.HistoryDays)
	bars, err := retry.Run(ctx, s.retrier, "fetch_history", func(ctx context.Context) ([]dto.DailyBar, error) {
		return s.repo.FetchHistory(ctx, c.Symbol, start)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "History unavailable, continuing without indicators", logger.StringField("symbol", c.Symbol), logger.ErrorField(err))
		return e
	}
	if len(bars) < s.cfg.MinHistoryBars {
		s.logger.DebugContext(ctx, "Not enough history for indicators", logger.StringField("symbol", c.Symbol), logger.IntField("bars", len(bars)))
		return e
	}

	ind := ComputeIndicators(c, bars)
	e.Indicators = ind
	e.Trend = TrendLabel(ind)
	e.VolumeLabel = VolumeLabel(ind.VolumeRatio)
	e.PositionDesc = PositionDesc(ind)
	return e
}

func (s *enrichmentService) sector(ctx context.Context, symbol string) string {
	if v, ok := s.sectors.Get(symbol); ok {
		return v.(string)
	}
	sector, err := retry.Run(ctx, s.retrier, "fetch_sector", func(ctx context.Context) (string, error) {
		return s.repo.FetchSectorInfo(ctx, symbol)
	})
	if err != nil || strings.TrimSpace(sector) == "" {
		s.logger.WarnContext(ctx, "Sector lookup failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.LabelUnknown
	}
	s.sectors.Set(symbol, sector, gocache.DefaultExpiration)
	return sector
}

// ComputeIndicators derives moving averages from oldest-first bars. MA60 is only set with 60 or more bars.
func ComputeIndicators(c dto.Candidate, bars []dto.DailyBar) *dto.Indicators {
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	last := bars[len(bars)-1]
	ind := &dto.Indicators{Close: c.Price, Bars: len(bars)}
	if ind.Close <= 0 {
		ind.Close = last.Close
	}

	ind.MA5 = lastSma(closes, 5)
	ind.MA10 = lastSma(closes, 10)
	ind.MA20 = lastSma(closes, 20)
	ind.MA60 = lastSma(closes, longMAPeriod)
	ind.MA5Volume = lastSma(volumes, 5)

	current := c.Volume
	if current <= 0 {
		current = last.Volume
	}
	if ind.MA5Volume != nil && *ind.MA5Volume > 0 {
		ind.VolumeRatio = utils.ToPointer(current / *ind.MA5Volume)
	}
	return ind
}

func lastSma(series []float64, period int) *float64 {
	if len(series) < period {
		return nil
	}
	sma := talib.Sma(series, period)
	return utils.ToPointer(sma[len(sma)-1])
}

// TrendLabel classifies the close against its moving averages.
func TrendLabel(ind *dto.Indicators) string {
	if ind == nil || ind.MA5 == nil || ind.MA20 == nil {
		return dto.LabelUnknown
	}
	above := func(ma *float64) bool { return ma != nil && ind.Close > *ma }

	switch {
	case above(ind.MA5) && above(ind.MA20) && above(ind.MA60):
		return dto.TrendBullishAligned
	case above(ind.MA5) && above(ind.MA20):
		return dto.TrendMidTermUp
	case above(ind.MA5):
		return dto.TrendShortTermStrong
	default:
		return dto.TrendWeak
	}
}

// VolumeLabel classifies a volume ratio against the five-day average.
func VolumeLabel(ratio *float64) string {
	if ratio == nil {
		return dto.LabelUnknown
	}
	switch r := *ratio; {
	case r >= 2.0:
		return dto.VolumeHeavy
	case r >= 1.2:
		return dto.VolumeModerate
	case r < 0.8:
		return dto.VolumeThin
	default:
		return dto.VolumeNormal
	}
}

// PositionDesc summarizes where the close sits relative to the moving averages.
func PositionDesc(ind *dto.Indicators) string {
	if ind == nil {
		return ""
	}
	var parts []string
	if ind.MA5 != nil {
		if ind.Close > *ind.MA5 {
			parts = append(parts, fmt.Sprintf("holding above MA5 (%.2f)", *ind.MA5))
		} else {
			parts = append(parts, fmt.Sprintf("below MA5 (%.2f)", *ind.MA5))
		}
	}
	if ind.MA20 != nil {
		if ind.Close > *ind.MA20 {
			parts = append(parts, "above the mid-term average")
		} else {
			parts = append(parts, "capped by MA20")
		}
	}
	if ind.MA60 != nil {
		if ind.Close > *ind.MA60 {
			parts = append(parts, "long-term trend up")
		} else {
			parts = append(parts, "in a long-term downtrend")
		}
	}
	if len(parts) == 0 {
		return "position unclear"
	}
	return strings.Join(parts, "; ")
}
