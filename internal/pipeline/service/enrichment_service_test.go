package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnricher(repo *fakeMarketRepo) EnrichmentService {
	clock := newTestClock(time.Date(2024, 6, 3, 2, 0, 0, 0, time.UTC))
	return NewEnrichmentService(repo, newTestRetrier(2), EnrichmentConfig{}, clock.Now, logger.NewNop())
}

func TestEnrich_ComputesIndicatorsAndLabels(t *testing.T) {
	repo := &fakeMarketRepo{
		history: map[string][]dto.DailyBar{"600000": risingBars(70, 10, 0.1, 1000)},
		sectors: map[string]string{"600000": "Banking"},
	}
	c := dto.Candidate{Symbol: "600000", Price: 20, Volume: 2500}

	e := newTestEnricher(repo).Enrich(context.Background(), c)

	assert.Equal(t, "Banking", e.Sector)
	require.NotNil(t, e.Indicators)
	ind := e.Indicators
	assert.Equal(t, 70, ind.Bars)
	// last five closes are 16.5..16.9
	assert.InDelta(t, 16.7, *ind.MA5, 1e-9)
	require.NotNil(t, ind.MA60)
	assert.InDelta(t, 1000, *ind.MA5Volume, 1e-9)
	assert.InDelta(t, 2.5, *ind.VolumeRatio, 1e-9)
	assert.Equal(t, dto.TrendBullishAligned, e.Trend)
	assert.Equal(t, dto.VolumeHeavy, e.VolumeLabel)
	assert.Contains(t, e.PositionDesc, "holding above MA5")
}

func TestEnrich_NoMA60WithShortHistory(t *testing.T) {
	repo := &fakeMarketRepo{history: map[string][]dto.DailyBar{"000001": risingBars(30, 10, 0.1, 1000)}}
	c := dto.Candidate{Symbol: "000001", Price: 20}

	e := newTestEnricher(repo).Enrich(context.Background(), c)

	require.NotNil(t, e.Indicators)
	assert.Nil(t, e.Indicators.MA60)
	assert.Equal(t, dto.TrendMidTermUp, e.Trend)
	assert.Equal(t, dto.VolumeNormal, e.VolumeLabel, "falls back to the last bar volume")
	assert.Equal(t, dto.LabelUnknown, e.Sector)
}

func TestEnrich_InsufficientHistory(t *testing.T) {
	repo := &fakeMarketRepo{history: map[string][]dto.DailyBar{"000001": risingBars(19, 10, 0.1, 1000)}}

	e := newTestEnricher(repo).Enrich(context.Background(), dto.Candidate{Symbol: "000001", Price: 12})

	assert.Nil(t, e.Indicators)
	assert.Equal(t, dto.LabelUnknown, e.Trend)
	assert.Equal(t, dto.LabelUnknown, e.VolumeLabel)
}

func TestEnrich_HistoryFailureDegrades(t *testing.T) {
	repo := &fakeMarketRepo{historyErr: errors.New("timeout"), sectorErr: errors.New("timeout")}

	e := newTestEnricher(repo).Enrich(context.Background(), dto.Candidate{Symbol: "000001", Price: 12})

	assert.Nil(t, e.Indicators)
	assert.Equal(t, dto.LabelUnknown, e.Sector)
	assert.Equal(t, dto.LabelUnknown, e.Trend)
	assert.Equal(t, 2, repo.historyCalls, "history is retried")
}

func TestEnrich_SectorIsCached(t *testing.T) {
	repo := &fakeMarketRepo{sectors: map[string]string{"600000": "Banking"}}
	enricher := newTestEnricher(repo)

	enricher.Enrich(context.Background(), dto.Candidate{Symbol: "600000"})
	enricher.Enrich(context.Background(), dto.Candidate{Symbol: "600000"})

	assert.Equal(t, 1, repo.sectorCalls)
}

func TestTrendLabel(t *testing.T) {
	p := utils.ToPointer[float64]
	tests := []struct {
		name string
		ind  *dto.Indicators
		want string
	}{
		{name: "aligned", ind: &dto.Indicators{Close: 10, MA5: p(9), MA20: p(8), MA60: p(7)}, want: dto.TrendBullishAligned},
		{name: "below ma60", ind: &dto.Indicators{Close: 10, MA5: p(9), MA20: p(8), MA60: p(11)}, want: dto.TrendMidTermUp},
		{name: "short term", ind: &dto.Indicators{Close: 10, MA5: p(9), MA20: p(12)}, want: dto.TrendShortTermStrong},
		{name: "weak", ind: &dto.Indicators{Close: 10, MA5: p(11), MA20: p(12)}, want: dto.TrendWeak},
		{name: "missing", ind: nil, want: dto.LabelUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendLabel(tt.ind))
		})
	}
}

func TestVolumeLabel(t *testing.T) {
	p := utils.ToPointer[float64]
	assert.Equal(t, dto.VolumeHeavy, VolumeLabel(p(2.0)))
	assert.Equal(t, dto.VolumeModerate, VolumeLabel(p(1.2)))
	assert.Equal(t, dto.VolumeNormal, VolumeLabel(p(0.8)))
	assert.Equal(t, dto.VolumeThin, VolumeLabel(p(0.79)))
	assert.Equal(t, dto.LabelUnknown, VolumeLabel(nil))
}
