package repository

import (
	"testing"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestBuildScoringPrompt(t *testing.T) {
	c := dto.Candidate{Symbol: "600000", Name: "Pufa Bank", Price: 20, ChangePct: 6, Turnover: 10, VolumeRatio: 1.5, MarketValue: 50e8, Strategy: dto.StrategyBreakout}
	e := dto.Enrichment{
		Sector:       "Banking",
		Indicators:   &dto.Indicators{MA5: utils.ToPointer(19.5), MA20: utils.ToPointer(18.0)},
		Trend:        dto.TrendMidTermUp,
		VolumeLabel:  dto.VolumeModerate,
		PositionDesc: "above MA5, above MA20",
	}

	p := BuildScoringPrompt(c, e)

	assert.Equal(t, "600000", p.Symbol)
	assert.NotEmpty(t, p.System)
	assert.Contains(t, p.User, "Pufa Bank (600000)")
	assert.Contains(t, p.User, "Sector: Banking")
	assert.Contains(t, p.User, "Breakout")
	assert.Contains(t, p.User, "MA5: 19.50")
	assert.Contains(t, p.User, "MA60: n/a")
	assert.Contains(t, p.User, "Circulating market value: 50.00")
	assert.Contains(t, p.User, `"suggestion"`)
}

func TestBuildScoringPrompt_NoIndicators(t *testing.T) {
	p := BuildScoringPrompt(dto.Candidate{Symbol: "1", Name: "x", Strategy: "Custom"}, dto.Enrichment{Sector: "unknown", Trend: "unknown", VolumeLabel: "unknown"})
	assert.Contains(t, p.User, "Not enough history")
	assert.Contains(t, p.User, "Screen: Custom")
}
