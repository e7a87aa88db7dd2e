package service

import (
	"fmt"
	"testing"

	"golang-stock-sentinel/internal/pipeline/dto"

	"github.com/stretchr/testify/assert"
)

func cand(symbol string, s dto.Strategy) dto.Candidate {
	return dto.Candidate{Symbol: symbol, Name: "N" + symbol, Strategy: s, Price: 10}
}

func TestAggregate_FirstSeenWins(t *testing.T) {
	outputs := [][]dto.Candidate{
		{cand("A", dto.StrategyBreakout), cand("B", dto.StrategyBreakout)},
		{cand("B", dto.StrategyLimitApproach), cand("C", dto.StrategyLimitApproach)},
		{cand("A", dto.StrategyAccumulation), cand("D", dto.StrategyAccumulation)},
	}

	got := Aggregate(outputs, 30)

	assert.Equal(t, []dto.Candidate{
		cand("A", dto.StrategyBreakout),
		cand("B", dto.StrategyBreakout),
		cand("C", dto.StrategyLimitApproach),
		cand("D", dto.StrategyAccumulation),
	}, got)
}

func TestAggregate_Idempotent(t *testing.T) {
	outputs := [][]dto.Candidate{
		{cand("A", dto.StrategyBreakout), cand("A", dto.StrategyBreakout)},
		{cand("B", dto.StrategyLimitApproach), cand("A", dto.StrategyLimitApproach)},
	}

	once := Aggregate(outputs, 30)
	twice := Aggregate([][]dto.Candidate{once}, 30)

	assert.Equal(t, once, twice)
}

func TestAggregate_CapsBatch(t *testing.T) {
	var list []dto.Candidate
	for i := 0; i < 50; i++ {
		list = append(list, cand(fmt.Sprintf("S%02d", i), dto.StrategyBreakout))
	}

	assert.Len(t, Aggregate([][]dto.Candidate{list}, 5), 5)
	assert.Len(t, Aggregate([][]dto.Candidate{list}, 0), DefaultMaxBatch)
	assert.Empty(t, Aggregate(nil, 5))
}
