package strategy

import "golang-stock-sentinel/internal/pipeline/dto"

// LimitApproach finds names closing in on the daily price limit.
type LimitApproach struct {
	ChangePct   Range
	MinTurnover float64
}

// NewLimitApproach returns the limit-approach rule set with its standard thresholds.
func NewLimitApproach() *LimitApproach {
	return &LimitApproach{
		ChangePct:   Range{Min: 8, Max: 20},
		MinTurnover: 8,
	}
}

func (s *LimitApproach) GetType() dto.Strategy {
	return dto.StrategyLimitApproach
}

// Scan ranks matches by change, closest to the limit first.
func (s *LimitApproach) Scan(snapshot *dto.Snapshot, limit int) []dto.Candidate {
	matches := filter(snapshot, dto.StrategyLimitApproach, func(r dto.InstrumentRow) bool {
		return s.ChangePct.contains(r.ChangePct) && r.Turnover > s.MinTurnover
	})
	return rankAndTruncate(matches, byChangePct, limit)
}
