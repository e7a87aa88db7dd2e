package strategy

import "golang-stock-sentinel/internal/pipeline/dto"

// Scanner runs every screening strategy against a snapshot in a fixed order.
type Scanner struct {
	strategies []ScreeningStrategy
	topN       int
}

// NewScanner builds a scanner. With no strategies it uses Breakout, LimitApproach and Accumulation, in that order.
func NewScanner(topN int, strategies ...ScreeningStrategy) *Scanner {
	if len(strategies) == 0 {
		strategies = []ScreeningStrategy{NewBreakout(), NewLimitApproach(), NewAccumulation()}
	}
	if topN <= 0 {
		topN = 10
	}
	return &Scanner{strategies: strategies, topN: topN}
}

// Scan returns one ranked result per strategy, in evaluation order.
func (s *Scanner) Scan(snapshot *dto.Snapshot) []dto.StrategyResult {
	results := make([]dto.StrategyResult, 0, len(s.strategies))
	for _, st := range s.strategies {
		results = append(results, dto.StrategyResult{
			Strategy:   st.GetType(),
			Candidates: st.Scan(snapshot, s.topN),
		})
	}
	return results
}
