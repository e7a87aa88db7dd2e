package strategy

import "golang-stock-sentinel/internal/pipeline/dto"

// Accumulation finds modest gainers with unusually active turnover.
type Accumulation struct {
	ChangePct   Range
	MinTurnover float64
}

// NewAccumulation returns the accumulation rule set with its standard thresholds.
func NewAccumulation() *Accumulation {
	return &Accumulation{
		ChangePct:   Range{Min: 2, Max: 5},
		MinTurnover: 6,
	}
}

func (s *Accumulation) GetType() dto.Strategy {
	return dto.StrategyAccumulation
}

func (s *Accumulation) Scan(snapshot *dto.Snapshot, limit int) []dto.Candidate {
	matches := filter(snapshot, dto.StrategyAccumulation, func(r dto.InstrumentRow) bool {
		return s.ChangePct.contains(r.ChangePct) && r.Turnover > s.MinTurnover
	})
	return rankAndTruncate(matches, byTurnover, limit)
}
