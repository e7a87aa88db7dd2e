package strategy

import "golang-stock-sentinel/internal/pipeline/dto"

// Breakout finds mid-cap names breaking out on heavy but not frantic turnover.
type Breakout struct {
	ChangePct   Range
	Turnover    Range
	MarketValue Range
	Price       Range
}

// NewBreakout returns the breakout rule set with its standard thresholds.
func NewBreakout() *Breakout {
	return &Breakout{
		ChangePct:   Range{Min: 5, Max: 8},
		Turnover:    Range{Min: 7, Max: 15},
		MarketValue: Range{Min: 10e8, Max: 200e8},
		Price:       Range{Min: 5, Max: 2000},
	}
}

func (s *Breakout) GetType() dto.Strategy {
	return dto.StrategyBreakout
}

// Scan ranks matches by turnover, most contested first.
func (s *Breakout) Scan(snapshot *dto.Snapshot, limit int) []dto.Candidate {
	matches := filter(snapshot, dto.StrategyBreakout, func(r dto.InstrumentRow) bool {
		return s.ChangePct.contains(r.ChangePct) &&
			s.Turnover.contains(r.Turnover) &&
			s.MarketValue.contains(r.MarketValue) &&
			s.Price.contains(r.Price)
	})
	return rankAndTruncate(matches, byTurnover, limit)
}
