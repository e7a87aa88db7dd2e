package dto

// Strategy identifies the screening rule set that produced a candidate.
type Strategy string

const (
	StrategyBreakout      Strategy = "Breakout"
	StrategyLimitApproach Strategy = "LimitApproach"
	StrategyAccumulation  Strategy = "Accumulation"
)

// StrategyOrder is the evaluation order; it decides attribution when an instrument qualifies twice.
var StrategyOrder = []Strategy{StrategyBreakout, StrategyLimitApproach, StrategyAccumulation}

// Candidate is an instrument that passed at least one strategy filter.
type Candidate struct {
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	ChangePct   float64  `json:"change_pct"`
	Turnover    float64  `json:"turnover"`
	VolumeRatio float64  `json:"volume_ratio"`
	Volume      float64  `json:"volume"`
	MarketValue float64  `json:"market_value"`
	Strategy    Strategy `json:"strategy"`
}

// NewCandidate normalizes a snapshot row into the candidate schema.
func NewCandidate(row InstrumentRow, strategy Strategy) Candidate {
	return Candidate{
		Symbol:      row.Symbol,
		Name:        row.Name,
		Price:       row.Price,
		ChangePct:   row.ChangePct,
		Turnover:    row.Turnover,
		VolumeRatio: row.VolumeRatio,
		Volume:      row.Volume,
		MarketValue: row.MarketValue,
		Strategy:    strategy,
	}
}

// StrategyResult is one strategy's ranked output.
type StrategyResult struct {
	Strategy   Strategy    `json:"strategy"`
	Candidates []Candidate `json:"candidates"`
}
