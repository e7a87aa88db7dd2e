package strategy

import (
	"sort"

	"golang-stock-sentinel/internal/pipeline/dto"
)

// ScreeningStrategy is a stateless rule set evaluated against a snapshot.
type ScreeningStrategy interface {
	Scan(snapshot *dto.Snapshot, limit int) []dto.Candidate
	GetType() dto.Strategy
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// rankAndTruncate sorts by key descending, keeping input order for ties, then keeps the top limit.
func rankAndTruncate(candidates []dto.Candidate, key func(dto.Candidate) float64, limit int) []dto.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return key(candidates[i]) > key(candidates[j])
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func filter(snapshot *dto.Snapshot, strategy dto.Strategy, keep func(dto.InstrumentRow) bool) []dto.Candidate {
	if snapshot == nil {
		return nil
	}
	var out []dto.Candidate
	for _, row := range snapshot.Rows {
		if keep(row) {
			out = append(out, dto.NewCandidate(row, strategy))
		}
	}
	return out
}

func byTurnover(c dto.Candidate) float64  { return c.Turnover }
func byChangePct(c dto.Candidate) float64 { return c.ChangePct }
