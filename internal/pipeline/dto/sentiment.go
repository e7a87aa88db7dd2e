package dto

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TemperatureLevel classifies the share of advancing instruments.
type TemperatureLevel string

const (
	TemperatureScorching TemperatureLevel = "scorching"
	TemperatureWarm      TemperatureLevel = "warm"
	TemperatureCold      TemperatureLevel = "cold"
	TemperatureFrozen    TemperatureLevel = "frozen"
)

// Temperature thresholds on the advancing percentage.
const (
	TemperatureScorchingMin = 80.0
	TemperatureWarmMin      = 50.0
	TemperatureColdMin      = 20.0
)

// MarketTemperature is the advancing percentage (0-100) and its level.
type MarketTemperature struct {
	Score float64          `json:"score"`
	Level TemperatureLevel `json:"level"`
}

// WidthBucket counts instruments beyond a change threshold.
type WidthBucket struct {
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// MarketWidth is the distribution of moves across fixed change thresholds.
type MarketWidth struct {
	Above7      WidthBucket `json:"gt_7"`
	Above5      WidthBucket `json:"gt_5"`
	Above3      WidthBucket `json:"gt_3"`
	Above0      WidthBucket `json:"gt_0"`
	Below0      WidthBucket `json:"lt_0"`
	BelowMinus3 WidthBucket `json:"lt_3"`
	BelowMinus5 WidthBucket `json:"lt_5"`
	BelowMinus7 WidthBucket `json:"lt_7"`
}

// MarketSentiment is the macro read of a snapshot.
type MarketSentiment struct {
	Temperature   MarketTemperature `json:"temperature"`
	UpRatio       float64           `json:"up_ratio"`
	LimitUpRate   float64           `json:"limit_up_rate"`
	LimitDownRate float64           `json:"limit_down_rate"`
	MedianChange  float64           `json:"median_change"`
	MeanChange    float64           `json:"mean_change"`
	Width         MarketWidth       `json:"width"`
}

// ClassifyTemperature maps an advancing percentage onto a level.
func ClassifyTemperature(score float64) TemperatureLevel {
	switch {
	case score >= TemperatureScorchingMin:
		return TemperatureScorching
	case score >= TemperatureWarmMin:
		return TemperatureWarm
	case score >= TemperatureColdMin:
		return TemperatureCold
	default:
		return TemperatureFrozen
	}
}

// Sentiment computes temperature, change statistics and width for the snapshot.
// An empty snapshot reads as frozen with zeroed statistics.
func (s *Snapshot) Sentiment() MarketSentiment {
	out := MarketSentiment{Temperature: MarketTemperature{Level: TemperatureFrozen}}
	if s.IsEmpty() {
		return out
	}

	b := s.Breadth()
	total := float64(b.Total)
	pct := func(n int) float64 { return round2(float64(n) / total * 100) }

	score := pct(b.Up)
	out.Temperature = MarketTemperature{Score: score, Level: ClassifyTemperature(score)}
	out.UpRatio = score
	out.LimitUpRate = pct(b.LimitUp)
	out.LimitDownRate = pct(b.LimitDown)

	changes := make([]float64, 0, len(s.Rows))
	var w [8]int
	for _, r := range s.Rows {
		c := r.ChangePct
		changes = append(changes, c)
		for i, hit := range []bool{c > 7, c > 5, c > 3, c > 0, c < 0, c < -3, c < -5, c < -7} {
			if hit {
				w[i]++
			}
		}
	}
	bucket := func(n int) WidthBucket { return WidthBucket{Count: n, Pct: pct(n)} }
	out.Width = MarketWidth{
		Above7: bucket(w[0]), Above5: bucket(w[1]), Above3: bucket(w[2]), Above0: bucket(w[3]),
		Below0: bucket(w[4]), BelowMinus3: bucket(w[5]), BelowMinus5: bucket(w[6]), BelowMinus7: bucket(w[7]),
	}

	sort.Float64s(changes)
	out.MedianChange = round2(median(changes))
	out.MeanChange = round2(stat.Mean(changes, nil))
	return out
}

// median expects sorted input and averages the middle pair for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
