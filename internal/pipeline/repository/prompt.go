package repository

import (
	"fmt"
	"strings"

	"golang-stock-sentinel/internal/pipeline/dto"
)

const scoringSystemPrompt = `You are a senior A-share short-term trading analyst. You judge intraday screening candidates on momentum, liquidity and trend quality. You answer with a single JSON object and nothing else.`

var strategyDescriptions = map[dto.Strategy]string{
	dto.StrategyBreakout:      "Breakout: +5% to +8% on 7-15% turnover, mid-cap, price 5-2000",
	dto.StrategyLimitApproach: "Limit approach: +8% or more on turnover above 8%, closing in on the daily limit",
	dto.StrategyAccumulation:  "Accumulation: +2% to +5% on turnover above 6%, quiet build-up",
}

// BuildScoringPrompt renders a candidate and its enrichment into a scoring request.
func BuildScoringPrompt(c dto.Candidate, e dto.Enrichment) dto.ScoringPrompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Evaluate this screening candidate.\n\n")
	fmt.Fprintf(&b, "Instrument: %s (%s)\n", c.Name, c.Symbol)
	fmt.Fprintf(&b, "Sector: %s\n", e.Sector)
	fmt.Fprintf(&b, "Screen: %s\n\n", describeStrategy(c.Strategy))

	fmt.Fprintf(&b, "Market data:\n")
	fmt.Fprintf(&b, "- Last price: %.2f\n", c.Price)
	fmt.Fprintf(&b, "- Change: %.2f%%\n", c.ChangePct)
	fmt.Fprintf(&b, "- Turnover rate: %.2f%%\n", c.Turnover)
	fmt.Fprintf(&b, "- Volume ratio: %.2f\n", c.VolumeRatio)
	if c.MarketValue > 0 {
		fmt.Fprintf(&b, "- Circulating market value: %.2f (100M CNY)\n", c.MarketValue/1e8)
	}

	fmt.Fprintf(&b, "\nTechnicals:\n")
	if ind := e.Indicators; ind != nil {
		fmt.Fprintf(&b, "- MA5: %s, MA10: %s, MA20: %s, MA60: %s\n", fmtPtr(ind.MA5), fmtPtr(ind.MA10), fmtPtr(ind.MA20), fmtPtr(ind.MA60))
		fmt.Fprintf(&b, "- 5-day average volume: %s\n", fmtPtr(ind.MA5Volume))
	} else {
		fmt.Fprintf(&b, "- Not enough history for moving averages\n")
	}
	fmt.Fprintf(&b, "- Trend: %s\n", e.Trend)
	fmt.Fprintf(&b, "- Volume: %s\n", e.VolumeLabel)
	if e.PositionDesc != "" {
		fmt.Fprintf(&b, "- Position: %s\n", e.PositionDesc)
	}

	fmt.Fprintf(&b, `
Score the short-term opportunity from 0 to 100 and reply with exactly this JSON:
{"score": <integer 0-100>, "reason": "<one or two sentences>", "suggestion": "strong-buy | buy | watch | avoid"}`)

	return dto.ScoringPrompt{
		Symbol: c.Symbol,
		System: scoringSystemPrompt,
		User:   b.String(),
	}
}

func describeStrategy(s dto.Strategy) string {
	if d, ok := strategyDescriptions[s]; ok {
		return d
	}
	return string(s)
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
