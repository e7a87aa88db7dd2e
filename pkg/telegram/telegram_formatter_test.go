package telegram

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunSummaryMessages(t *testing.T) {
	summary := &dto.RunSummary{
		Trigger:        "scheduled",
		StartedAt:      time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC),
		Duration:       "42s",
		ScannedByRule:  map[dto.Strategy]int{dto.StrategyBreakout: 3},
		Candidates:     3,
		Persisted:      2,
		ScoreThreshold: 75,
		Sentiment: dto.MarketSentiment{
			Temperature:  dto.MarketTemperature{Score: 62.5, Level: dto.TemperatureWarm},
			MedianChange: 0.4,
		},
		Outcomes: []dto.CandidateOutcome{
			{Symbol: "600000", Name: "Bank", Score: 88, Suggestion: dto.SuggestionBuy, Persisted: true},
			{Symbol: "000001", Name: "Low", Score: 40, Suggestion: dto.SuggestionWatch, Persisted: true},
		},
		Streaks: []dto.StreakInfo{{Symbol: "600000", DistinctDayCount: 3, Label: dto.StreakMomentum}},
		Trades:  []dto.TradeOutcome{{Symbol: "600000", Success: true, Shares: 500, Price: 10}},
	}

	msgs := FormatRunSummaryMessages(summary)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "breakout 3")
	assert.Contains(t, msgs[0], "62.50 (warm) | median 0.40%")
	assert.Contains(t, msgs[0], "`600000` 88/100")
	assert.NotContains(t, msgs[0], "`000001`")
	assert.Contains(t, msgs[0], "3 days (momentum)")
	assert.Contains(t, msgs[0], "500 shares @ 10.00")
}

func TestFormatRunSummaryMessages_SplitsLongOutput(t *testing.T) {
	summary := &dto.RunSummary{ScoreThreshold: 0, ScannedByRule: map[dto.Strategy]int{}}
	for i := 0; i < 200; i++ {
		summary.Outcomes = append(summary.Outcomes, dto.CandidateOutcome{
			Symbol: fmt.Sprintf("%06d", i), Name: strings.Repeat("N", 20), Score: 80, Persisted: true,
		})
	}

	msgs := FormatRunSummaryMessages(summary)
	require.Greater(t, len(msgs), 1)
	for _, m := range msgs {
		assert.LessOrEqual(t, len(m), maxMessageLen)
	}
	assert.Contains(t, msgs[1], "part 2")
}

func TestFormatTradeMessage(t *testing.T) {
	msg := FormatTradeMessage(dto.TradeOutcome{Symbol: "600000", Name: "Bank", StreakDays: 2, Shares: 400, Price: 12.5, Cost: "5000.00"}, time.Now())
	assert.Contains(t, msg, "400 shares @ 12.50 = 5000.00")
	assert.Contains(t, msg, "Streak: 2 days")
}
