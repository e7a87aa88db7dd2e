package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/utils"
)

const maxMessageLen = 4090

// FormatRunSummaryMessages formats a pipeline run summary into one or more Markdown messages,
// ensuring each message does not exceed the Telegram length limit.
func FormatRunSummaryMessages(summary *dto.RunSummary) []string {
	var header strings.Builder
	header.WriteString("📡 *Signal Pipeline Run* 📡\n")
	header.WriteString(fmt.Sprintf("🕒 %s | trigger: `%s`\n", utils.PrettyDate(summary.StartedAt), summary.Trigger))
	header.WriteString(fmt.Sprintf("⏱ Duration: %s\n\n", summary.Duration))

	b := summary.Breadth
	header.WriteString(fmt.Sprintf("🌐 *Market:* %d rows | ⬆️ %d ⬇️ %d ➖ %d | limit up %d / down %d\n",
		b.Total, b.Up, b.Down, b.Flat, b.LimitUp, b.LimitDown))
	m := summary.Sentiment
	header.WriteString(fmt.Sprintf("🌡 *Temperature:* %.2f (%s) | median %.2f%% | mean %.2f%%\n",
		m.Temperature.Score, m.Temperature.Level, m.MedianChange, m.MeanChange))
	header.WriteString(fmt.Sprintf("🔎 *Scan:* breakout %d | limit approach %d | accumulation %d\n",
		summary.ScannedByRule[dto.StrategyBreakout],
		summary.ScannedByRule[dto.StrategyLimitApproach],
		summary.ScannedByRule[dto.StrategyAccumulation]))
	header.WriteString(fmt.Sprintf("🧮 *Batch:* %d candidates | %d scored | %d degraded | %d saved | %d failed\n\n",
		summary.Candidates, summary.Scored, summary.Degraded, summary.Persisted, summary.Failed))

	var entries []string
	for _, o := range summary.Outcomes {
		if !o.Persisted || o.Score < summary.ScoreThreshold {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s *%s* `%s` %d/100 (%s, %s)\n",
			suggestionIcon(o.Suggestion), o.Name, o.Symbol, o.Score, o.Suggestion, o.Sector))
	}
	if len(entries) == 0 {
		entries = append(entries, fmt.Sprintf("_No candidate reached %d today._\n", summary.ScoreThreshold))
	}

	if len(summary.Streaks) > 0 {
		entries = append(entries, "\n🔥 *Streaks:*\n")
		for _, s := range summary.Streaks {
			entries = append(entries, fmt.Sprintf("• `%s` %d days (%s)\n", s.Symbol, s.DistinctDayCount, s.Label))
		}
	}

	if len(summary.Trades) > 0 {
		entries = append(entries, "\n💼 *Paper trades:*\n")
		for _, t := range summary.Trades {
			if t.Success {
				entries = append(entries, fmt.Sprintf("• 🟢 `%s` %d shares @ %.2f\n", t.Symbol, t.Shares, t.Price))
			} else {
				entries = append(entries, fmt.Sprintf("• ⚪️ `%s` skipped: %s\n", t.Symbol, t.Reason))
			}
		}
	}

	return splitMessages(header.String(), entries)
}

// splitMessages packs entries behind a header, starting a continuation part whenever the limit would be exceeded.
func splitMessages(header string, entries []string) []string {
	var messages []string
	var current strings.Builder
	part := 1
	current.WriteString(header)

	for _, entry := range entries {
		if current.Len()+len(entry) > maxMessageLen {
			messages = append(messages, current.String())
			part++
			current.Reset()
			current.WriteString(fmt.Sprintf("---*Signal Pipeline Run, part %d*---\n\n", part))
		}
		current.WriteString(entry)
	}
	return append(messages, current.String())
}

func suggestionIcon(s dto.Suggestion) string {
	switch s {
	case dto.SuggestionStrongBuy:
		return "🚀"
	case dto.SuggestionBuy:
		return "🟢"
	case dto.SuggestionAvoid:
		return "🔴"
	default:
		return "🟡"
	}
}

// FormatTradeMessage formats an executed paper buy.
func FormatTradeMessage(trade dto.TradeOutcome, at time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💼 *Paper Buy: %s* `%s`\n", trade.Name, trade.Symbol))
	sb.WriteString(fmt.Sprintf("🔥 Streak: %d days\n", trade.StreakDays))
	sb.WriteString(fmt.Sprintf("💰 %d shares @ %.2f = %s\n", trade.Shares, trade.Price, trade.Cost))
	sb.WriteString(fmt.Sprintf("📅 _%s_\n", utils.PrettyDate(at)))
	return sb.String()
}

func FormatErrorAlertMessage(time time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(time), errType, errMsg, data)
}
