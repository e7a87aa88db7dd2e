package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"

	"golang.org/x/time/rate"
)

// ScoringGateway turns a candidate into a validated ScoreResult. It never returns an error;
// any failure yields dto.DefaultScoreResult.
type ScoringGateway interface {
	Score(ctx context.Context, c dto.Candidate, e dto.Enrichment) dto.ScoreResult
}

// NewScoringGateway creates a gateway that waits on pacer before every call. A nil pacer never waits.
func NewScoringGateway(ai repository.AIRepository, pacer *rate.Limiter, log *logger.Logger) ScoringGateway {
	if pacer == nil {
		pacer = rate.NewLimiter(rate.Inf, 1)
	}
	return &scoringGateway{ai: ai, pacer: pacer, logger: log}
}

type scoringGateway struct {
	ai     repository.AIRepository
	pacer  *rate.Limiter
	logger *logger.Logger
}

func (g *scoringGateway) Score(ctx context.Context, c dto.Candidate, e dto.Enrichment) dto.ScoreResult {
	if err := g.pacer.Wait(ctx); err != nil {
		g.logger.WarnContext(ctx, "Scoring pacing interrupted", logger.StringField("symbol", c.Symbol), logger.ErrorField(err))
		return dto.DefaultScoreResult()
	}

	raw, err := g.ai.ScoreCandidate(ctx, repository.BuildScoringPrompt(c, e))
	if err != nil {
		g.logger.WarnContext(ctx, "Scoring call failed", logger.StringField("symbol", c.Symbol), logger.ErrorField(err))
		return dto.DefaultScoreResult()
	}

	result, err := ParseScoreResponse(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "Scoring response rejected",
			logger.StringField("symbol", c.Symbol),
			logger.StringField("response", raw),
			logger.ErrorField(err),
		)
		return dto.DefaultScoreResult()
	}
	return result
}

type scoreResponse struct {
	Score      *json.RawMessage `json:"score"`
	Reason     *string          `json:"reason"`
	Suggestion *string          `json:"suggestion"`
}

var errMissingField = errors.New("missing required field")

// ParseScoreResponse strictly validates a raw scoring reply.
func ParseScoreResponse(raw string) (dto.ScoreResult, error) {
	body := stripCodeFence(raw)

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var resp scoreResponse
	if err := dec.Decode(&resp); err != nil {
		return dto.ScoreResult{}, fmt.Errorf("failed to decode score response: %w", err)
	}
	if dec.More() {
		return dto.ScoreResult{}, fmt.Errorf("trailing data after score object")
	}
	if resp.Score == nil || resp.Reason == nil || resp.Suggestion == nil {
		return dto.ScoreResult{}, errMissingField
	}

	// A quoted number is a schema violation, not a score.
	var score float64
	if err := json.Unmarshal(*resp.Score, &score); err != nil {
		return dto.ScoreResult{}, fmt.Errorf("invalid score %s: %w", string(*resp.Score), err)
	}

	return dto.ScoreResult{
		Score:      clampScore(score),
		Reason:     strings.TrimSpace(*resp.Reason),
		Suggestion: NormalizeSuggestion(*resp.Suggestion),
	}, nil
}

func clampScore(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var suggestionAliases = map[string]dto.Suggestion{
	"strong-buy": dto.SuggestionStrongBuy,
	"strongbuy":  dto.SuggestionStrongBuy,
	"strong_buy": dto.SuggestionStrongBuy,
	"强烈买入":       dto.SuggestionStrongBuy,
	"强烈推荐":       dto.SuggestionStrongBuy,
	"buy":        dto.SuggestionBuy,
	"买入":         dto.SuggestionBuy,
	"推荐":         dto.SuggestionBuy,
	"watch":      dto.SuggestionWatch,
	"hold":       dto.SuggestionWatch,
	"观望":         dto.SuggestionWatch,
	"观察":         dto.SuggestionWatch,
	"avoid":      dto.SuggestionAvoid,
	"sell":       dto.SuggestionAvoid,
	"give-up":    dto.SuggestionAvoid,
	"放弃":         dto.SuggestionAvoid,
	"回避":         dto.SuggestionAvoid,
}

// NormalizeSuggestion maps English and Chinese aliases onto the four suggestions. Unknown values become watch.
func NormalizeSuggestion(s string) dto.Suggestion {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	key = strings.ReplaceAll(key, " ", "-")
	if v, ok := suggestionAliases[key]; ok {
		return v
	}
	return dto.SuggestionWatch
}
