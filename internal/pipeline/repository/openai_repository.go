package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-sentinel/internal/pipeline/config"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/ratelimit"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// openaiAIRepository talks to any OpenAI-compatible chat completions endpoint, such as DashScope or Qwen.
type openaiAIRepository struct {
	client         *resty.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai api_key is required")
	}
	if cfg.OpenAI.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("openai max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.OpenAI.BaseURL, "/")).
		SetTimeout(cfg.OpenAI.Timeout).
		SetAuthToken(cfg.OpenAI.APIKey).
		SetHeader("Content-Type", "application/json")

	return &openaiAIRepository{
		client:         client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute),
	}, nil
}

// ScoreCandidate sends the prompt as a system plus user message pair.
func (r *openaiAIRepository) ScoreCandidate(ctx context.Context, prompt dto.ScoringPrompt) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OpenAIChatRequest{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.OpenAIChatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature:    r.cfg.OpenAI.Temperature,
		MaxTokens:      r.cfg.OpenAI.MaxTokens,
		ResponseFormat: &dto.OpenAIFormat{Type: "json_object"},
	}

	r.logger.DebugContext(ctx, "Sending request to OpenAI-compatible API",
		logger.StringField("model", r.cfg.OpenAI.Model),
		logger.StringField("symbol", prompt.Symbol),
	)

	var out dto.OpenAIChatResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}
	if resp.IsError() {
		r.logger.ErrorContext(ctx, "Received non-OK response from OpenAI API", logger.IntField("status_code", resp.StatusCode()), logger.StringField("model", r.cfg.OpenAI.Model))
		return "", fmt.Errorf("received non-OK response from OpenAI API: %d - %s", resp.StatusCode(), resp.String())
	}

	if limit := r.cfg.OpenAI.MaxTokenPerMinute; limit > 0 && out.Usage.TotalTokens > limit/2 {
		r.logger.WarnContext(ctx, "Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}
	if err := r.tokenLimiter.Wait(ctx, out.Usage.TotalTokens); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content found in OpenAI response")
	}
	return out.Choices[0].Message.Content, nil
}
