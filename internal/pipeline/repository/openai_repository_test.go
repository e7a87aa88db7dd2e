package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-stock-sentinel/internal/pipeline/config"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.OpenAI.BaseURL = url
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Model = "qwen-plus"
	cfg.OpenAI.Temperature = 0.7
	cfg.OpenAI.Timeout = 5 * time.Second
	cfg.OpenAI.MaxRequestPerMinute = 60000
	return cfg
}

func TestOpenAIRepository_ScoreCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req dto.OpenAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen-plus", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user prompt", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"score\":80,\"reason\":\"ok\",\"suggestion\":\"buy\"}"}}],"usage":{"total_tokens":120}}`))
	}))
	defer srv.Close()

	repo, err := NewOpenAIRepository(newOpenAITestConfig(srv.URL), logger.NewNop())
	require.NoError(t, err)

	text, err := repo.ScoreCandidate(context.Background(), dto.ScoringPrompt{Symbol: "600000", System: "sys", User: "user prompt"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":80,"reason":"ok","suggestion":"buy"}`, text)
}

func TestOpenAIRepository_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			repo, err := NewOpenAIRepository(newOpenAITestConfig(srv.URL), logger.NewNop())
			require.NoError(t, err)

			_, err = repo.ScoreCandidate(context.Background(), dto.ScoringPrompt{User: "x"})
			assert.Error(t, err)
		})
	}
}

func TestNewOpenAIRepository_RequiresKey(t *testing.T) {
	cfg := newOpenAITestConfig("http://localhost")
	cfg.OpenAI.APIKey = ""
	_, err := NewOpenAIRepository(cfg, logger.NewNop())
	assert.Error(t, err)
}
