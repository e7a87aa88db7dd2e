package repository

import (
	"context"

	"golang-stock-sentinel/internal/pipeline/dto"
)

// AIRepository sends a scoring prompt to a language model and returns its raw text reply.
type AIRepository interface {
	ScoreCandidate(ctx context.Context, prompt dto.ScoringPrompt) (string, error)
}
