package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter throttles consumers by a token budget per minute, such as LLM prompt tokens.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter allows up to maxTokensPerMinute tokens per minute with a full initial bucket.
// A non-positive budget disables limiting.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	if maxTokensPerMinute <= 0 {
		return &TokenLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxTokensPerMinute)/60.0), maxTokensPerMinute),
		max:     maxTokensPerMinute,
	}
}

// Wait blocks until n tokens are available. Requests larger than the bucket wait for a full bucket.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	if l.max > 0 && n > l.max {
		n = l.max
	}
	if n <= 0 {
		return nil
	}
	return l.limiter.WaitN(ctx, n)
}

// GetRemaining reports the tokens currently available.
func (l *TokenLimiter) GetRemaining() int {
	if l.max == 0 {
		return -1
	}
	return int(l.limiter.Tokens())
}
