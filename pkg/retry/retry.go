package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-sentinel/pkg/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 2 * time.Second
)

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable reports whether an error is worth another attempt. Nil uses IsTransient.
	Retryable func(error) bool
}

// DefaultPolicy returns three attempts two seconds apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

// IsTransient treats every error as retryable except context cancellation and deadline expiry.
func IsTransient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Executor runs operations under a retry policy.
type Executor struct {
	policy Policy
	logger *logger.Logger
}

// NewExecutor creates an Executor. Zero-valued policy fields fall back to the defaults.
func NewExecutor(policy Policy, log *logger.Logger) *Executor {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.Delay < 0 {
		policy.Delay = 0
	}
	if policy.Retryable == nil {
		policy.Retryable = IsTransient
	}
	return &Executor{policy: policy, logger: log}
}

// Policy returns the effective policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Do runs op until it succeeds, returns a non-retryable error, or the attempts are exhausted.
// The returned error wraps the last error from op.
func (e *Executor) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	attempt := 0
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.policy.Delay), uint64(e.policy.MaxAttempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !e.policy.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		e.logger.WarnContext(ctx, "Operation failed, retrying",
			logger.StringField("operation", name),
			logger.IntField("attempt", attempt),
			logger.IntField("max_attempts", e.policy.MaxAttempts),
			logger.DurationField("wait", wait),
			logger.ErrorField(err),
		)
	})
	if err != nil {
		return fmt.Errorf("%s failed after %d attempt(s): %w", name, attempt, err)
	}
	return nil
}

// Run is Do for operations that produce a value.
func Run[T any](ctx context.Context, e *Executor, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := e.Do(ctx, name, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
