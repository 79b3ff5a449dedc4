// Package resilience provides the retry and circuit-breaking policies applied
// to record store fetches.
package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls how a failed call is retried.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first.
	// Store fetches use 2: one try and at most one retry.
	MaxAttempts int

	// Backoff is the delay before each retry. It doubles per retry.
	Backoff time.Duration

	// JitterFraction adds up to ±JitterFraction of the delay.
	JitterFraction float64

	// ShouldRetry overrides IsTransient when set.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error)
}

// FetchRetryConfig is the store fetch policy: attempts total tries with a
// short backoff, retrying only transient errors. attempts <= 0 means 2.
func FetchRetryConfig(attempts int, operation string) RetryConfig {
	if attempts <= 0 {
		attempts = 2
	}
	return RetryConfig{
		MaxAttempts:    attempts,
		Backoff:        250 * time.Millisecond,
		JitterFraction: 0.2,
		OnRetry:        RetryLogger("store", operation),
	}
}

// DoVal runs fn until it succeeds, returns a non-retryable error, the context
// ends, or MaxAttempts is reached. The last error is returned unchanged.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	retryable := cfg.ShouldRetry
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		var val T
		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || !retryable(err) || attempt == cfg.MaxAttempts {
			return zero, err
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		timer := time.NewTimer(backoff(cfg, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
	return zero, err
}

func backoff(cfg RetryConfig, attempt int) time.Duration {
	d := float64(cfg.Backoff) * float64(int(1)<<(attempt-1))
	if cfg.JitterFraction > 0 {
		d += (rand.Float64()*2 - 1) * d * cfg.JitterFraction
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// RetryLogger returns an OnRetry callback that logs each retry.
func RetryLogger(service, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
