package llm

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/abhisek/mcceval/internal/logging"
)

// RetryProvider wraps a Provider with retry on transient failures.
// Rate limits honor the server's retry-after hint when present;
// everything else backs off exponentially.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a provider with retry behavior.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := r.backoff(attempt, lastErr)
			logging.Logger.Debugw("retrying request",
				"attempt", attempt,
				"delay", delay,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// shouldRetry reports whether the error is transient. Invalid responses
// and token overruns will not improve on a resend of the same request.
func shouldRetry(err error) bool {
	var rateLimit *ErrRateLimit
	if errors.As(err, &rateLimit) {
		return true
	}
	var unavailable *ErrProviderUnavailable
	if errors.As(err, &unavailable) {
		return true
	}
	return false
}

// backoff computes the wait before the given attempt. A rate limit with a
// retry-after hint overrides the exponential schedule.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rateLimit *ErrRateLimit
	if errors.As(err, &rateLimit) && rateLimit.RetryAfter > 0 {
		if rateLimit.RetryAfter > r.cfg.MaxWait {
			return r.cfg.MaxWait
		}
		return rateLimit.RetryAfter
	}

	delay := time.Duration(float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-2)))
	if delay > r.cfg.MaxWait {
		delay = r.cfg.MaxWait
	}
	return delay
}
