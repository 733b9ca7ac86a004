package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries rate-limited requests with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *slog.Logger
}

// WithRetry wraps a Provider with retry logic. Each retry is logged at warn
// level; a nil log means slog.Default().
func WithRetry(p Provider, cfg RetryConfig, log *slog.Logger) Provider {
	if log == nil {
		log = slog.Default()
	}
	return &RetryProvider{inner: p, config: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	attempts := max(r.config.MaxAttempts, 1)

	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// No sleep after the last attempt.
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("llm rate limited, retrying",
			"model", r.inner.ModelID(),
			"deck_id", DeckFrom(ctx),
			"attempt", attempt+1,
			"wait", wait,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry reports whether err is worth repeating against the same
// model. Only rate limits qualify: other failures are left to the caller,
// which moves on to the next model in its cascade.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rl *ErrRateLimit
	return errors.As(err, &rl)
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
