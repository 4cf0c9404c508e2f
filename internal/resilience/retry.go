// SPDX-License-Identifier: MIT

// Package resilience provides retry and timing wrappers for fallible
// operations.
package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/neptuneng/fieldkit/internal/log"
)

type retryConfig struct {
	maxAttempts uint64
	delay       time.Duration
	exponential bool
	maxDelay    time.Duration
	logger      zerolog.Logger
	haveLogger  bool
}

// RetryOption configures Retry.
type RetryOption func(*retryConfig)

// WithMaxAttempts caps the total number of attempts (first try included).
func WithMaxAttempts(n int) RetryOption {
	return func(c *retryConfig) {
		if n > 0 {
			c.maxAttempts = uint64(n)
		}
	}
}

// WithDelay sets a constant delay between attempts.
func WithDelay(d time.Duration) RetryOption {
	return func(c *retryConfig) { c.delay = d }
}

// WithExponentialBackoff switches to exponential backoff starting at the
// configured delay and capped at maxDelay.
func WithExponentialBackoff(maxDelay time.Duration) RetryOption {
	return func(c *retryConfig) {
		c.exponential = true
		c.maxDelay = maxDelay
	}
}

// WithLogger sets the logger used for per-attempt reporting.
func WithLogger(l zerolog.Logger) RetryOption {
	return func(c *retryConfig) {
		c.logger = l
		c.haveLogger = true
	}
}

// Retry runs fn until it succeeds, the attempt budget is spent, or ctx is
// cancelled. Each failed attempt is logged with the upcoming wait. The
// last error is returned when all attempts fail.
func Retry(ctx context.Context, name string, fn func() error, opts ...RetryOption) error {
	cfg := retryConfig{
		maxAttempts: 3,
		delay:       time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.haveLogger {
		cfg.logger = log.WithComponent("retry")
	}

	var policy backoff.BackOff
	if cfg.exponential {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = cfg.delay
		exp.MaxInterval = cfg.maxDelay
		exp.MaxElapsedTime = 0 // attempts are the only budget
		policy = exp
	} else {
		policy = backoff.NewConstantBackOff(cfg.delay)
	}
	policy = backoff.WithMaxRetries(policy, cfg.maxAttempts-1)
	policy = backoff.WithContext(policy, ctx)

	attempt := 0
	notify := func(err error, wait time.Duration) {
		attempt++
		cfg.logger.Warn().
			Str("event", "retry.attempt_failed").
			Str("op", name).
			Int("attempt", attempt).
			Dur("next_wait", wait).
			Err(err).
			Msg("attempt failed, retrying")
	}

	if err := backoff.RetryNotify(fn, policy, notify); err != nil {
		cfg.logger.Error().
			Str("event", "retry.exhausted").
			Str("op", name).
			Uint64("max_attempts", cfg.maxAttempts).
			Err(err).
			Msg("all attempts failed")
		return err
	}
	return nil
}
