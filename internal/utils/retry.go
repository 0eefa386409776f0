package utils

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	telerrors "github.com/socialchef/telekit/internal/errors"
)

// RetryConfig holds the configuration for the retry mechanism.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Timeout         time.Duration
	RetryableErrors []string
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// DefaultRetryConfig returns a RetryConfig with sensible default values.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       30 * time.Second,
		RetryableErrors: []string{
			"timeout",
			"connection reset",
			"rate limit",
			"connection refused",
			"service unavailable",
			"too many requests",
			"bad gateway",
		},
	}
}

// FlushRetryConfig returns a RetryConfig for flushing buffered spans on
// shutdown. Attempts are short so the whole flush fits a typical shutdown
// grace period.
func FlushRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 3
	cfg.InitialDelay = 200 * time.Millisecond
	cfg.MaxDelay = 1 * time.Second
	cfg.Timeout = 2 * time.Second
	return cfg
}

// IsRetryableError checks if the given error is retryable based on defined patterns.
// Errors typed as non-retryable telemetry errors are never retried.
func IsRetryableError(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	var te *telerrors.TelemetryError
	if errors.As(err, &te) && !te.IsRetryable() {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(errMsg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// WithRetry executes the given operation with retries based on the provided config.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var lastErr error
	var zero T

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, config.Timeout)

		result, err := operation(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt == config.MaxAttempts {
			break
		}

		if !IsRetryableError(err, config.RetryableErrors) {
			break
		}

		// InitialDelay * (BackoffFactor ^ (attempt - 1)), capped, plus up to 10% jitter
		backoff := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
		delay := time.Duration(backoff)

		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		jitterRange := int64(delay) / 10
		if jitterRange > 0 {
			delay += time.Duration(rand.Int63n(jitterRange))
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

// Do is WithRetry for operations that only return an error, such as
// ForceFlush on a provider.
func Do(ctx context.Context, operation func(ctx context.Context) error, config RetryConfig) error {
	_, err := WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	}, config)
	return err
}
