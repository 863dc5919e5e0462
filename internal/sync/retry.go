package sync

import (
	"context"
	"errors"
	"math"
	"net"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// DefaultMaxRetries is the default number of retry attempts
	DefaultMaxRetries = 3
	// DefaultInitialBackoff is the initial backoff duration
	DefaultInitialBackoff = 500 * time.Millisecond
	// DefaultMaxBackoff is the maximum backoff duration
	DefaultMaxBackoff = 30 * time.Second
)

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
}

// isRetryableError determines if an error is transient and worth retrying
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is a caller decision, never retried
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Network errors (timeout only, Temporary() is deprecated)
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	switch status.Code(err) {
	case codes.Unavailable,
		codes.ResourceExhausted,
		codes.Aborted,
		codes.DeadlineExceeded,
		codes.Internal:
		return true
	}

	return false
}

// calculateBackoff calculates the backoff duration for a given attempt
func calculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	backoff := time.Duration(float64(cfg.InitialBackoff) * math.Pow(2, float64(attempt)))
	if backoff > cfg.MaxBackoff {
		backoff = cfg.MaxBackoff
	}
	return backoff
}

// WithRetry wraps a function with retry logic
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return zero, err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		backoff := calculateBackoff(attempt, cfg)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return zero, lastErr
}

// WithRetryNoResult wraps a function that returns only an error with retry logic
func WithRetryNoResult(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := WithRetry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryingRemote wraps a RemoteStore with retry logic
type RetryingRemote struct {
	inner RemoteStore
	cfg   RetryConfig
}

// NewRetryingRemote creates a retrying remote store wrapper
func NewRetryingRemote(inner RemoteStore, cfg RetryConfig) *RetryingRemote {
	return &RetryingRemote{inner: inner, cfg: cfg}
}

// Fetch implements RemoteStore.Fetch with retry
func (r *RetryingRemote) Fetch(ctx context.Context) (string, error) {
	return WithRetry(ctx, r.cfg, func() (string, error) {
		return r.inner.Fetch(ctx)
	})
}

// Push implements RemoteStore.Push with retry
func (r *RetryingRemote) Push(ctx context.Context, data string) error {
	return WithRetryNoResult(ctx, r.cfg, func() error {
		return r.inner.Push(ctx, data)
	})
}

// Listen implements RemoteStore.Listen. The snapshot stream does its own
// reconnection inside the client library, so no retry wrapper applies here.
func (r *RetryingRemote) Listen(ctx context.Context) (<-chan string, error) {
	return r.inner.Listen(ctx)
}

// Close implements RemoteStore.Close
func (r *RetryingRemote) Close() error {
	return r.inner.Close()
}
