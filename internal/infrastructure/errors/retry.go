package errors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// RetryConfig holds configuration for retry logic.
type RetryConfig struct {
	MaxAttempts     int           // maximum number of attempts
	InitialDelay    time.Duration // delay before the first retry
	MaxDelay        time.Duration // upper bound on any delay
	BackoffFactor   float64       // exponential backoff factor
	Jitter          bool          // add up to 25% jitter to delays
	RetryableErrors []ErrorCode   // codes eligible for retry
}

// DefaultRetryConfig returns the retry policy used by flush transactions:
// short and bounded, so a slow disk can never stall live tracking for long.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection,
			ErrCodeTimeout,
			ErrCodeTransaction,
			ErrCodeBusy,
		},
	}
}

// RetryableOperation is an operation that can be re-executed safely.
type RetryableOperation func() error

// WithRetry executes operation under config, honoring context cancellation
// between attempts. Non-retryable errors return immediately.
func WithRetry(ctx context.Context, config *RetryConfig, operation RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err, config) {
			return err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled during retry: %w", ctx.Err())
		case <-time.After(calculateDelay(attempt, config)):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

func shouldRetry(err error, config *RetryConfig) bool {
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		return false
	}
	if !storageErr.IsRetryable() {
		return false
	}
	return slices.Contains(config.RetryableErrors, storageErr.Code)
}

func calculateDelay(attempt int, config *RetryConfig) time.Duration {
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= config.BackoffFactor
	}
	delay := time.Duration(float64(config.InitialDelay) * multiplier)

	if config.Jitter && delay > 0 {
		jitterWindow := time.Duration(float64(delay) * 0.25)
		if jitterWindow > 0 {
			delay += time.Duration(time.Now().UnixNano() % int64(jitterWindow))
		}
	}

	return min(delay, config.MaxDelay)
}
