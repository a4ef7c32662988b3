package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration // doubling stops here; 0 means uncapped
	Logger      *Logger
}

// Do executes fn with exponential back-off retry logic. The wait between
// attempts is interruptible: a cancelled ctx ends the loop early instead
// of sleeping through the remaining attempts.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == r.MaxAttempts {
			break
		}

		r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
			operationName, attempt, r.MaxAttempts, lastErr, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s canceled during retry wait: %w", operationName, ctx.Err())
		}

		delay *= 2
		if r.MaxDelay > 0 && delay > r.MaxDelay {
			delay = r.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
