package retry

import (
	"math"
	"time"
)

// BackoffConfig holds exponential backoff configuration.
type BackoffConfig struct {
	InitialDelay time.Duration // Delay before the first retry
	MaxDelay     time.Duration // Ceiling for the computed delay
	Multiplier   float64       // Exponential growth factor
	MaxAttempts  int           // Attempts after which retrying stops
}

// DefaultBackoffConfig returns the backoff used for the streaming session.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   1.5,
		MaxAttempts:  10,
	}
}

// DelayFor computes the delay for the given zero-based attempt number:
// min(initial * multiplier^attempt, max). The result is non-decreasing in
// the attempt number.
func (c BackoffConfig) DelayFor(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	return time.Duration(delay)
}

// Exhausted reports whether the attempt count has consumed the retry budget.
func (c BackoffConfig) Exhausted(attempts int) bool {
	return attempts >= c.MaxAttempts
}
