package download

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/chrisjwei/song-scraper/internal/media"
)

// RetryPolicy controls in-pass retries for connectivity-class fetch
// failures. Permanent failures are never retried.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// NewRetryPolicy builds a policy with capped attempts and jittered
// exponential backoff.
func NewRetryPolicy(maxAttempts int) *RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   500 * time.Millisecond,
		maxDelay:    10 * time.Second,
	}
}

// ShouldRetry decides whether a fetch error is worth another attempt.
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, media.ErrConnectivity)
}

// Backoff returns the wait duration before the next attempt.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	delay := float64(p.baseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(p.maxDelay) {
		delay = float64(p.maxDelay)
	}
	half := time.Duration(delay / 2)
	return half + randomJitter(half)
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(limit)))
}
