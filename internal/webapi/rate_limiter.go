package webapi

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces requests per API host. The crawl talks to two external
// services with very different quota regimes, so each host gets its own
// limiter.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	delay    time.Duration
}

// NewRateLimiter creates a rate limiter with a default per-host delay.
func NewRateLimiter(defaultDelay time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		delay:    defaultDelay,
	}
}

// Wait blocks until a request to the given URL is allowed to proceed.
func (r *RateLimiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return r.getLimiter(parsed.Host).Wait(ctx)
}

// SetHostDelay sets a custom delay for a specific host.
func (r *RateLimiter) SetHostDelay(host string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if delay <= 0 {
		delay = r.delay
	}
	r.limiters[host] = rate.NewLimiter(rate.Every(delay), 1)
}

func (r *RateLimiter) getLimiter(host string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[host]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check again in case another goroutine created it
	if limiter, exists := r.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(r.delay), 1)
	r.limiters[host] = limiter

	return limiter
}
