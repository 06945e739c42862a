package download

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chrisjwei/song-scraper/internal/media"
)

func TestShouldRetry(t *testing.T) {
	connectivityErr := &media.FetchError{VideoID: "vid", Detail: "connection reset"}
	wrappedConnectivity := errors.Join(media.ErrConnectivity, connectivityErr)

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{name: "NilError", err: nil, attempt: 1, want: false},
		{name: "ConnectivityFirstAttempt", err: wrappedConnectivity, attempt: 1, want: true},
		{name: "ConnectivityAtCap", err: wrappedConnectivity, attempt: 3, want: false},
		{name: "ConnectivityPastCap", err: wrappedConnectivity, attempt: 4, want: false},
		{name: "PermanentFailure", err: connectivityErr, attempt: 1, want: false},
		{name: "Cancellation", err: context.Canceled, attempt: 1, want: false},
		{name: "DeadlineExceeded", err: context.DeadlineExceeded, attempt: 1, want: false},
	}

	policy := NewRetryPolicy(3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.ShouldRetry(tt.err, tt.attempt); got != tt.want {
				t.Errorf("ShouldRetry(%v, %d) = %v, want %v", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetryPolicyMinimumAttempts(t *testing.T) {
	policy := NewRetryPolicy(0)
	err := errors.Join(media.ErrConnectivity, errors.New("timed out"))
	if policy.ShouldRetry(err, 1) {
		t.Error("Expected no retries with a floor of one attempt")
	}
}

func TestBackoff(t *testing.T) {
	policy := NewRetryPolicy(5)

	var prev time.Duration
	for attempt := 0; attempt < 4; attempt++ {
		wait := policy.Backoff(attempt)
		minWait := policy.baseDelay << attempt / 2
		maxWait := policy.baseDelay << attempt
		if wait < minWait || wait > maxWait {
			t.Errorf("Backoff(%d) = %v, want within [%v, %v]", attempt, wait, minWait, maxWait)
		}
		if wait < prev/2 {
			t.Errorf("Backoff(%d) = %v shrank sharply from %v", attempt, wait, prev)
		}
		prev = wait
	}

	// Large attempts are capped.
	if wait := policy.Backoff(20); wait > policy.maxDelay {
		t.Errorf("Backoff(20) = %v exceeds cap %v", wait, policy.maxDelay)
	}
}
