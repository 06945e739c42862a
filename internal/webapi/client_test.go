package webapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent/1.0" {
			t.Errorf("Expected custom User-Agent, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Expected JSON Accept header, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "hello world" {
			t.Errorf("Expected encoded query parameter, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient("test-agent/1.0", 5*time.Second, 0)
	defer client.Close()

	params := url.Values{}
	params.Set("q", "hello world")
	resp, err := client.Get(context.Background(), server.URL, params)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Unexpected body: %q", resp.Body)
	}
}

func TestGetNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("quota exceeded"))
	}))
	defer server.Close()

	client := NewClient("test-agent/1.0", 5*time.Second, 0)
	defer client.Close()

	// Non-2xx statuses are data, not errors; mapping is the gateways' job.
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "quota exceeded" {
		t.Errorf("Unexpected body: %q", resp.Body)
	}
}

func TestGetCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient("test-agent/1.0", 30*time.Second, 0)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, server.URL, nil)
	if err == nil {
		t.Fatal("Expected error from cancelled request")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
}

func TestRateLimiterPacesRequests(t *testing.T) {
	limiter := NewRateLimiter(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background(), "https://api.example.com/search"); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// First request is immediate; the next two wait ~50ms each.
	if elapsed < 80*time.Millisecond {
		t.Errorf("Expected pacing of at least ~100ms across 3 requests, got %v", elapsed)
	}
}

func TestRateLimiterPerHost(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	limiter.SetHostDelay("fast.example.com", time.Nanosecond)

	done := make(chan error, 1)
	go func() {
		// Second wait on the fast host must not be blocked by the slow
		// default.
		_ = limiter.Wait(context.Background(), "https://fast.example.com/a")
		done <- limiter.Wait(context.Background(), "https://fast.example.com/b")
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Fast host wait blocked by default delay")
	}
}

func TestRateLimiterCancellation(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)

	// Consume the initial token.
	if err := limiter.Wait(context.Background(), "https://slow.example.com/a"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "https://slow.example.com/b")
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
}
