// Package webapi provides the shared HTTP plumbing for the external
// catalog and discovery gateways: a JSON-oriented GET client with per-call
// timeouts and per-host rate limiting.
package webapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Response carries the raw outcome of a GET request. Status mapping and
// body decoding are gateway concerns; the client only moves bytes.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs rate-limited HTTP GET requests against JSON APIs.
type Client struct {
	client    *http.Client
	userAgent string
	limiter   *RateLimiter
	timeout   time.Duration
}

// NewClient creates a client with the given User-Agent, per-request timeout,
// and default per-host request delay.
func NewClient(userAgent string, timeout, requestDelay time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent: userAgent,
		limiter:   NewRateLimiter(requestDelay),
		timeout:   timeout,
	}
}

// SetHostDelay overrides the request delay for one API host.
func (c *Client) SetHostDelay(host string, delay time.Duration) {
	c.limiter.SetHostDelay(host, delay)
}

// Get performs a GET request with the given query parameters. The request
// is paced by the per-host rate limiter and bounded by the client timeout;
// both respect ctx cancellation.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}

	if err := c.limiter.Wait(ctx, target); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
