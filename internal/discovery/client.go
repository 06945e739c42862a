// Package discovery wraps the external related-item service: given a video
// id it returns related videos, and given free text it returns best-effort
// search results. Expanding related items is how the crawl frontier grows.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/chrisjwei/song-scraper/internal/webapi"
)

// The provider caps maxResults at 50 per request.
const maxProviderResults = 50

// Strategy selects which of the provider's related results are kept.
type Strategy string

const (
	// StrategyTop keeps the provider's top-ranked results.
	StrategyTop Strategy = "top"
	// StrategyRandom over-fetches and samples uniformly, trading the
	// provider's relevance ranking for diversity.
	StrategyRandom Strategy = "random"
)

// Item is a discovered video: an opaque id plus the provider's raw title.
type Item struct {
	VideoID string
	Title   string
}

// Client is a gateway to the discovery service.
type Client struct {
	api     *webapi.Client
	baseURL string
	apiKey  string
}

// NewClient creates a discovery client rooted at baseURL, authenticating
// with the given API key.
func NewClient(api *webapi.Client, baseURL, apiKey string) *Client {
	return &Client{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
}

func checkStatus(resp *webapi.Response) error {
	switch resp.StatusCode {
	case 200:
		return nil
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrQuotaExceeded
	default:
		return &UnexpectedStatusError{StatusCode: resp.StatusCode}
	}
}

// Related returns up to n videos related to the given video id, selected
// per the strategy. For StrategyTop the provider is asked for exactly
// clamp(n,1,50) results and the first n are returned. For StrategyRandom
// the provider is over-fetched at min(n*5,50) and n results are sampled
// uniformly without replacement.
func (c *Client) Related(ctx context.Context, videoID string, n int, strategy Strategy) ([]Item, error) {
	if videoID == "" {
		return nil, ErrNoSourceID
	}

	var maxResults int
	switch strategy {
	case StrategyTop:
		maxResults = n
		if maxResults > maxProviderResults {
			maxResults = maxProviderResults
		}
		if maxResults < 1 {
			maxResults = 1
		}
	case StrategyRandom:
		maxResults = n * 5
		if maxResults > maxProviderResults {
			maxResults = maxProviderResults
		}
	default:
		return nil, &UnsupportedStrategyError{Strategy: strategy}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("relatedToVideoId", videoID)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)

	items, err := c.fetchItems(ctx, params)
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetched related videos", "video_id", videoID, "count", len(items))

	if len(items) <= n {
		return items, nil
	}
	if strategy == StrategyTop {
		return items[:n], nil
	}
	return sample(items, n), nil
}

// Search returns up to n videos matching the query, ranked by provider
// relevance. An empty result list is a valid outcome.
func (c *Client) Search(ctx context.Context, query string, n int) ([]Item, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("order", "relevance")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(n))
	params.Set("key", c.apiKey)

	return c.fetchItems(ctx, params)
}

func (c *Client) fetchItems(ctx context.Context, params url.Values) ([]Item, error) {
	resp, err := c.api.Get(ctx, c.baseURL+"/search", params)
	if err != nil {
		return nil, fmt.Errorf("discovery request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		// Entries without an id or title are unusable as candidates.
		if item.ID.VideoID == "" || item.Snippet.Title == "" {
			continue
		}
		items = append(items, Item{VideoID: item.ID.VideoID, Title: item.Snippet.Title})
	}
	return items, nil
}

// sample returns n items chosen uniformly without replacement.
func sample(items []Item, n int) []Item {
	picked := make([]Item, 0, n)
	for _, idx := range rand.Perm(len(items))[:n] {
		picked = append(picked, items[idx])
	}
	return picked
}
