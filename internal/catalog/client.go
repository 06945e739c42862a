// Package catalog wraps the external music catalog: genre taxonomy, the
// per-genre top-songs feed used for seeding, and the song search used to
// reconcile discovered candidates against authoritative metadata.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/chrisjwei/song-scraper/internal/webapi"
)

// The catalog files all music under one root genre in its taxonomy
// document.
const musicRootGenreID = "34"

// Genre is one node of the catalog taxonomy. ParentID is empty for
// top-level genres.
type Genre struct {
	ID       string
	ParentID string
	Name     string
}

// Client is a read-only gateway to the catalog service.
type Client struct {
	api     *webapi.Client
	baseURL string
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(api *webapi.Client, baseURL string) *Client {
	return &Client{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// checkStatus maps the catalog's HTTP failure classes onto typed errors so
// callers can distinguish credential problems from quota exhaustion.
func checkStatus(resp *webapi.Response) error {
	switch resp.StatusCode {
	case 200:
		return nil
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrRateLimited
	default:
		return &UnexpectedStatusError{StatusCode: resp.StatusCode}
	}
}

// GenreTaxonomy fetches the full music genre tree: every top-level genre
// plus one level of subgenres, each linked to its parent. Called once per
// crawl epoch during initialization.
func (c *Client) GenreTaxonomy(ctx context.Context) ([]Genre, error) {
	resp, err := c.api.Get(ctx, c.baseURL+"/WebObjects/MZStoreServices.woa/ws/genres", nil)
	if err != nil {
		return nil, fmt.Errorf("taxonomy request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var tree map[string]genreNode
	if err := json.Unmarshal(resp.Body, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	music, ok := tree[musicRootGenreID]
	if !ok {
		return nil, fmt.Errorf("%w: missing music root genre", ErrMalformedResponse)
	}

	var genres []Genre
	for id, node := range music.Subgenres {
		for subID, subNode := range node.Subgenres {
			genres = append(genres, Genre{ID: subID, ParentID: id, Name: subNode.Name})
		}
		genres = append(genres, Genre{ID: id, Name: node.Name})
	}
	return genres, nil
}

// TopSongs fetches the top songs feed for a genre. The limit is clamped to
// [1,200], the range the feed supports. A genre with no feed is a normal
// zero-result outcome, not an error.
func (c *Client) TopSongs(ctx context.Context, genreID string, limit int) ([]SeedTrack, error) {
	if limit > 200 {
		slog.Warn("Top songs limit above feed maximum, clamping", "limit", limit, "max", 200)
		limit = 200
	}
	if limit < 1 {
		slog.Warn("Top songs limit below feed minimum, clamping", "limit", limit, "min", 1)
		limit = 1
	}

	feedURL := fmt.Sprintf("%s/us/rss/topsongs/limit=%d/genre=%s/explicit=true/json", c.baseURL, limit, genreID)
	resp, err := c.api.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("top songs request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var feed topSongsResponse
	if err := json.Unmarshal(resp.Body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(feed.Feed.Entry) == 0 {
		slog.Info("No top songs feed for genre", "genre_id", genreID)
		return nil, nil
	}

	entries, err := decodeFeedEntries(feed.Feed.Entry)
	if err != nil {
		return nil, err
	}

	tracks := make([]SeedTrack, 0, len(entries))
	for _, entry := range entries {
		if entry.ID.Attributes.SongID == "" || entry.Title.Label == "" {
			continue
		}
		tracks = append(tracks, SeedTrack{
			SongID: entry.ID.Attributes.SongID,
			Label:  entry.Title.Label,
		})
	}
	return tracks, nil
}

// decodeFeedEntries handles the feed quirk where a single entry is encoded
// as a bare object rather than a one-element array.
func decodeFeedEntries(raw json.RawMessage) ([]feedEntry, error) {
	var entries []feedEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var single feedEntry
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return []feedEntry{single}, nil
}

// SearchSong queries the catalog for the single best match for a search
// term. Dashes are folded to spaces before querying, matching how labels
// are normalized. Returns nil without error when nothing matches.
func (c *Client) SearchSong(ctx context.Context, term string) (*SongResult, error) {
	params := url.Values{}
	params.Set("term", strings.ReplaceAll(term, "-", " "))
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", "1")

	resp, err := c.api.Get(ctx, c.baseURL+"/search", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeSongResult(resp.Body)
}

// LookupSong fetches a song's details by catalog song id. Returns nil
// without error when the id is unknown.
func (c *Client) LookupSong(ctx context.Context, songID string) (*SongResult, error) {
	params := url.Values{}
	params.Set("id", songID)

	resp, err := c.api.Get(ctx, c.baseURL+"/lookup", params)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeSongResult(resp.Body)
}

func decodeSongResult(body []byte) (*SongResult, error) {
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Results) == 0 {
		return nil, nil
	}

	first := parsed.Results[0]
	if first.ArtistName == "" || first.TrackName == "" || first.PrimaryGenreName == "" {
		return nil, fmt.Errorf("%w: result missing required fields", ErrMalformedResponse)
	}

	return &SongResult{
		SongID:    first.TrackID.String(),
		Artist:    first.ArtistName,
		Track:     first.TrackName,
		GenreName: first.PrimaryGenreName,
	}, nil
}
