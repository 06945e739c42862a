package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeedOptions controls initial frontier population.
type SeedOptions struct {
	// Genres restricts seeding to the named genres (matched
	// case-insensitively against catalog genre names). Empty means all.
	Genres []string
	// PerGenre is how many top songs to seed from each genre.
	PerGenre int
}

// Seed performs the one-time initialization of a crawl epoch: it loads the
// genre taxonomy, pulls top songs for the seed genres, resolves each to a
// video id through the discovery service, records the resolved songs as
// accepted, and expands each one's related videos into the first frontier.
func (e *Engine) Seed(ctx context.Context, opts SeedOptions) error {
	taxonomy, err := e.catalog.GenreTaxonomy(ctx)
	if err != nil {
		return fmt.Errorf("failed to load genre taxonomy: %w", err)
	}

	genres := make([]Genre, 0, len(taxonomy))
	for _, g := range taxonomy {
		genres = append(genres, Genre{
			ID:       g.ID,
			ParentID: g.ParentID,
			Name:     strings.ToLower(g.Name),
		})
	}
	if err := e.store.ReplaceGenres(genres); err != nil {
		return fmt.Errorf("failed to store genres: %w", err)
	}
	slog.Info("Loaded genre taxonomy", "genres", len(genres))

	// Stamp the epoch so resumed runs against this database can be told
	// apart in reports.
	if err := e.store.SetMeta("crawl_id", uuid.NewString()); err != nil {
		return err
	}
	if err := e.store.SetMeta("seeded_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	seedSet := make(map[string]bool, len(opts.Genres))
	for _, name := range opts.Genres {
		seedSet[strings.ToLower(name)] = true
	}

	var seeds []Song
	for _, genre := range genres {
		if len(seedSet) > 0 && !seedSet[genre.Name] {
			continue
		}

		slog.Info("Seeding genre", "genre", genre.Name)
		tracks, err := e.catalog.TopSongs(ctx, genre.ID, opts.PerGenre)
		if err != nil {
			return fmt.Errorf("failed to fetch top songs for %s: %w", genre.Name, err)
		}

		resolved := 0
		for _, track := range tracks {
			videoID, err := e.resolveVideoID(ctx, track.Label)
			if err != nil {
				return err
			}
			if videoID == "" {
				slog.Debug("No video found for seed track", "label", track.Label)
				continue
			}
			resolved++
			seeds = append(seeds, Song{
				VideoID:  videoID,
				Label:    track.Label,
				SongID:   track.SongID,
				GenreID:  genre.ID,
				Download: StatusNotDownloaded,
			})
		}
		slog.Info("Seeded genre", "genre", genre.Name, "tracks", len(tracks), "resolved", resolved)
	}

	if err := e.store.InsertSongs(seeds); err != nil {
		return fmt.Errorf("failed to store seed songs: %w", err)
	}

	expanded := 0
	for _, seed := range seeds {
		n, err := e.expand(ctx, seed.VideoID)
		if err != nil {
			return fmt.Errorf("failed to expand seed %s: %w", seed.VideoID, err)
		}
		expanded += n
	}

	counts, err := e.store.Counts()
	if err != nil {
		return err
	}
	slog.Info("Seeding complete",
		"genres", counts.Genres,
		"songs", counts.Songs,
		"frontier", counts.Frontier,
		"expanded", expanded)
	return nil
}

// resolveVideoID naively searches the discovery service for a track label
// and takes the first result as the best representation of the song.
func (e *Engine) resolveVideoID(ctx context.Context, label string) (string, error) {
	query := strings.ReplaceAll(label, "-", " ")
	items, err := e.discovery.Search(ctx, query, 1)
	if err != nil {
		return "", fmt.Errorf("failed to resolve video for %q: %w", label, err)
	}
	if len(items) == 0 {
		return "", nil
	}
	return items[0].VideoID, nil
}
