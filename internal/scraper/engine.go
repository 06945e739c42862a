// Package scraper implements the frontier-driven crawl state machine. It
// pops candidates from a durable frontier, reconciles them against the
// catalog, records accepted songs, and expands the frontier with related
// videos.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chrisjwei/song-scraper/internal/catalog"
	"github.com/chrisjwei/song-scraper/internal/discovery"
)

// Outcome is the terminal result of evaluating one candidate. Outcomes are
// not persisted; an accepted candidate leaves a song row behind, a
// discarded one leaves nothing.
type Outcome string

const (
	OutcomeAccepted        Outcome = "accepted"
	OutcomeAlreadyAccepted Outcome = "already_accepted"
	OutcomeUnparsableLabel Outcome = "unparsable_label"
	OutcomeNoCatalogMatch  Outcome = "no_catalog_match"
	OutcomeGenreOutOfScope Outcome = "genre_out_of_scope"
)

// Config holds frontier engine tuning.
type Config struct {
	RelatedPerSong  int                // frontier entries added per accepted song
	RelatedStrategy discovery.Strategy // how related videos are selected
}

// StepResult describes one completed evaluation cycle.
type StepResult struct {
	VideoID  string
	RawLabel string
	Outcome  Outcome
	Song     *Song // set when Outcome is OutcomeAccepted
	Expanded int   // frontier entries added by this step
}

// RunStats aggregates the outcomes of a bounded crawl run.
type RunStats struct {
	Steps     int
	Accepted  int
	Discarded int
	Errors    int
}

// Engine is the crawl state machine. One Step is one candidate evaluation;
// the engine holds no per-candidate state of its own, so it can be stopped
// and restarted at any step boundary.
type Engine struct {
	store     Store
	catalog   Catalog
	discovery Discovery
	cfg       Config
}

// NewEngine creates a frontier engine.
func NewEngine(store Store, catalog Catalog, discovery Discovery, cfg Config) *Engine {
	return &Engine{
		store:     store,
		catalog:   catalog,
		discovery: discovery,
		cfg:       cfg,
	}
}

// Step evaluates one candidate from the frontier.
//
// The candidate is deleted from the frontier before anything else happens,
// and that delete is committed first. A crash mid-step can therefore lose
// one candidate, but no candidate is ever evaluated twice. Checks run
// cheapest first so discarded candidates cost as few external requests as
// possible.
//
// Returns ErrEmptyFrontier when no candidates remain. A non-nil StepResult
// alongside a non-nil error means the acceptance committed but frontier
// expansion failed.
func (e *Engine) Step(ctx context.Context) (*StepResult, error) {
	entry, err := e.store.PopRandomFromFrontier()
	if err != nil {
		return nil, err
	}

	result := &StepResult{VideoID: entry.VideoID, RawLabel: entry.Label}

	// Already accepted: nothing to do, and no expansion either - the
	// original acceptance already expanded this id.
	seen, err := e.store.HasSong(entry.VideoID)
	if err != nil {
		return nil, err
	}
	if seen {
		result.Outcome = OutcomeAlreadyAccepted
		return result, nil
	}

	term, ok := NormalizeLabel(entry.Label)
	if !ok {
		result.Outcome = OutcomeUnparsableLabel
		return result, nil
	}

	match, err := e.catalog.SearchSong(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("catalog search for %q: %w", term, err)
	}
	if match == nil {
		result.Outcome = OutcomeNoCatalogMatch
		return result, nil
	}

	genre, err := e.store.GenreByName(match.GenreName)
	if err != nil {
		return nil, err
	}
	if genre == nil {
		// The catalog matched, but outside the tracked taxonomy. An
		// intentional scope filter, not an error.
		result.Outcome = OutcomeGenreOutOfScope
		return result, nil
	}

	song := Song{
		VideoID:  entry.VideoID,
		Label:    match.Label(),
		SongID:   match.SongID,
		GenreID:  genre.ID,
		Download: StatusNotDownloaded,
	}
	if err := e.store.InsertSong(song); err != nil {
		return nil, err
	}
	result.Outcome = OutcomeAccepted
	result.Song = &song

	expanded, err := e.expand(ctx, entry.VideoID)
	result.Expanded = expanded
	if err != nil {
		// The acceptance stands; only this branch's growth is lost.
		return result, fmt.Errorf("frontier expansion for %s: %w", entry.VideoID, err)
	}

	return result, nil
}

// expand fetches related videos for an accepted id and queues them as new
// candidates.
func (e *Engine) expand(ctx context.Context, videoID string) (int, error) {
	related, err := e.discovery.Related(ctx, videoID, e.cfg.RelatedPerSong, e.cfg.RelatedStrategy)
	if err != nil {
		return 0, err
	}

	entries := make([]FrontierEntry, 0, len(related))
	for _, item := range related {
		entries = append(entries, FrontierEntry{VideoID: item.VideoID, Label: item.Title})
	}
	if err := e.store.AddToFrontier(entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Run executes up to limit evaluation cycles (limit <= 0 means unbounded).
// It stops early when the frontier is exhausted, when ctx is cancelled, or
// on an authorization/quota class error from a gateway. Every other step
// failure is logged and the loop continues with the next candidate.
func (e *Engine) Run(ctx context.Context, limit int) (RunStats, error) {
	var stats RunStats

	for i := 0; limit <= 0 || i < limit; i++ {
		select {
		case <-ctx.Done():
			slog.Info("Crawl stopped", "steps", stats.Steps)
			return stats, ctx.Err()
		default:
		}

		result, err := e.Step(ctx)
		if errors.Is(err, ErrEmptyFrontier) {
			slog.Info("Frontier exhausted", "steps", stats.Steps)
			return stats, nil
		}
		if result != nil {
			stats.Steps++
			logStep(result)
			if result.Outcome == OutcomeAccepted {
				stats.Accepted++
			} else {
				stats.Discarded++
			}
		}
		if err != nil {
			if isFatal(err) {
				return stats, err
			}
			stats.Errors++
			slog.Error("Crawl step failed", "error", err)
		}
	}

	slog.Info("Crawl limit reached", "steps", stats.Steps)
	return stats, nil
}

func logStep(result *StepResult) {
	switch result.Outcome {
	case OutcomeAccepted:
		slog.Info("Accepted song",
			"video_id", result.VideoID,
			"label", result.Song.Label,
			"genre_id", result.Song.GenreID,
			"expanded", result.Expanded)
	default:
		slog.Info("Discarded candidate",
			"video_id", result.VideoID,
			"label", result.RawLabel,
			"reason", string(result.Outcome))
	}
}

// isFatal reports whether a step error should abort the run. Authorization
// and quota failures will not go away by moving on to the next candidate.
func isFatal(err error) bool {
	return catalog.IsFatal(err) || discovery.IsFatal(err)
}
