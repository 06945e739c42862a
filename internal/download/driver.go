// Package download implements the resumable batch download pass over
// accepted songs. It scans for songs not yet fetched, invokes the media
// fetch subsystem for each, and commits the per-batch outcomes in a single
// transaction.
package download

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/chrisjwei/song-scraper/internal/media"
	"github.com/chrisjwei/song-scraper/internal/scraper"
)

// Store is the slice of persistence the driver needs.
type Store interface {
	PendingDownloads(limit int) ([]scraper.Song, error)
	ApplyDownloadStatuses(updates []scraper.StatusUpdate) error
}

// Config holds download driver tuning.
type Config struct {
	// BatchSize is how many pending songs are claimed per batch.
	BatchSize int
	// BasePath is the download root; each song lands under its genre id.
	BasePath string
	// MaxAttempts caps in-pass retries for connectivity failures.
	MaxAttempts int
}

// Stats aggregates the outcomes of a driver run.
type Stats struct {
	Batches      int
	Downloaded   int
	Failed       int
	Connectivity int // songs left not-downloaded for a future pass
}

// Driver runs download passes until no pending songs remain.
type Driver struct {
	store   Store
	fetcher media.Fetcher
	retry   *RetryPolicy
	cfg     Config
}

// NewDriver creates a download driver.
func NewDriver(store Store, fetcher media.Fetcher, cfg Config) *Driver {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 10
	}
	return &Driver{
		store:   store,
		fetcher: fetcher,
		retry:   NewRetryPolicy(cfg.MaxAttempts),
		cfg:     cfg,
	}
}

// Run processes batches of pending songs until the store has none left.
//
// Each song gets exactly one terminal outcome per pass: downloaded, failed,
// or (for connectivity failures that survive the retry cap) left pending
// for a future pass. A batch whose every song was a connectivity failure
// means the next batch would be identical, so the run stops there instead
// of spinning against a dead network.
func (d *Driver) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		batch, err := d.store.PendingDownloads(d.cfg.BatchSize)
		if err != nil {
			return stats, err
		}
		if len(batch) == 0 {
			slog.Info("No pending downloads remain",
				"batches", stats.Batches,
				"downloaded", stats.Downloaded,
				"failed", stats.Failed)
			return stats, nil
		}
		stats.Batches++

		updates := make([]scraper.StatusUpdate, 0, len(batch))
		progressed := 0
		for _, song := range batch {
			status, err := d.fetchOne(ctx, song)
			if err != nil {
				// Only cancellation escapes fetchOne; commit what this
				// batch already decided before giving up.
				if applyErr := d.store.ApplyDownloadStatuses(updates); applyErr != nil {
					slog.Error("Failed to commit partial batch", "error", applyErr)
				}
				return stats, err
			}

			switch status {
			case scraper.StatusDownloaded:
				stats.Downloaded++
				progressed++
				updates = append(updates, scraper.StatusUpdate{VideoID: song.VideoID, Status: status})
			case scraper.StatusFailed:
				stats.Failed++
				progressed++
				updates = append(updates, scraper.StatusUpdate{VideoID: song.VideoID, Status: status})
			case scraper.StatusNotDownloaded:
				// Connectivity failure past the retry cap: the row keeps
				// its pending status and a later pass retries it.
				stats.Connectivity++
			}
		}

		if err := d.store.ApplyDownloadStatuses(updates); err != nil {
			return stats, err
		}
		slog.Info("Committed download batch",
			"batch", stats.Batches,
			"size", len(batch),
			"progressed", progressed)

		if progressed == 0 {
			slog.Warn("Download pass made no progress, stopping",
				"connectivity_failures", stats.Connectivity)
			return stats, nil
		}
	}
}

// fetchOne attempts a single song, retrying connectivity failures per the
// policy, and returns the status to persist. A returned error means ctx
// was cancelled.
func (d *Driver) fetchOne(ctx context.Context, song scraper.Song) (scraper.DownloadStatus, error) {
	destDir := filepath.Join(d.cfg.BasePath, song.GenreID)

	var err error
	for attempt := 0; ; attempt++ {
		err = d.fetcher.Fetch(ctx, song.VideoID, destDir)
		if err == nil {
			slog.Info("Downloaded song", "video_id", song.VideoID, "label", song.Label)
			return scraper.StatusDownloaded, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return scraper.StatusNotDownloaded, err
		}
		if !d.retry.ShouldRetry(err, attempt+1) {
			break
		}

		wait := d.retry.Backoff(attempt)
		slog.Warn("Fetch failed, retrying",
			"video_id", song.VideoID,
			"attempt", attempt+1,
			"backoff", wait,
			"error", err)
		select {
		case <-ctx.Done():
			return scraper.StatusNotDownloaded, ctx.Err()
		case <-time.After(wait):
		}
	}

	if errors.Is(err, media.ErrConnectivity) {
		slog.Warn("Connectivity failure, leaving song pending",
			"video_id", song.VideoID, "error", err)
		return scraper.StatusNotDownloaded, nil
	}

	slog.Error("Permanent fetch failure", "video_id", song.VideoID, "error", err)
	return scraper.StatusFailed, nil
}
