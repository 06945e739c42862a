package scraper

import (
	"context"

	"github.com/chrisjwei/song-scraper/internal/catalog"
	"github.com/chrisjwei/song-scraper/internal/discovery"
)

// Store handles crawl state persistence.
type Store interface {
	// Genre taxonomy (loaded once per crawl epoch)
	ReplaceGenres(genres []Genre) error
	GenreByName(name string) (*Genre, error)

	// Accepted songs (ignore-on-conflict inserts)
	InsertSong(song Song) error
	InsertSongs(songs []Song) error
	HasSong(videoID string) (bool, error)

	// Frontier
	AddToFrontier(entries []FrontierEntry) error
	PopRandomFromFrontier() (*FrontierEntry, error)

	// Reporting and run metadata
	Counts() (StoreCounts, error)
	SetMeta(key, value string) error
}

// Catalog is the authoritative metadata service used to validate and
// canonicalize discovered candidates.
type Catalog interface {
	GenreTaxonomy(ctx context.Context) ([]catalog.Genre, error)
	TopSongs(ctx context.Context, genreID string, limit int) ([]catalog.SeedTrack, error)
	SearchSong(ctx context.Context, term string) (*catalog.SongResult, error)
}

// Discovery is the related-item service used to grow the frontier graph.
type Discovery interface {
	Related(ctx context.Context, videoID string, n int, strategy discovery.Strategy) ([]discovery.Item, error)
	Search(ctx context.Context, query string, n int) ([]discovery.Item, error)
}
