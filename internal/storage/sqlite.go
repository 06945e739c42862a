// Package storage provides data persistence for the crawl.
// It implements SQLite-based storage for the genre taxonomy, accepted
// songs, the crawl frontier, and crawl metadata.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chrisjwei/song-scraper/internal/scraper"
	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the scraper.Store and download.Store interfaces
// using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool - single connection prevents lock conflicts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	storage := &SQLiteStorage{db: db}

	if err := storage.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// InitSchema creates the database schema and records the schema version.
func (s *SQLiteStorage) InitSchema() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 30000", // 30 second timeout for locks
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	current, err := s.GetMeta("schema_version")
	if err != nil {
		return err
	}
	switch current {
	case "":
		return s.SetMeta("schema_version", schemaVersion)
	case schemaVersion:
		return nil
	default:
		return fmt.Errorf("unsupported schema version %q (expected %q)", current, schemaVersion)
	}
}

// Reset drops all crawl state and recreates an empty schema. Used by the
// init command when starting a fresh crawl epoch.
func (s *SQLiteStorage) Reset() error {
	drops := []string{
		"DROP TABLE IF EXISTS frontier",
		"DROP TABLE IF EXISTS songs",
		"DROP TABLE IF EXISTS genres",
		"DROP TABLE IF EXISTS crawl_meta",
	}
	for _, drop := range drops {
		if _, err := s.db.Exec(drop); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return s.InitSchema()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// ReplaceGenres stores the genre taxonomy for the current crawl epoch,
// replacing any previous rows. Names are matched lowercased, so callers are
// expected to have lowercased them already.
func (s *SQLiteStorage) ReplaceGenres(genres []scraper.Genre) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM genres"); err != nil {
		return fmt.Errorf("failed to clear genres: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO genres (genre_id, parent_genre_id, name)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, genre := range genres {
		var parent any
		if genre.ParentID != "" {
			parent = genre.ParentID
		}
		if _, err := stmt.Exec(genre.ID, parent, genre.Name); err != nil {
			return fmt.Errorf("failed to insert genre %s: %w", genre.ID, err)
		}
	}

	return tx.Commit()
}

// GenreByName looks up a genre whose stored name equals the given name
// (case-insensitive). Returns nil without error when no genre matches, which
// callers treat as out-of-scope rather than a failure.
func (s *SQLiteStorage) GenreByName(name string) (*scraper.Genre, error) {
	var genre scraper.Genre
	var parent sql.NullString
	err := s.db.QueryRow(`
		SELECT genre_id, parent_genre_id, name
		FROM genres
		WHERE name = lower(?)
	`, name).Scan(&genre.ID, &parent, &genre.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up genre: %w", err)
	}
	genre.ParentID = parent.String
	return &genre, nil
}

// InsertSong records an accepted song. Re-inserting an existing video id is
// a no-op: the row and its download status are left untouched.
func (s *SQLiteStorage) InsertSong(song scraper.Song) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO songs (video_id, label, song_id, genre_id, download_status)
		VALUES (?, ?, ?, ?, ?)
	`, song.VideoID, song.Label, song.SongID, song.GenreID, int(song.Download))

	if err != nil {
		return fmt.Errorf("failed to insert song %s: %w", song.VideoID, err)
	}
	return nil
}

// InsertSongs records a batch of accepted songs in a single transaction,
// with the same ignore-on-conflict semantics as InsertSong.
func (s *SQLiteStorage) InsertSongs(songs []scraper.Song) error {
	if len(songs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO songs (video_id, label, song_id, genre_id, download_status)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, song := range songs {
		if _, err := stmt.Exec(song.VideoID, song.Label, song.SongID, song.GenreID, int(song.Download)); err != nil {
			return fmt.Errorf("failed to insert song %s: %w", song.VideoID, err)
		}
	}

	return tx.Commit()
}

// HasSong reports whether a song with the given video id has already been
// accepted.
func (s *SQLiteStorage) HasSong(videoID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM songs WHERE video_id = ?)
	`, videoID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check song existence: %w", err)
	}
	return exists, nil
}

// AddToFrontier queues candidates for evaluation. Ids already queued are
// ignored. Ids that are already accepted songs may still be queued here;
// the engine discards those at pop time.
func (s *SQLiteStorage) AddToFrontier(entries []scraper.FrontierEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO frontier (video_id, label)
		VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, entry := range entries {
		if _, err := stmt.Exec(entry.VideoID, entry.Label); err != nil {
			return fmt.Errorf("failed to insert frontier entry %s: %w", entry.VideoID, err)
		}
	}

	return tx.Commit()
}

// PopRandomFromFrontier atomically removes one uniformly random candidate
// from the frontier and returns it. The delete-and-return is a single
// statement so two evaluators can never claim the same candidate. Returns
// scraper.ErrEmptyFrontier when no candidates remain.
func (s *SQLiteStorage) PopRandomFromFrontier() (*scraper.FrontierEntry, error) {
	var entry scraper.FrontierEntry

	err := s.db.QueryRow(`
		DELETE FROM frontier
		WHERE video_id = (
			SELECT video_id FROM frontier
			ORDER BY RANDOM()
			LIMIT 1
		)
		RETURNING video_id, label
	`).Scan(&entry.VideoID, &entry.Label)

	if err == sql.ErrNoRows {
		return nil, scraper.ErrEmptyFrontier
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop from frontier: %w", err)
	}

	return &entry, nil
}

// PendingDownloads returns up to limit songs still awaiting download.
func (s *SQLiteStorage) PendingDownloads(limit int) ([]scraper.Song, error) {
	rows, err := s.db.Query(`
		SELECT video_id, label, song_id, genre_id, download_status
		FROM songs
		WHERE download_status = ?
		LIMIT ?
	`, int(scraper.StatusNotDownloaded), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var songs []scraper.Song
	for rows.Next() {
		var song scraper.Song
		var songID sql.NullString
		if err := rows.Scan(&song.VideoID, &song.Label, &songID, &song.GenreID, &song.Download); err != nil {
			return nil, fmt.Errorf("failed to scan pending song: %w", err)
		}
		song.SongID = songID.String
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pending downloads: %w", err)
	}

	return songs, nil
}

// ApplyDownloadStatuses commits a batch of download outcomes in a single
// transaction. Only rows still in the not-downloaded state are updated, so
// a terminal status can never be overwritten.
func (s *SQLiteStorage) ApplyDownloadStatuses(updates []scraper.StatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		UPDATE songs
		SET download_status = ?
		WHERE video_id = ? AND download_status = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, update := range updates {
		if _, err := stmt.Exec(int(update.Status), update.VideoID, int(scraper.StatusNotDownloaded)); err != nil {
			return fmt.Errorf("failed to update status for %s: %w", update.VideoID, err)
		}
	}

	return tx.Commit()
}

// Counts returns row counts for status reporting.
func (s *SQLiteStorage) Counts() (scraper.StoreCounts, error) {
	var counts scraper.StoreCounts

	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM genres),
			(SELECT COUNT(*) FROM songs),
			(SELECT COUNT(*) FROM frontier),
			(SELECT COUNT(*) FROM songs WHERE download_status = 0),
			(SELECT COUNT(*) FROM songs WHERE download_status = 1),
			(SELECT COUNT(*) FROM songs WHERE download_status = 2)
	`).Scan(
		&counts.Genres,
		&counts.Songs,
		&counts.Frontier,
		&counts.NotDownloaded,
		&counts.Downloaded,
		&counts.Failed,
	)
	if err != nil {
		return scraper.StoreCounts{}, fmt.Errorf("failed to get counts: %w", err)
	}

	return counts, nil
}

// GetMeta retrieves a metadata value. Missing keys return an empty string.
func (s *SQLiteStorage) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM crawl_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meta: %w", err)
	}
	return value, nil
}

// SetMeta stores a metadata value.
func (s *SQLiteStorage) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO crawl_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set meta: %w", err)
	}
	return nil
}
