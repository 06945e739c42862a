package config

import "errors"

var (
	// ErrEmptyDatabasePath is returned when database path is empty
	ErrEmptyDatabasePath = errors.New("database_path cannot be empty")
	// ErrEmptyDownloadPath is returned when download path is empty
	ErrEmptyDownloadPath = errors.New("download_path cannot be empty")
	// ErrInvalidTimeout is returned when request timeout is not greater than 0
	ErrInvalidTimeout = errors.New("request_timeout must be greater than 0")
	// ErrInvalidRelatedCount is returned when related_count is not greater than 0
	ErrInvalidRelatedCount = errors.New("related_count must be greater than 0")
	// ErrInvalidStrategy is returned when related_strategy is not a known value
	ErrInvalidStrategy = errors.New("related_strategy must be 'top' or 'random'")
	// ErrInvalidBatchSize is returned when batch_size is not greater than 0
	ErrInvalidBatchSize = errors.New("batch_size must be greater than 0")
	// ErrMissingAPIKey is returned when no discovery API key is configured
	ErrMissingAPIKey = errors.New("no API key configured (set api_key or api_key_env)")
)
