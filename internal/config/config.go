// Package config provides configuration management for the scraper.
// It defines configuration structures and default values for crawl,
// seeding, and download parameters.
package config

import (
	"os"
	"time"
)

// Config holds the full tool configuration.
type Config struct {
	// Storage and output
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // Path to SQLite database file
	DownloadPath string `mapstructure:"download_path" yaml:"download_path"` // Root directory for downloaded audio

	// Discovery service credentials. APIKeyEnv names an environment
	// variable consulted when APIKey itself is empty.
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	APIKeyEnv string `mapstructure:"api_key_env" yaml:"api_key_env"`

	// Seeding
	SeedGenres []string `mapstructure:"seed_genres" yaml:"seed_genres"` // Genre names to seed from (empty = all)
	SeedLimit  int      `mapstructure:"seed_limit" yaml:"seed_limit"`   // Top songs per seed genre

	// Crawl
	ScrapeLimit     int    `mapstructure:"scrape_limit" yaml:"scrape_limit"`         // Stop after N evaluation steps (0=until exhausted)
	RelatedCount    int    `mapstructure:"related_count" yaml:"related_count"`       // Frontier entries per accepted song
	RelatedStrategy string `mapstructure:"related_strategy" yaml:"related_strategy"` // 'top' or 'random'

	// Download
	BatchSize   int `mapstructure:"batch_size" yaml:"batch_size"`     // Pending songs per download batch
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"` // In-pass retries for connectivity failures

	// HTTP
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // Per-request timeout
	RequestDelay   time.Duration `mapstructure:"request_delay" yaml:"request_delay"`     // Delay between requests per host
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent header

	// Service endpoints (overridable for testing)
	CatalogBaseURL   string `mapstructure:"catalog_base_url" yaml:"catalog_base_url"`
	DiscoveryBaseURL string `mapstructure:"discovery_base_url" yaml:"discovery_base_url"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:     "./songscraper.db",
		DownloadPath:     "./downloads",
		APIKeyEnv:        "SONGSCRAPER_API_KEY",
		SeedLimit:        1,
		ScrapeLimit:      100,
		RelatedCount:     5,
		RelatedStrategy:  "random",
		BatchSize:        10,
		MaxAttempts:      3,
		RequestTimeout:   30 * time.Second,
		RequestDelay:     200 * time.Millisecond,
		UserAgent:        "SongScraper/1.0",
		CatalogBaseURL:   "https://itunes.apple.com",
		DiscoveryBaseURL: "https://www.googleapis.com/youtube/v3",
		LogLevel:         "info",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return ErrEmptyDatabasePath
	}
	if c.DownloadPath == "" {
		return ErrEmptyDownloadPath
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RelatedCount <= 0 {
		return ErrInvalidRelatedCount
	}
	if c.RelatedStrategy != "top" && c.RelatedStrategy != "random" {
		return ErrInvalidStrategy
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Enforce a floor so misconfiguration cannot hammer the providers
	if c.RequestDelay < 100*time.Millisecond {
		c.RequestDelay = 100 * time.Millisecond
	}

	return nil
}

// ResolveAPIKey returns the discovery API key, consulting the configured
// environment variable when the literal key is unset.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	if c.APIKeyEnv != "" {
		if key := os.Getenv(c.APIKeyEnv); key != "" {
			return key, nil
		}
	}
	return "", ErrMissingAPIKey
}
