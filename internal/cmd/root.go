// Package cmd provides the command-line interface for song-scraper.
// It handles command parsing, configuration loading, and wiring the
// storage, gateways, engine, and download driver together.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chrisjwei/song-scraper/internal/catalog"
	"github.com/chrisjwei/song-scraper/internal/config"
	"github.com/chrisjwei/song-scraper/internal/discovery"
	"github.com/chrisjwei/song-scraper/internal/logging"
	"github.com/chrisjwei/song-scraper/internal/scraper"
	"github.com/chrisjwei/song-scraper/internal/storage"
	"github.com/chrisjwei/song-scraper/internal/webapi"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "songscraper",
	Short: "A music discovery crawler and downloader",
	Long: `SongScraper discovers music by crawling related videos outward from
the top songs of each catalog genre, reconciles every candidate against
the catalog, and downloads the audio of accepted songs.

The crawl state lives in a SQLite database, so scraping and downloading
can be stopped and resumed at any point.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI under ctx so a stop signal cancels whatever
// loop is running at its next step boundary.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./songscraper.yml)")

	rootCmd.PersistentFlags().StringP("database", "d", "./songscraper.db", "Path to SQLite database file")
	rootCmd.PersistentFlags().StringP("download-path", "o", "./downloads", "Root directory for downloaded audio")
	rootCmd.PersistentFlags().String("api-key", "", "Discovery service API key")
	rootCmd.PersistentFlags().String("api-key-env", "SONGSCRAPER_API_KEY", "Environment variable holding the API key")
	rootCmd.PersistentFlags().DurationP("timeout", "t", 30*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().Duration("delay", 200*time.Millisecond, "Delay between requests per API host")
	rootCmd.PersistentFlags().Int("related-count", 5, "Related videos queued per accepted song")
	rootCmd.PersistentFlags().String("related-strategy", "random", "Related video selection: 'top' or 'random'")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (console only if empty)")

	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")
	rootCmd.RunE = runRoot

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"database_path", "database"},
		{"download_path", "download-path"},
		{"api_key", "api-key"},
		{"api_key_env", "api-key-env"},
		{"request_timeout", "timeout"},
		{"request_delay", "delay"},
		{"related_count", "related-count"},
		{"related_strategy", "related-strategy"},
		{"log_level", "log-level"},
		{"log_file", "log-file"},
	}

	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.PersistentFlags().Lookup(bind.flagName)); err != nil {
			// Non-critical for operation
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("songscraper")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SONGSCRAPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file, environment variables, and
// flags into a validated Config.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(viper.GetString("log_level"))
	logCfg.FilePath = viper.GetString("log_file")
	return logging.SetDefault(*logCfg)
}

func runRoot(cmd *cobra.Command, args []string) error {
	showConfig, _ := cmd.Flags().GetBool("show-config")
	if !showConfig {
		return cmd.Help()
	}

	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: configuration validation failed: %v\n\n", err)
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Printf("# Current SongScraper Configuration\n")
	fmt.Printf("# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Printf("# Configuration file search paths: ./songscraper.yml\n")
	fmt.Printf("# Environment variables prefix: SONGSCRAPER_\n\n")
	fmt.Print(string(yamlData))
	return nil
}

// openStore opens the configured database, creating it if needed.
func openStore(cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}
	return store, nil
}

// buildEngine wires the gateways and store into a frontier engine.
func buildEngine(cfg *config.Config, store *storage.SQLiteStorage) (*scraper.Engine, *webapi.Client, error) {
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, nil, err
	}

	api := webapi.NewClient(cfg.UserAgent, cfg.RequestTimeout, cfg.RequestDelay)
	catalogClient := catalog.NewClient(api, cfg.CatalogBaseURL)
	discoveryClient := discovery.NewClient(api, cfg.DiscoveryBaseURL, apiKey)

	engine := scraper.NewEngine(store, catalogClient, discoveryClient, scraper.Config{
		RelatedPerSong:  cfg.RelatedCount,
		RelatedStrategy: discovery.Strategy(cfg.RelatedStrategy),
	})
	return engine, api, nil
}
