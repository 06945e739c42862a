package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisjwei/song-scraper/internal/scraper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and seed the first frontier",
	Long: `Init wipes any existing crawl state, loads the genre taxonomy from the
catalog, seeds the top songs of each configured genre, and queues their
related videos as the first frontier. Run it once per crawl epoch, then
use 'scrape' to grow the collection incrementally.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringSlice("seed-genres", nil, "Genre names to seed from (default: all genres)")
	initCmd.Flags().Int("seed-limit", 1, "Top songs to seed per genre")
	initCmd.Flags().Bool("force", false, "Overwrite an existing database without prompting")

	for _, bind := range []struct{ viperKey, flagName string }{
		{"seed_genres", "seed-genres"},
		{"seed_limit", "seed-limit"},
	} {
		if err := viper.BindPFlag(bind.viperKey, initCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(cfg.DatabasePath); err == nil && !force {
		return fmt.Errorf("database %s already exists; use --force to wipe it and start a new crawl", cfg.DatabasePath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Reset(); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}

	engine, api, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}
	defer api.Close()

	return engine.Seed(cmd.Context(), scraper.SeedOptions{
		Genres:   cfg.SeedGenres,
		PerGenre: cfg.SeedLimit,
	})
}
