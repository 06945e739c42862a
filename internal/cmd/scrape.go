package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Evaluate candidates from the frontier",
	Long: `Scrape resumes the crawl from the existing database: it repeatedly pops
a random candidate from the frontier, reconciles it against the catalog,
records accepted songs, and queues each accepted song's related videos.

The loop stops at the step limit, when the frontier is exhausted, or on
an authorization/quota failure from an external service.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().IntP("limit", "l", 100, "Stop after N evaluation steps (0 = until exhausted)")

	if err := viper.BindPFlag("scrape_limit", scrapeCmd.Flags().Lookup("limit")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind flag limit: %v\n", err)
	}

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("no database found at %s; run 'songscraper init' first", cfg.DatabasePath)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine, api, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}
	defer api.Close()

	stats, err := engine.Run(cmd.Context(), cfg.ScrapeLimit)
	fmt.Printf("Crawl finished: %d steps, %d accepted, %d discarded, %d errors\n",
		stats.Steps, stats.Accepted, stats.Discarded, stats.Errors)
	return err
}
