package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show crawl and download progress",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	counts, err := store.Counts()
	if err != nil {
		return err
	}

	crawlID, err := store.GetMeta("crawl_id")
	if err != nil {
		return err
	}
	seededAt, err := store.GetMeta("seeded_at")
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	if crawlID != "" {
		fmt.Printf("Crawl:    %s (seeded %s)\n", crawlID, seededAt)
	}
	fmt.Printf("Genres:   %d\n", counts.Genres)
	fmt.Printf("Frontier: %d candidates\n", counts.Frontier)
	fmt.Printf("Songs:    %d accepted\n", counts.Songs)
	fmt.Printf("  not downloaded: %d\n", counts.NotDownloaded)
	fmt.Printf("  downloaded:     %d\n", counts.Downloaded)
	fmt.Printf("  failed:         %d\n", counts.Failed)
	return nil
}
