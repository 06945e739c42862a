package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisjwei/song-scraper/internal/download"
	"github.com/chrisjwei/song-scraper/internal/media"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the audio of accepted songs",
	Long: `Download scans the database for accepted songs not yet fetched and
retrieves their audio in batches, placing each file under
<download-path>/<genre-id>/. Connectivity failures stay pending and are
retried on the next run; other failures are marked failed and never
retried.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().IntP("batch-size", "n", 10, "Pending songs per download batch")
	downloadCmd.Flags().Int("max-attempts", 3, "In-pass retries for connectivity failures")
	downloadCmd.Flags().String("fetcher-binary", "yt-dlp", "Media fetch binary to invoke")

	for _, bind := range []struct{ viperKey, flagName string }{
		{"batch_size", "batch-size"},
		{"max_attempts", "max-attempts"},
		{"fetcher_binary", "fetcher-binary"},
	} {
		if err := viper.BindPFlag(bind.viperKey, downloadCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("no database found at %s; run 'songscraper init' first", cfg.DatabasePath)
	}
	if err := os.MkdirAll(cfg.DownloadPath, 0750); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fetcher := media.NewCLI(media.WithBinary(viper.GetString("fetcher_binary")))
	driver := download.NewDriver(store, fetcher, download.Config{
		BatchSize:   cfg.BatchSize,
		BasePath:    cfg.DownloadPath,
		MaxAttempts: cfg.MaxAttempts,
	})

	stats, err := driver.Run(cmd.Context())
	fmt.Printf("Download finished: %d batches, %d downloaded, %d failed, %d left pending\n",
		stats.Batches, stats.Downloaded, stats.Failed, stats.Connectivity)
	return err
}
