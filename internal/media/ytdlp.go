package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

const defaultWatchURL = "https://www.youtube.com/watch?v="

// Option configures the CLI fetcher.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithWatchURL overrides the URL prefix a video id is appended to.
func WithWatchURL(prefix string) Option {
	return func(c *CLI) {
		if prefix != "" {
			c.watchURL = prefix
		}
	}
}

// CLI wraps the yt-dlp command-line downloader, extracting audio to mp3 at
// 192k as it fetches.
type CLI struct {
	binary   string
	watchURL string
}

// NewCLI constructs a CLI fetcher using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{
		binary:   "yt-dlp",
		watchURL: defaultWatchURL,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Fetch downloads the audio for videoID into destDir as {id}.{ext}.
func (c *CLI) Fetch(ctx context.Context, videoID, destDir string) error {
	if videoID == "" {
		return &FetchError{VideoID: videoID, Detail: "empty video id"}
	}
	if err := os.MkdirAll(destDir, 0750); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	args := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--output", filepath.Join(destDir, "%(id)s.%(ext)s"),
		c.watchURL + videoID,
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	detail := lastLine(string(output))
	if detail == "" {
		detail = err.Error()
	}
	if isConnectivityFailure(err, detail) {
		return fmt.Errorf("%w: %s: %s", ErrConnectivity, videoID, detail)
	}
	return &FetchError{VideoID: videoID, Detail: detail}
}

// isConnectivityFailure decides whether a failed invocation looks like a
// network problem. The downloader reports these only as text, so this is a
// marker scan over its final output.
func isConnectivityFailure(err error, detail string) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The binary never ran (not found, not executable): not a
		// network condition, and retrying will not change it.
		return false
	}

	lowered := strings.ToLower(detail)
	for _, marker := range []string{
		"unable to download",
		"connection reset",
		"connection refused",
		"timed out",
		"temporary failure in name resolution",
		"network is unreachable",
	} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
