package media

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchArguments(t *testing.T) {
	var gotName string
	var gotArgs []string

	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		// "true" exits 0 without touching the arguments.
		return exec.CommandContext(ctx, "true")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	destDir := t.TempDir()
	if err := cli.Fetch(context.Background(), "abc123", destDir); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotName != "yt-dlp" {
		t.Errorf("Expected yt-dlp binary, got %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"--extract-audio",
		"--audio-format mp3",
		"--audio-quality 192K",
		filepath.Join(destDir, "%(id)s.%(ext)s"),
		"https://www.youtube.com/watch?v=abc123",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected args to contain %q, got %q", want, joined)
		}
	}
}

func TestFetchEmptyVideoID(t *testing.T) {
	cli := NewCLI()
	err := cli.Fetch(context.Background(), "", t.TempDir())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if errors.Is(err, ErrConnectivity) {
		t.Error("Empty video id must not classify as connectivity failure")
	}
}

func TestFetchMissingBinary(t *testing.T) {
	cli := NewCLI(WithBinary("definitely-not-a-real-downloader-binary"))
	err := cli.Fetch(context.Background(), "abc123", t.TempDir())
	if err == nil {
		t.Fatal("Expected error for missing binary")
	}
	// A binary that never ran is a permanent failure, not a network one.
	if errors.Is(err, ErrConnectivity) {
		t.Errorf("Missing binary misclassified as connectivity failure: %v", err)
	}
}

func TestFetchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli := NewCLI(WithBinary("true"))
	err := cli.Fetch(ctx, "abc123", t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	cli := NewCLI(WithBinary("youtube-dl"), WithWatchURL("https://example.com/v/"))
	if cli.binary != "youtube-dl" {
		t.Errorf("Expected binary override, got %q", cli.binary)
	}
	if cli.watchURL != "https://example.com/v/" {
		t.Errorf("Expected watch URL override, got %q", cli.watchURL)
	}

	// Empty overrides keep the defaults.
	cli = NewCLI(WithBinary(""), WithWatchURL(""))
	if cli.binary != "yt-dlp" || cli.watchURL != defaultWatchURL {
		t.Errorf("Expected defaults for empty overrides, got %+v", cli)
	}
}

func TestIsConnectivityFailure(t *testing.T) {
	// A real exit error to satisfy the exec.ExitError requirement.
	exitErr := exec.Command("false").Run()
	if exitErr == nil {
		t.Fatal("Expected false to exit non-zero")
	}

	tests := []struct {
		name   string
		err    error
		detail string
		want   bool
	}{
		{
			name:   "UnableToDownload",
			err:    exitErr,
			detail: "ERROR: Unable to download webpage: <urlopen error>",
			want:   true,
		},
		{
			name:   "ConnectionReset",
			err:    exitErr,
			detail: "error: connection reset by peer",
			want:   true,
		},
		{
			name:   "TimedOut",
			err:    exitErr,
			detail: "ERROR: The read operation timed out",
			want:   true,
		},
		{
			name:   "NameResolution",
			err:    exitErr,
			detail: "Temporary failure in name resolution",
			want:   true,
		},
		{
			name:   "PermanentFailure",
			err:    exitErr,
			detail: "ERROR: Video unavailable",
			want:   false,
		},
		{
			name:   "BinaryNeverRan",
			err:    errors.New("exec: \"yt-dlp\": executable file not found in $PATH"),
			detail: "connection reset",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectivityFailure(tt.err, tt.detail); got != tt.want {
				t.Errorf("isConnectivityFailure(%v, %q) = %v, want %v", tt.err, tt.detail, got, tt.want)
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "MultiLine", output: "line one\nline two\nERROR: it broke\n", want: "ERROR: it broke"},
		{name: "SingleLine", output: "only line", want: "only line"},
		{name: "TrailingWhitespace", output: "first\n  padded last  \n\n", want: "padded last"},
		{name: "Empty", output: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine(tt.output); got != tt.want {
				t.Errorf("lastLine(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}
