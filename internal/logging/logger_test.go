package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "scraper.log")

	config := *DefaultConfig()
	config.Console = false
	config.FilePath = logFile
	config.Level = slog.LevelInfo

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("Test message", "video_id", "abc123")
	logger.Debug("Filtered message")

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(content, &record); err != nil {
		t.Fatalf("Log output is not a single JSON record: %v\n%s", err, content)
	}
	if record["msg"] != "Test message" {
		t.Errorf("Unexpected message: %v", record["msg"])
	}
	if record["video_id"] != "abc123" {
		t.Errorf("Expected structured attribute, got %v", record)
	}
}

func TestRotatingFileWriter(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	writer, err := NewRotatingFileWriter(logFile, 100, 2)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer func() { _ = writer.Close() }()

	line := make([]byte, 60)
	for i := range line {
		line[i] = 'x'
	}

	// Two writes exceed the 100-byte cap, forcing one rotation.
	for i := 0; i < 2; i++ {
		if _, err := writer.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("Active log file missing: %v", err)
	}
	if _, err := os.Stat(logFile + ".1"); err != nil {
		t.Errorf("Expected backup after rotation: %v", err)
	}
}

func TestRotatingFileWriterDropsOldestBackup(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	writer, err := NewRotatingFileWriter(logFile, 10, 2)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer func() { _ = writer.Close() }()

	// Each write forces a rotation; with maxBackups=2 only two backups
	// may survive any number of rotations.
	for i := 0; i < 5; i++ {
		if _, err := writer.Write([]byte("0123456789AB")); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logFile + ".1"); err != nil {
		t.Errorf("Expected backup .1: %v", err)
	}
	if _, err := os.Stat(logFile + ".2"); err != nil {
		t.Errorf("Expected backup .2: %v", err)
	}
	if _, err := os.Stat(logFile + ".3"); err == nil {
		t.Error("Backup beyond maxBackups was kept")
	}
}

func TestRotatingFileWriterResumesExistingFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	if err := os.WriteFile(logFile, []byte("existing"), 0600); err != nil {
		t.Fatalf("Failed to seed log file: %v", err)
	}

	writer, err := NewRotatingFileWriter(logFile, 1024, 2)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write([]byte(" appended")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if string(content) != "existing appended" {
		t.Errorf("Expected append to existing file, got %q", content)
	}
}
