package main

import (
	"os"
	"testing"

	"github.com/chrisjwei/song-scraper/internal/cmd"
)

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty string")
	}
	if BuildTime == "" {
		t.Error("BuildTime should not be empty string")
	}

	cmd.SetVersionInfo(Version, BuildTime)
}

func TestExecuteHelp(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	// main itself calls os.Exit on failure, so exercise the command
	// execution it delegates to.
	os.Args = []string{"songscraper", "--help"}
	if err := cmd.Execute(); err != nil {
		t.Errorf("Execute with --help failed: %v", err)
	}
}

func TestExecuteVersion(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	cmd.SetVersionInfo("test-version", "test-build-time")
	os.Args = []string{"songscraper", "--version"}
	if err := cmd.Execute(); err != nil {
		t.Errorf("Execute with --version failed: %v", err)
	}
}
