package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actsync.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RefreshCron == "" || cfg.Listen == "" {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("first run did not create the config file: %v", err)
	}

	info, err := os.Stat(path)
	if err == nil && info.Mode().Perm() != 0o600 {
		t.Errorf("config perms = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actsync.yml")

	cfg := DefaultConfig()
	cfg.Destinations = []string{"spreadsheet"}
	cfg.SpreadsheetAccount = "me@example.com"
	cfg.Sources = []Source{
		{Platform: "google", Account: "me@example.com", CalendarID: "primary"},
		{Platform: "ics", CalendarID: "https://example.com/cal.ics"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Sources) != 2 || got.Sources[1].Platform != "ics" {
		t.Errorf("Sources = %+v", got.Sources)
	}
	if got.SpreadsheetAccount != "me@example.com" {
		t.Errorf("SpreadsheetAccount = %q", got.SpreadsheetAccount)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{WindowPastDays: -1, RetentionDays: -5}
	cfg.Normalize()

	if cfg.WindowPastDays <= 0 || cfg.WindowFutureDays <= 0 {
		t.Errorf("window not defaulted: %+v", cfg)
	}
	if cfg.RetentionDays != 0 {
		t.Errorf("RetentionDays = %d, want 0", cfg.RetentionDays)
	}
	if cfg.RefreshCron == "" {
		t.Error("RefreshCron not defaulted")
	}
}
