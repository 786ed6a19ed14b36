// Package config holds the YAML application configuration and the
// .env-sourced secrets. The YAML file describes what to sync (sources,
// destinations, schedule); credentials never live in it.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source is one configured calendar to ingest from.
type Source struct {
	// Platform selects the adapter: "google" or "ics".
	Platform string `yaml:"platform"`
	// Account is the account name (e-mail) for platforms that need
	// stored credentials. Unused for ics.
	Account string `yaml:"account,omitempty"`
	// CalendarID is the provider calendar id for google ("primary" or
	// an explicit id) or the subscription URL for ics.
	CalendarID string `yaml:"calendar_id"`
}

type Config struct {
	// RefreshCron schedules the ingest+sync cycle in serve mode
	// (e.g. "*/30 * * * *").
	RefreshCron string `yaml:"refresh"`

	// Listen is the HTTP address for /metrics and /health in serve mode.
	Listen string `yaml:"listen"`

	// WindowPastDays/WindowFutureDays bound the ingest fetch window
	// around the current day.
	WindowPastDays   int `yaml:"window_past_days"`
	WindowFutureDays int `yaml:"window_future_days"`

	// RetentionDays drops ledger events older than this many days
	// during a cycle. Zero keeps everything.
	RetentionDays int `yaml:"retention_days"`

	// RulesFile optionally overrides the built-in keyword ruleset.
	RulesFile string `yaml:"rules_file,omitempty"`

	// SpreadsheetAccount is the account whose credentials the sheets
	// destination uses.
	SpreadsheetAccount string `yaml:"spreadsheet_account,omitempty"`

	// Destinations lists the enabled destinations ("spreadsheet",
	// "document_db").
	Destinations []string `yaml:"destinations"`

	Sources []Source `yaml:"sources"`
}

func DefaultConfig() *Config {
	return &Config{
		RefreshCron:      "*/30 * * * *",
		Listen:           "127.0.0.1:9180",
		WindowPastDays:   7,
		WindowFutureDays: 30,
		RetentionDays:    0,
		Destinations:     []string{},
		Sources:          []Source{},
	}
}

// Normalize fills zero values so older or partial configs keep working.
func (c *Config) Normalize() {
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:9180"
	}
	if c.WindowPastDays <= 0 {
		c.WindowPastDays = 7
	}
	if c.WindowFutureDays <= 0 {
		c.WindowFutureDays = 30
	}
	if c.RetentionDays < 0 {
		c.RetentionDays = 0
	}
	if c.Destinations == nil {
		c.Destinations = []string{}
	}
	if c.Sources == nil {
		c.Sources = []Source{}
	}
}

// Load reads the YAML config. A missing file is a first run: a default
// config is written (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".actsync-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Secrets are read from the environment, with .env as a convenience.
type Secrets struct {
	// GoogleCredentialsFile is the OAuth client credentials JSON used
	// by both the calendar source and the sheets destination.
	GoogleCredentialsFile string

	// DocDBBaseURL, DocDBToken and DocDBDatabaseID configure the
	// document database destination.
	DocDBBaseURL    string
	DocDBToken      string
	DocDBDatabaseID string
}

func LoadSecrets() *Secrets {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Secrets{
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		DocDBBaseURL:          getEnv("DOCDB_BASE_URL", "https://api.notion.com"),
		DocDBToken:            os.Getenv("DOCDB_TOKEN"),
		DocDBDatabaseID:       os.Getenv("DOCDB_DATABASE_ID"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
