// Package config loads diary settings from MID_-prefixed environment
// variables. Paths left empty resolve under ~/.mid.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings for the diary.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `envconfig:"DB" default:""`

	// MediaDir holds uploaded image files.
	MediaDir string `envconfig:"MEDIA_DIR" default:""`

	// JournalPath is the append-only fallback log used when the store is
	// unavailable at save time.
	JournalPath string `envconfig:"JOURNAL" default:""`

	// LogFile receives structured logs. Empty disables file logging; the
	// terminal UI owns stdout, so logs never go there.
	LogFile string `envconfig:"LOG_FILE" default:""`

	// User scopes every memory. Defaults to $USER when unset.
	User string `envconfig:"USER" default:""`
}

// New parses MID_-prefixed environment variables and fills in defaults.
// Example: MID_DB=/tmp/diary.db MID_USER=amy.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MID", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.resolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolveDefaults() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	base := filepath.Join(home, ".mid")

	if c.DBPath == "" {
		c.DBPath = filepath.Join(base, "diary.db")
	}
	if c.MediaDir == "" {
		c.MediaDir = filepath.Join(base, "media")
	}
	if c.JournalPath == "" {
		c.JournalPath = filepath.Join(base, "journal.jsonl")
	}
	if c.User == "" {
		c.User = os.Getenv("USER")
	}
	if c.User == "" {
		c.User = "diarist"
	}
	return nil
}
