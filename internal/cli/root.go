// Package cli implements the mid command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mid-diary/mid/internal/config"
	"github.com/mid-diary/mid/internal/store"
)

var (
	dbPath     string
	mediaDir   string
	userFlag   string
	formatFlag string
)

// RootCmd is the top-level command. Running it bare starts the terminal.
var RootCmd = &cobra.Command{
	Use:   "mid",
	Short: "MiD, a personal diary in your terminal",
	Long:  "A diary you talk to. Plain text, tables, lists, timelines, and pictures, stored in SQLite. Run without arguments for the interactive terminal.",
	Run:   runTerminal,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MID_DB or ~/.mid/diary.db)")
	RootCmd.PersistentFlags().StringVar(&mediaDir, "media-dir", "", "Image directory (default: $MID_MEDIA_DIR or ~/.mid/media)")
	RootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Diary owner (default: $MID_USER or $USER)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// loadConfig merges env-backed defaults with the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if mediaDir != "" {
		cfg.MediaDir = mediaDir
	}
	if userFlag != "" {
		cfg.User = userFlag
	}
	return cfg, nil
}

func openStore() (*store.SQLiteStore, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cfg.DBPath, cfg.MediaDir)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
