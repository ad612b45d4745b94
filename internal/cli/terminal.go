package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mid-diary/mid/internal/dialogue"
	"github.com/mid-diary/mid/internal/store"
	"github.com/mid-diary/mid/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "terminal",
		Short: "Open the interactive diary terminal",
		Run:   runTerminal,
	}

	RootCmd.AddCommand(cmd)
}

func runTerminal(cmd *cobra.Command, args []string) {
	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	engine := dialogue.New(dialogue.Options{
		Store:   s,
		Media:   s,
		Journal: store.NewJournal(cfg.JournalPath),
		Logger:  newLogger(cfg.LogFile),
		User:    cfg.User,
	})

	if err := tui.Run(engine); err != nil {
		exitErr("terminal", err)
	}
}

// newLogger writes structured logs to a file. Stdout belongs to the
// terminal UI, so an empty path disables logging entirely.
func newLogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	c := zap.NewProductionConfig()
	c.OutputPaths = []string{path}
	c.ErrorOutputPaths = []string{path}
	log, err := c.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
