package cli

import (
	"github.com/spf13/cobra"

	"github.com/mid-diary/mid/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one memory or list memories",
		Long:  "With an id, print one memory. Without, list memories newest first, optionally filtered.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runShow,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("tags", "t", "", "Filter by tags (comma-separated, any match)")
	cmd.Flags().String("type", "", "Filter by type: text, table, list, timeline, image")
	cmd.Flags().String("date", "", "Filter by creation day (YYYY-MM-DD)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if len(args) == 1 {
		mem, err := s.Get(cmd.Context(), cfg.User, args[0])
		if err != nil {
			exitErr("show", err)
		}
		printMemory(mem)
		return
	}

	category, _ := cmd.Flags().GetString("category")
	tagsStr, _ := cmd.Flags().GetString("tags")
	typeFlag, _ := cmd.Flags().GetString("type")
	date, _ := cmd.Flags().GetString("date")
	limit, _ := cmd.Flags().GetInt("limit")

	memories, err := s.List(cmd.Context(), store.ListParams{
		User:     cfg.User,
		Category: category,
		Type:     typeFlag,
		Tags:     splitTags(tagsStr),
		Date:     date,
		Limit:    limit,
	})
	if err != nil {
		exitErr("show", err)
	}

	printMemories(memories)
}
