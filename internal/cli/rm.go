package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mid-diary/mid/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete memories",
		Long:  "Delete one memory by id, or bulk delete with --all, --tags, or --category.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("all", false, "Delete ALL memories (irreversible)")
	cmd.Flags().StringP("tags", "t", "", "Delete memories with any of these tags")
	cmd.Flags().StringP("category", "c", "", "Delete memories in this category")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	tagsStr, _ := cmd.Flags().GetString("tags")
	category, _ := cmd.Flags().GetString("category")

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if len(args) == 1 {
		if err := s.Delete(cmd.Context(), cfg.User, args[0]); err != nil {
			exitErr("rm", err)
		}
		fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
		return
	}

	n, err := s.BulkDelete(cmd.Context(), store.BulkDeleteParams{
		User:      cfg.User,
		DeleteAll: all,
		Tags:      splitTags(tagsStr),
		Category:  category,
	})
	if err != nil {
		exitErr("rm", err)
	}
	fmt.Printf(`{"ok":true,"deleted":%d}`+"\n", n)
}
