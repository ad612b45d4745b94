package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mid-diary/mid/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags with usage counts",
		Run:   runTags,
	}

	cmd.Flags().Bool("categories", false, "List categories instead of tags")

	RootCmd.AddCommand(cmd)
}

func runTags(cmd *cobra.Command, args []string) {
	categories, _ := cmd.Flags().GetBool("categories")

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var counts []store.NameCount
	if categories {
		counts, err = s.Categories(cmd.Context(), cfg.User)
	} else {
		counts, err = s.Tags(cmd.Context(), cfg.User)
	}
	if err != nil {
		exitErr("tags", err)
	}

	if len(counts) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(counts, "", "  ")
	fmt.Println(string(b))
}
