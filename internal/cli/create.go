package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mid-diary/mid/internal/model"
	"github.com/mid-diary/mid/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create [content]",
		Short: "Store a text memory",
		Long:  "Store a text memory. Content can be a positional arg or piped via stdin.",
		Run:   runCreate,
	}

	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().StringP("category", "c", "", "Category")

	RootCmd.AddCommand(cmd)
}

func runCreate(cmd *cobra.Command, args []string) {
	tagsStr, _ := cmd.Flags().GetString("tags")
	category, _ := cmd.Flags().GetString("category")

	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("create", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mem, err := s.Create(cmd.Context(), store.CreateParams{
		User:     cfg.User,
		Type:     model.TypeText,
		Content:  strings.TrimSpace(content),
		Category: category,
		Tags:     splitTags(tagsStr),
	})
	if err != nil {
		exitErr("create", err)
	}

	printMemory(mem)
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
