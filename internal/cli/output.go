package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mid-diary/mid/internal/model"
	"github.com/mid-diary/mid/internal/tui"
)

// renderMemories formats a result set per the --format flag: indented JSON
// by default, plain-text cards for "text".
func renderMemories(memories []model.Memory) string {
	if formatFlag == "text" {
		if len(memories) == 0 {
			return "No memories found.\n"
		}
		var b strings.Builder
		for i, mem := range memories {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(tui.FormatMemory(mem))
		}
		return b.String()
	}

	if len(memories) == 0 {
		return "[]\n"
	}
	b, _ := json.MarshalIndent(memories, "", "  ")
	return string(b) + "\n"
}

// renderMemory formats a single memory per the --format flag.
func renderMemory(mem *model.Memory) string {
	if formatFlag == "text" {
		return tui.FormatMemory(*mem)
	}
	b, _ := json.MarshalIndent(mem, "", "  ")
	return string(b) + "\n"
}

func printMemories(memories []model.Memory) {
	fmt.Print(renderMemories(memories))
}

func printMemory(mem *model.Memory) {
	fmt.Print(renderMemory(mem))
}
