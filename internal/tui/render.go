package tui

import (
	"fmt"
	"strings"

	"github.com/mid-diary/mid/internal/model"
)

// renderMemory formats one memory as a bordered card for the transcript.
func (m Model) renderMemory(mem model.Memory) string {
	var b strings.Builder

	header := fmt.Sprintf("#%s · %s", mem.ID, mem.Title())
	b.WriteString(m.styles.Title.Render(header))
	b.WriteString("\n")
	b.WriteString(memoryBody(mem))
	if meta := memoryMeta(mem); meta != "" {
		b.WriteString(m.styles.Muted.Render(meta))
	}

	return m.styles.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// FormatMemory renders one memory as plain text, for non-interactive output.
func FormatMemory(mem model.Memory) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("#%s · %s\n", mem.ID, mem.Title()))
	b.WriteString(memoryBody(mem))
	if meta := memoryMeta(mem); meta != "" {
		b.WriteString(meta + "\n")
	}
	return b.String()
}

// memoryBody renders the type-specific lines of a memory.
func memoryBody(mem model.Memory) string {
	var b strings.Builder
	switch mem.Type {
	case model.TypeTable:
		b.WriteString(renderTable(mem.Columns, mem.Rows))
	case model.TypeList:
		for i, item := range mem.Items {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
		}
	case model.TypeTimeline:
		for _, ev := range mem.Events {
			b.WriteString("• " + ev.Display() + "\n")
		}
	case model.TypeImage:
		b.WriteString(mem.ImageURL + "\n")
	}
	return b.String()
}

// memoryMeta joins the tag/category/album/date footer, empty when a memory
// carries none of them.
func memoryMeta(mem model.Memory) string {
	var meta []string
	if len(mem.Tags) > 0 {
		meta = append(meta, "tags: "+strings.Join(mem.Tags, ", "))
	}
	if mem.Category != "" {
		meta = append(meta, "category: "+mem.Category)
	}
	if mem.Album != "" {
		meta = append(meta, "album: "+mem.Album)
	}
	if !mem.CreatedAt.IsZero() {
		meta = append(meta, mem.CreatedAt.Format("Jan 2, 2006"))
	}
	return strings.Join(meta, " · ")
}

// renderTable lays out columns padded to the widest cell in each column.
func renderTable(columns []string, rows [][]string) string {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(formatRow(columns, widths))
	sep := make([]string, len(columns))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	b.WriteString(formatRow(sep, widths))
	for _, row := range rows {
		b.WriteString(formatRow(row, widths))
	}
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
	}
	return strings.TrimRight(strings.Join(padded, " | "), " ") + "\n"
}
