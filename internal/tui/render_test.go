package tui

import (
	"strings"
	"testing"

	"github.com/mid-diary/mid/internal/dialogue"
	"github.com/mid-diary/mid/internal/model"
)

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable([]string{"Name", "Age"}, [][]string{
		{"Bob", "30"},
		{"Alexandra", "7"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Name      | Age") {
		t.Errorf("header not padded to widest cell: %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Bob       | 30") {
		t.Errorf("row not padded: %q", lines[2])
	}
}

func TestRenderTableShortRow(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"x"}})
	if !strings.Contains(out, "x") {
		t.Errorf("short row dropped: %q", out)
	}
}

func TestFormatMemoryList(t *testing.T) {
	out := FormatMemory(model.Memory{
		ID:       "m1",
		Type:     model.TypeList,
		Content:  "Groceries",
		Items:    []string{"milk", "bread"},
		Tags:     []string{"errands"},
		Category: "chores",
	})
	for _, want := range []string{"#m1 · Groceries", "1. milk", "2. bread", "tags: errands", "category: chores"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output: %q", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain output must carry no escape sequences: %q", out)
	}
}

func TestFormatMemoryTextNoMeta(t *testing.T) {
	out := FormatMemory(model.Memory{ID: "m2", Type: model.TypeText, Content: "A quiet day"})
	if out != "#m2 · A quiet day\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestIsListing(t *testing.T) {
	listing := []dialogue.Message{{Kind: dialogue.KindMother, Text: "Retrieved 3 memories."}}
	if !isListing(listing) {
		t.Error("expected retrieval reply to trigger cards")
	}
	plain := []dialogue.Message{{Kind: dialogue.KindMother, Text: "Memory created successfully."}}
	if isListing(plain) {
		t.Error("creation reply must not trigger cards")
	}
	systemOnly := []dialogue.Message{{Kind: dialogue.KindSystem, Text: "Found 1 memories:"}}
	if isListing(systemOnly) {
		t.Error("system lines must not trigger cards")
	}
}
