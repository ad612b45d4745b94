package dialogue

import (
	"strings"

	"github.com/mid-diary/mid/internal/command"
	"github.com/mid-diary/mid/internal/model"
)

func titleStep(intro string) builderStep {
	return builderStep{
		name:      "title",
		skippable: true,
		enter:     func(d *draft) []Message { return []Message{mother(intro)} },
		apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
			b.d.Title = trimmed
			return nil, advance
		},
	}
}

func tagsStep(prompt string) builderStep {
	return builderStep{
		name:      "tags",
		skippable: true,
		enter:     func(d *draft) []Message { return []Message{mother(prompt)} },
		apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
			b.d.Tags = splitList(trimmed)
			return nil, advance
		},
	}
}

func categoryStep(prompt string) builderStep {
	return builderStep{
		name:      "category",
		skippable: true,
		enter:     func(d *draft) []Message { return []Message{mother(prompt)} },
		apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
			b.d.Category = trimmed
			return nil, advance
		},
	}
}

// NewTableBuilder starts the guided table creation flow.
func NewTableBuilder() *BuilderSession {
	return &BuilderSession{
		kind:      model.TypeTable,
		label:     "Table",
		cancelMsg: "Table creation cancelled.",
		steps: []builderStep{
			titleStep("Let's create a table! First, what's the title/heading for this table? (or type 'skip' to skip)"),
			{
				name: "columns",
				enter: func(d *draft) []Message {
					return []Message{mother("Enter column names separated by commas (e.g., Name, Age, City):")}
				},
				apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
					columns := splitList(trimmed)
					if len(columns) == 0 {
						return []Message{system("Please enter at least one column name.")}, stay
					}
					b.d.Columns = columns
					return []Message{
						motherf("Columns: %s", strings.Join(columns, " | ")),
					}, advance
				},
			},
			{
				name:    "rows",
				multi:   true,
				needOne: "Please add at least one row of data.",
				count:   func(d *draft) int { return len(d.Rows) },
				enter: func(d *draft) []Message {
					return []Message{
						motherf("Now enter row data. Each row should have %d values separated by commas.", len(d.Columns)),
						mother("Type 'done' when finished adding rows."),
					}
				},
				apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
					values := splitRow(trimmed)
					if len(values) != len(b.d.Columns) {
						return []Message{systemf("Row should have %d values (you entered %d). Try again:",
							len(b.d.Columns), len(values))}, stay
					}
					b.d.Rows = append(b.d.Rows, values)
					return []Message{
						motherf("Row %d added: %s", len(b.d.Rows), strings.Join(values, " | ")),
						system("Enter next row or type 'done' to finish:"),
					}, stay
				},
			},
			tagsStep("Add tags for this table (comma-separated, or 'skip'):"),
			categoryStep("Enter a category for this table (or 'skip'):"),
		},
	}
}

// NewListBuilder starts the guided list creation flow.
func NewListBuilder() *BuilderSession {
	return &BuilderSession{
		kind:      model.TypeList,
		label:     "List",
		cancelMsg: "List creation cancelled.",
		steps: []builderStep{
			titleStep("Let's create a list! First, what's the title for this list? (or type 'skip')"),
			{
				name:    "items",
				multi:   true,
				needOne: "Please add at least one item to the list.",
				count:   func(d *draft) int { return len(d.Items) },
				enter: func(d *draft) []Message {
					return []Message{
						mother("Now add your list items. Enter one item at a time."),
						system("Type 'done' when finished adding items."),
					}
				},
				apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
					b.d.Items = append(b.d.Items, trimmed)
					return []Message{
						motherf("  %d. %s", len(b.d.Items), trimmed),
						system("Add another item or type 'done' to finish:"),
					}, stay
				},
			},
			tagsStep("Add tags for this list (comma-separated, or 'skip'):"),
			categoryStep("Enter a category for this list (or 'skip'):"),
		},
	}
}

// NewTimelineBuilder starts the guided timeline creation flow.
func NewTimelineBuilder() *BuilderSession {
	return &BuilderSession{
		kind:      model.TypeTimeline,
		label:     "Timeline",
		cancelMsg: "Timeline creation cancelled.",
		steps: []builderStep{
			titleStep("Let's create a timeline! First, what's the title for this timeline? (or type 'skip')"),
			{
				name:    "events",
				multi:   true,
				needOne: "Please add at least one event to the timeline.",
				count:   func(d *draft) int { return len(d.Events) },
				enter: func(d *draft) []Message {
					return []Message{
						mother("Now add your timeline events."),
						system("Format: TIME - DESCRIPTION (e.g., '9:00 AM - Wake up' or just 'Morning - Wake up')"),
						system("Type 'done' when finished adding events."),
					}
				},
				apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
					ev := command.ParseEvent(trimmed)
					b.d.Events = append(b.d.Events, ev)
					return []Message{
						motherf("  %d. %s", len(b.d.Events), ev.Display()),
						system("Add another event or type 'done' to finish:"),
					}, stay
				},
			},
			tagsStep("Add tags for this timeline (comma-separated, or 'skip'):"),
			categoryStep("Enter a category for this timeline (or 'skip'):"),
		},
	}
}

// NewImageBuilder starts the image save flow. The select step blocks until
// the caller delivers a file via SelectFile; description and tags may be
// pre-filled from an inline command.
func NewImageBuilder(description string, tags []string) *BuilderSession {
	b := &BuilderSession{
		kind:      model.TypeImage,
		label:     "Image",
		cancelMsg: "Image upload cancelled.",
	}
	b.d.Description = description
	b.d.Tags = tags
	b.steps = []builderStep{
		{
			name: "select",
			enter: func(d *draft) []Message {
				return []Message{system("Please select an image file to continue.")}
			},
			apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
				return []Message{system("Please select an image file to continue.")}, stay
			},
		},
		{
			name:      "description",
			skippable: true,
			enter: func(d *draft) []Message {
				return []Message{system("Enter a description for this image (or type 'skip'):")}
			},
			apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
				b.d.Description = trimmed
				return nil, advance
			},
		},
		{
			name:      "tags",
			skippable: true,
			enter: func(d *draft) []Message {
				return []Message{system("Add tags (comma-separated) or type 'skip':")}
			},
			apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
				b.d.Tags = splitList(trimmed)
				return nil, advance
			},
		},
		{
			name:      "album",
			skippable: true,
			enter: func(d *draft) []Message {
				return []Message{system("Enter an album name (or type 'skip'):")}
			},
			apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
				b.d.Album = trimmed
				return nil, advance
			},
		},
		{
			name: "confirm",
			enter: func(d *draft) []Message {
				return []Message{
					mother("Ready to upload the image with the following:"),
					systemf("  Description: %s", orNone(d.Description)),
					systemf("  Tags: %s", orNone(strings.Join(d.Tags, ", "))),
					systemf("  Album: %s", orNone(d.Album)),
					system("Type 'save' to upload or 'cancel' to abort."),
				}
			},
			apply: func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome) {
				if lower == "save" || lower == "yes" || lower == "y" {
					return nil, advance
				}
				return []Message{mother("Image upload cancelled.")}, abort
			},
		},
	}
	return b
}

// splitList splits a comma-separated clause, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitRow splits row values, keeping empty cells so widths stay honest.
func splitRow(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
