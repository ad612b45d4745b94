package dialogue

import (
	"strings"

	"github.com/mid-diary/mid/internal/command"
	"github.com/mid-diary/mid/internal/model"
)

func titleOption(num string) menuOption {
	return menuOption{num: num, keywords: []string{"Title"}, run: func(e *EditorSession) []Message {
		e.step = "title"
		return []Message{
			motherf("Current title: %q", orNone(e.d.Title)),
			system("Enter new title:"),
		}
	}}
}

func addOption(num, label string) menuOption {
	return menuOption{num: num, keywords: []string{label, "add"}, run: func(e *EditorSession) []Message {
		e.step = "add"
		return e.elems.addPrompt(&e.d)
	}}
}

func listElements(e *EditorSession) []Message {
	msgs := []Message{motherf("Current %s:", e.elems.plural)}
	for i := 0; i < e.elems.count(&e.d); i++ {
		msgs = append(msgs, systemf("  %d. %s", i+1, e.elems.display(&e.d, i)))
	}
	return msgs
}

func editOption(num, label, emptyHint string) menuOption {
	return menuOption{num: num, keywords: []string{label, "edit"}, run: func(e *EditorSession) []Message {
		if e.elems.count(&e.d) == 0 {
			return []Message{system(emptyHint)}
		}
		e.step = "select_edit"
		return append(listElements(e), systemf("Enter %s number to edit:", e.elems.noun))
	}}
}

func deleteOption(num, label string) menuOption {
	return menuOption{num: num, keywords: []string{label, "delete"}, run: func(e *EditorSession) []Message {
		if e.elems.count(&e.d) == 0 {
			return []Message{systemf("No %s to delete.", e.elems.plural)}
		}
		e.step = "select_delete"
		return append(listElements(e), systemf("Enter %s number to delete:", e.elems.noun))
	}}
}

func reorderOption(num, label string) menuOption {
	return menuOption{num: num, keywords: []string{label, "reorder", "move"}, run: func(e *EditorSession) []Message {
		if e.elems.count(&e.d) < 2 {
			return []Message{systemf("Need at least 2 %s to reorder.", e.elems.plural)}
		}
		e.step = "reorder"
		return append(listElements(e), system("Enter: [from] to [to] (e.g., '3 to 1' or '3, 1'):"))
	}}
}

func tagsOption(num string) menuOption {
	return menuOption{num: num, keywords: []string{"Tags"}, run: func(e *EditorSession) []Message {
		e.step = "tags"
		return []Message{
			motherf("Current tags: %s", orNone(strings.Join(e.d.Tags, ", "))),
			system("Enter new tags (comma-separated) or 'clear' to remove all:"),
		}
	}}
}

func categoryOption(num string) menuOption {
	return menuOption{num: num, keywords: []string{"Category"}, run: func(e *EditorSession) []Message {
		e.step = "category"
		return []Message{
			motherf("Current category: %s", orNone(e.d.Category)),
			system("Enter new category or 'clear' to remove:"),
		}
	}}
}

func viewOption(num, label string) menuOption {
	return menuOption{num: num, keywords: []string{label, "view"}, run: func(e *EditorSession) []Message {
		msgs := []Message{
			motherf("═══ %s Preview ═══", e.label),
			motherf("Title: %s", orNone(e.d.Title)),
		}
		if e.d.Columns != nil {
			msgs = append(msgs, motherf("Columns: %s", strings.Join(e.d.Columns, " | ")))
		}
		if e.elems.count(&e.d) > 0 {
			msgs = append(msgs, motherf("%s:", capitalize(e.elems.plural)))
			for i := 0; i < e.elems.count(&e.d); i++ {
				msgs = append(msgs, systemf("  %d. %s", i+1, e.elems.display(&e.d, i)))
			}
		} else {
			msgs = append(msgs, systemf("  (no %s)", e.elems.plural))
		}
		msgs = append(msgs,
			motherf("Tags: %s", orNone(strings.Join(e.d.Tags, ", "))),
			motherf("Category: %s", orNone(e.d.Category)),
			system("─────────────────────"))
		return append(msgs, e.menu()...)
	}}
}

// NewTableEditor starts an interactive editor over a table memory.
func NewTableEditor(m *model.Memory) *EditorSession {
	e := &EditorSession{
		memID:   m.ID,
		kind:    model.TypeTable,
		label:   "Table",
		step:    "menu",
		invalid: "Invalid option. Please enter 1-9, 'save', or 'cancel'.",
		d: draft{
			Title:    m.Content,
			Columns:  append([]string{}, m.Columns...),
			Rows:     copyRows(m.Rows),
			Tags:     append([]string{}, m.Tags...),
			Category: m.Category,
		},
	}
	e.elems = &elementOps{
		noun:    "row",
		plural:  "rows",
		count:   func(d *draft) int { return len(d.Rows) },
		display: func(d *draft, i int) string { return strings.Join(d.Rows[i], " | ") },
		add: func(e *EditorSession, trimmed string) ([]Message, bool) {
			values := splitRow(trimmed)
			if len(values) != len(e.d.Columns) {
				return []Message{systemf("Row should have %d values (you entered %d). Try again:",
					len(e.d.Columns), len(values))}, false
			}
			e.d.Rows = append(e.d.Rows, values)
			return []Message{motherf("Row %d added: %s", len(e.d.Rows), strings.Join(values, " | "))}, true
		},
		set: func(e *EditorSession, i int, trimmed string) ([]Message, bool) {
			values := splitRow(trimmed)
			if len(values) != len(e.d.Columns) {
				return []Message{systemf("Row should have %d values. Try again:", len(e.d.Columns))}, false
			}
			e.d.Rows[i] = values
			return []Message{motherf("Row %d updated: %s", i+1, strings.Join(values, " | "))}, true
		},
		remove: func(d *draft, i int) { d.Rows = append(d.Rows[:i:i], d.Rows[i+1:]...) },
		move:   func(d *draft, from, to int) { d.Rows = moveAt(d.Rows, from, to) },
		addPrompt: func(d *draft) []Message {
			return []Message{systemf("Enter row values (%d values, comma-separated):", len(d.Columns))}
		},
		editPrompt: func(e *EditorSession, i int) []Message {
			return []Message{
				motherf("Current row %d: %s", i+1, strings.Join(e.d.Rows[i], " | ")),
				systemf("Enter new values (%d values, comma-separated):", len(e.d.Columns)),
			}
		},
	}
	e.options = []menuOption{
		titleOption("1"),
		{num: "2", keywords: []string{"Columns"}, run: func(e *EditorSession) []Message {
			e.step = "columns"
			return []Message{system("Enter new column names (comma-separated):")}
		}},
		addOption("3", "Add row"),
		editOption("4", "Edit row", "No rows to edit. Add rows first (option 3)."),
		deleteOption("5", "Delete row"),
		reorderOption("6", "Reorder rows"),
		tagsOption("7"),
		categoryOption("8"),
		viewOption("9", "View current table"),
	}
	// Add-row needs the columns guard before switching steps.
	e.options[2].run = func(e *EditorSession) []Message {
		if len(e.d.Columns) == 0 {
			return []Message{system("Please add columns first (option 2).")}
		}
		e.step = "add"
		return e.elems.addPrompt(&e.d)
	}
	return e
}

// NewListEditor starts an interactive editor over a list memory.
func NewListEditor(m *model.Memory) *EditorSession {
	e := &EditorSession{
		memID:   m.ID,
		kind:    model.TypeList,
		label:   "List",
		step:    "menu",
		invalid: "Invalid option. Please enter 1-8, 'save', or 'cancel'.",
		d: draft{
			Title:    m.Content,
			Items:    append([]string{}, m.Items...),
			Tags:     append([]string{}, m.Tags...),
			Category: m.Category,
		},
	}
	e.elems = &elementOps{
		noun:    "item",
		plural:  "items",
		count:   func(d *draft) int { return len(d.Items) },
		display: func(d *draft, i int) string { return d.Items[i] },
		add: func(e *EditorSession, trimmed string) ([]Message, bool) {
			e.d.Items = append(e.d.Items, trimmed)
			return []Message{motherf("Item added: %q", trimmed)}, true
		},
		set: func(e *EditorSession, i int, trimmed string) ([]Message, bool) {
			e.d.Items[i] = trimmed
			return []Message{motherf("Item %d updated to: %q", i+1, trimmed)}, true
		},
		remove: func(d *draft, i int) { d.Items = append(d.Items[:i:i], d.Items[i+1:]...) },
		move:   func(d *draft, from, to int) { d.Items = moveAt(d.Items, from, to) },
		addPrompt: func(d *draft) []Message {
			return []Message{system("Enter the new item to add:")}
		},
		editPrompt: func(e *EditorSession, i int) []Message {
			return []Message{
				motherf("Current: %q", e.d.Items[i]),
				system("Enter new text for this item:"),
			}
		},
	}
	e.options = []menuOption{
		titleOption("1"),
		addOption("2", "Add item"),
		editOption("3", "Edit item", "No items to edit. Add items first (option 2)."),
		deleteOption("4", "Delete item"),
		reorderOption("5", "Reorder items"),
		tagsOption("6"),
		categoryOption("7"),
		viewOption("8", "View current list"),
	}
	return e
}

// NewTimelineEditor starts an interactive editor over a timeline memory.
func NewTimelineEditor(m *model.Memory) *EditorSession {
	e := &EditorSession{
		memID:   m.ID,
		kind:    model.TypeTimeline,
		label:   "Timeline",
		step:    "menu",
		invalid: "Invalid option. Please enter 1-8, 'save', or 'cancel'.",
		d: draft{
			Title:    m.Content,
			Events:   append([]model.Event{}, m.Events...),
			Tags:     append([]string{}, m.Tags...),
			Category: m.Category,
		},
	}
	e.elems = &elementOps{
		noun:    "event",
		plural:  "events",
		count:   func(d *draft) int { return len(d.Events) },
		display: func(d *draft, i int) string { return d.Events[i].Display() },
		add: func(e *EditorSession, trimmed string) ([]Message, bool) {
			ev := command.ParseEvent(trimmed)
			e.d.Events = append(e.d.Events, ev)
			return []Message{motherf("Event added: %s", ev.Display())}, true
		},
		set: func(e *EditorSession, i int, trimmed string) ([]Message, bool) {
			ev := command.ParseEvent(trimmed)
			e.d.Events[i] = ev
			return []Message{motherf("Event %d updated: %s", i+1, ev.Display())}, true
		},
		remove: func(d *draft, i int) { d.Events = append(d.Events[:i:i], d.Events[i+1:]...) },
		move:   func(d *draft, from, to int) { d.Events = moveAt(d.Events, from, to) },
		addPrompt: func(d *draft) []Message {
			return []Message{system("Enter the new event (TIME - DESCRIPTION or just DESCRIPTION):")}
		},
		editPrompt: func(e *EditorSession, i int) []Message {
			return []Message{
				motherf("Current: %s", e.d.Events[i].Display()),
				system("Enter new event (TIME - DESCRIPTION or just DESCRIPTION):"),
			}
		},
	}
	e.options = []menuOption{
		titleOption("1"),
		addOption("2", "Add event"),
		editOption("3", "Edit event", "No events to edit. Add events first (option 2)."),
		deleteOption("4", "Delete event"),
		reorderOption("5", "Reorder events"),
		tagsOption("6"),
		categoryOption("7"),
		viewOption("8", "View current timeline"),
	}
	return e
}

// NewImageEditor starts the simpler field editor for an image memory.
func NewImageEditor(m *model.Memory) *EditorSession {
	e := &EditorSession{
		memID:   m.ID,
		imageID: m.ImageID,
		kind:    model.TypeImage,
		label:   "Image",
		step:    "menu",
		invalid: "Please enter 1-4, 'save', or 'cancel'.",
		d: draft{
			Description: m.Content,
			Tags:        append([]string{}, m.Tags...),
			Album:       m.Album,
		},
	}
	e.options = []menuOption{
		{num: "1", keywords: []string{"Description"}, run: func(e *EditorSession) []Message {
			e.step = "description"
			return []Message{
				motherf("Current description: %q", orNone(e.d.Description)),
				system("Enter new description:"),
			}
		}},
		{num: "2", keywords: []string{"Tags"}, run: func(e *EditorSession) []Message {
			e.step = "tags"
			return []Message{
				motherf("Current tags: %s", orNone(strings.Join(e.d.Tags, ", "))),
				system("Enter new tags (comma-separated) or 'clear':"),
			}
		}},
		{num: "3", keywords: []string{"Album"}, run: func(e *EditorSession) []Message {
			e.step = "album"
			return []Message{
				motherf("Current album: %s", orNone(e.d.Album)),
				system("Enter new album name or 'clear':"),
			}
		}},
		{num: "4", keywords: []string{"View current image"}, run: func(e *EditorSession) []Message {
			msgs := []Message{
				motherf("Image #%s:", e.memID),
				systemf("  Description: %s", orNone(e.d.Description)),
				systemf("  Tags: %s", orNone(strings.Join(e.d.Tags, ", "))),
				systemf("  Album: %s", orNone(e.d.Album)),
				system("─────────────────────"),
			}
			return append(msgs, e.menu()...)
		}},
	}
	return e
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string{}, r...)
	}
	return out
}
