package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mid-diary/mid/internal/model"
)

// elementOps adapts the editor engine to one element shape (table rows,
// list items, timeline events). The engine owns selection, deletion, and
// reordering; the adapter owns parsing and display.
type elementOps struct {
	noun    string // "row", "item", "event"
	plural  string
	count   func(d *draft) int
	display func(d *draft, i int) string
	// add appends a parsed element; ok=false re-prompts without advancing.
	add func(e *EditorSession, trimmed string) ([]Message, bool)
	// set replaces element i; ok=false re-prompts.
	set        func(e *EditorSession, i int, trimmed string) ([]Message, bool)
	remove     func(d *draft, i int)
	move       func(d *draft, from, to int)
	addPrompt  func(d *draft) []Message
	editPrompt func(e *EditorSession, i int) []Message
}

type menuOption struct {
	num      string
	keywords []string
	run      func(e *EditorSession) []Message
}

// EditorSession is one in-progress edit of an existing memory. It works on
// a copy of the payload; nothing touches the store until save.
type EditorSession struct {
	memID   string
	imageID string
	kind    string
	label   string
	step    string
	d       draft
	editIdx int
	elems   *elementOps
	options []menuOption
	invalid string
}

// MemoryID returns the id of the memory being edited.
func (e *EditorSession) MemoryID() string { return e.memID }

// Kind returns the memory type being edited.
func (e *EditorSession) Kind() string { return e.kind }

// Label is the display name for the type being edited.
func (e *EditorSession) Label() string { return e.label }

// ImageID returns the media record id for image editors, empty otherwise.
func (e *EditorSession) ImageID() string { return e.imageID }

// Draft exposes the working copy for persisting on save.
func (e *EditorSession) Draft() draft { return e.d }

// Start returns the editing banner and the option menu.
func (e *EditorSession) Start() []Message {
	title := e.d.Title
	if e.kind == model.TypeImage {
		title = e.d.Description
	}
	if title == "" {
		title = "Untitled"
	}
	msgs := []Message{motherf("Editing %s #%s: %q", e.label, e.memID, title)}
	return append(msgs, e.menu()...)
}

func (e *EditorSession) menu() []Message {
	msgs := []Message{system("What would you like to edit?")}
	for _, opt := range e.options {
		msgs = append(msgs, systemf("  %s. %s", opt.num, opt.keywords[0]))
	}
	msgs = append(msgs,
		system("  save - Save changes"),
		system("  cancel - Discard changes"))
	return msgs
}

// Step feeds one input line to the session. save means the caller should
// persist the draft; cancelled means discard. The session survives a failed
// save so the user can retry.
func (e *EditorSession) Step(line string) (msgs []Message, save, cancelled bool) {
	trimmed := trim(line)
	lower := lowerTrim(line)

	if lower == "cancel" || lower == "exit" {
		if e.kind == model.TypeImage {
			return []Message{mother("Image editing cancelled.")}, false, true
		}
		return []Message{motherf("%s editing cancelled. No changes saved.", e.label)}, false, true
	}

	if e.step == "menu" {
		if lower == "save" {
			return nil, true, false
		}
		return e.menuChoice(lower), false, false
	}

	return e.stepInput(trimmed, lower), false, false
}

func (e *EditorSession) menuChoice(lower string) []Message {
	for _, opt := range e.options {
		if lower == opt.num {
			return opt.run(e)
		}
		for _, kw := range opt.keywords {
			if lower == strings.ToLower(kw) {
				return opt.run(e)
			}
		}
	}
	return []Message{system(e.invalid)}
}

func (e *EditorSession) stepInput(trimmed, lower string) []Message {
	switch e.step {
	case "title":
		e.d.Title = trimmed
		e.step = "menu"
		return append([]Message{motherf("Title updated to: %q", trimmed)}, e.menu()...)

	case "columns":
		columns := splitList(trimmed)
		if len(columns) == 0 {
			return []Message{system("Please enter at least one column name.")}
		}
		// Rows track the header: shrink truncates, grow pads with blanks.
		for i, row := range e.d.Rows {
			if len(row) < len(columns) {
				padded := make([]string, len(columns))
				copy(padded, row)
				e.d.Rows[i] = padded
			} else if len(row) > len(columns) {
				e.d.Rows[i] = row[:len(columns)]
			}
		}
		e.d.Columns = columns
		e.step = "menu"
		return append([]Message{motherf("Columns updated: %s", strings.Join(columns, " | "))}, e.menu()...)

	case "add":
		msgs, ok := e.elems.add(e, trimmed)
		if !ok {
			return msgs
		}
		e.step = "menu"
		return append(msgs, e.menu()...)

	case "select_edit":
		i, ok := e.pickIndex(trimmed)
		if !ok {
			return []Message{systemf("Please enter a valid %s number (1-%d):", e.elems.noun, e.elems.count(&e.d))}
		}
		e.editIdx = i
		e.step = "edit"
		return e.elems.editPrompt(e, i)

	case "edit":
		msgs, ok := e.elems.set(e, e.editIdx, trimmed)
		if !ok {
			return msgs
		}
		e.step = "menu"
		return append(msgs, e.menu()...)

	case "select_delete":
		i, ok := e.pickIndex(trimmed)
		if !ok {
			return []Message{systemf("Please enter a valid %s number (1-%d):", e.elems.noun, e.elems.count(&e.d))}
		}
		e.elems.remove(&e.d, i)
		e.step = "menu"
		return append([]Message{motherf("%s %d deleted. %d %s remaining.",
			capitalize(e.elems.noun), i+1, e.elems.count(&e.d), e.elems.plural)}, e.menu()...)

	case "reorder":
		from, to, ok := parseReorder(trimmed, e.elems.count(&e.d))
		if !ok {
			return []Message{system("Invalid. Enter two numbers like: 3 to 1 or 3, 1")}
		}
		e.elems.move(&e.d, from, to)
		e.step = "menu"
		return append([]Message{motherf("Moved %s %d to position %d.", e.elems.noun, from+1, to+1)}, e.menu()...)

	case "tags":
		if lower == "clear" {
			e.d.Tags = nil
		} else {
			e.d.Tags = splitList(trimmed)
		}
		e.step = "menu"
		msg := mother("Tags cleared.")
		if len(e.d.Tags) > 0 {
			msg = motherf("Tags updated: %s", strings.Join(e.d.Tags, ", "))
		}
		return append([]Message{msg}, e.menu()...)

	case "category":
		if lower == "clear" {
			e.d.Category = ""
		} else {
			e.d.Category = trimmed
		}
		e.step = "menu"
		msg := mother("Category cleared.")
		if e.d.Category != "" {
			msg = motherf("Category updated: %s", e.d.Category)
		}
		return append([]Message{msg}, e.menu()...)

	case "description":
		if lower == "skip" {
			e.d.Description = ""
		} else {
			e.d.Description = trimmed
		}
		e.step = "menu"
		return append([]Message{mother("Description updated.")}, e.menu()...)

	case "album":
		if lower == "clear" {
			e.d.Album = ""
		} else {
			e.d.Album = trimmed
		}
		e.step = "menu"
		return append([]Message{mother("Album updated.")}, e.menu()...)
	}

	// Unreachable step names land back at the menu.
	e.step = "menu"
	return e.menu()
}

// pickIndex parses a 1-based element index, returning it 0-based.
func (e *EditorSession) pickIndex(trimmed string) (int, bool) {
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 || n > e.elems.count(&e.d) {
		return 0, false
	}
	return n - 1, true
}

var reorderRe = regexp.MustCompile(`^\s*(\d+)\s*(?:to\s+|,\s*|\s+)\s*(\d+)\s*$`)

// parseReorder accepts "3 to 1", "3, 1", or "3 1".
func parseReorder(s string, count int) (from, to int, ok bool) {
	m := reorderRe.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, 0, false
	}
	f, _ := strconv.Atoi(m[1])
	t, _ := strconv.Atoi(m[2])
	if f < 1 || f > count || t < 1 || t > count {
		return 0, 0, false
	}
	return f - 1, t - 1, true
}

// moveAt removes the element at from and reinserts it at to.
func moveAt[T any](xs []T, from, to int) []T {
	x := xs[from]
	xs = append(xs[:from:from], xs[from+1:]...)
	out := make([]T, 0, len(xs)+1)
	out = append(out, xs[:to]...)
	out = append(out, x)
	return append(out, xs[to:]...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
