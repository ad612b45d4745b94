// Package command parses free-form diary terminal input into typed commands.
//
// Parse is pure and total: any input line yields exactly one Command and no
// error. Keyword matching is case-insensitive on the trimmed input; field
// extraction (content, tags) works on the original-case string.
package command

import (
	"regexp"
	"strings"

	"github.com/mid-diary/mid/internal/model"
)

// Kind identifies the command variant.
type Kind string

const (
	KindCreateMemory   Kind = "create_memory"
	KindCreateTable    Kind = "create_table"
	KindCreateList     Kind = "create_list"
	KindCreateTimeline Kind = "create_timeline"
	KindSavePicture    Kind = "save_picture"
	KindEditMemory     Kind = "edit_memory"
	KindDelete         Kind = "delete"
	KindRetrieve       Kind = "retrieve"
	KindHelp           Kind = "help"
	KindClear          Kind = "clear"
	KindUnknown        Kind = "unknown"
)

// Filters narrow retrieve and bulk-delete operations.
type Filters struct {
	Tags     []string
	Category string
	Date     string
	Search   string
	First    bool
	Type     string
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return len(f.Tags) == 0 && f.Category == "" && f.Date == "" &&
		f.Search == "" && !f.First && f.Type == ""
}

// Updates holds the partial field changes of an edit command.
type Updates struct {
	Content string
	Add     string // append to existing content
}

// Empty reports whether the edit carries no changes.
func (u Updates) Empty() bool { return u.Content == "" && u.Add == "" }

// Command is the typed result of parsing one input line. Kind selects the
// variant; only the fields relevant to that variant are populated.
type Command struct {
	Kind Kind
	Raw  string // original input, kept for unknown-command feedback

	// create_memory
	Content  string
	Category string
	Tags     []string

	// inline structured bodies (rare multi-line path)
	Columns []string
	Rows    [][]string
	Items   []string
	Events  []model.Event

	// save_picture pre-fill
	Description string

	// edit_memory
	ID      string
	Updates Updates

	// delete
	Target    string
	DeleteAll bool

	// delete + retrieve
	Filters Filters
}

// Parse classifies one line (or pasted block) of input into a Command.
func Parse(text string) Command {
	cmd := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(cmd, "create memory"):
		return parseCreateMemory(text)
	case strings.HasPrefix(cmd, "create table"):
		return parseCreateTable(text)
	case strings.HasPrefix(cmd, "create list"):
		return parseCreateList(text)
	case strings.HasPrefix(cmd, "create timeline"):
		return parseCreateTimeline(text)
	case strings.HasPrefix(cmd, "save picture"), strings.HasPrefix(cmd, "save image"):
		return parseSavePicture(text)
	case strings.HasPrefix(cmd, "edit memory"), strings.HasPrefix(cmd, "update memory"):
		return parseEditMemory(text)
	case strings.HasPrefix(cmd, "delete all"),
		strings.HasPrefix(cmd, "delete memory"),
		strings.HasPrefix(cmd, "delete picture"),
		strings.HasPrefix(cmd, "delete image"),
		strings.HasPrefix(cmd, "delete memories"):
		return parseDelete(text)
	case strings.HasPrefix(cmd, "mother,"),
		strings.HasPrefix(cmd, "show"),
		strings.HasPrefix(cmd, "bring up"),
		strings.HasPrefix(cmd, "list"),
		strings.HasPrefix(cmd, "search"):
		return parseRetrieve(text)
	case cmd == "help" || cmd == "?" || strings.HasPrefix(cmd, "help"):
		return Command{Kind: KindHelp, Raw: text}
	case cmd == "clear" || cmd == "cls":
		return Command{Kind: KindClear, Raw: text}
	}

	// A recognized command keyword that matched no full pattern is an
	// unknown command, not free text. So is everything else.
	return Command{Kind: KindUnknown, Raw: text}
}

var (
	quotedRe   = regexp.MustCompile(`["']([^"']+)["']`)
	categoryRe = regexp.MustCompile(`(?i)(?:in\s+)?category\s*:\s*["']?(\w+)["']?`)
	hashtagRe  = regexp.MustCompile(`#(\w+)`)
	idRe       = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
	memBodyRe  = regexp.MustCompile(`(?i)create memory\s*:\s*(.+)`)
	tagsStrip  = regexp.MustCompile(`(?i)\s*(?:with\s+)?tags:\s*[^"]+`)
	catStrip   = regexp.MustCompile(`(?i)\s*(?:in\s+)?category:\s*\w+`)
	targetRe   = regexp.MustCompile(`\b(memory|picture|image)\b`)
	addRe      = regexp.MustCompile(`(?i)add:\s*["']([^"']+)["']`)
	editBodyRe = regexp.MustCompile(`:\s*(.+)$`)
	dateRe     = regexp.MustCompile(`(?i)from:\s*([^.]+)`)
	containRe  = regexp.MustCompile(`(?i)containing:\s*([^.]+)`)
	searchRe   = regexp.MustCompile(`(?i)search:\s*["']([^"']+)["']`)
	moodRe     = regexp.MustCompile(`(?i)\b(happy|sad|angry|excited|calm|anxious|work|personal|ideas)\s+(?:moments|memories)`)
	descRe     = regexp.MustCompile(`(?i)description:\s*["']([^"']+)["']`)
	tailTagsRe = regexp.MustCompile(`(?i)tags:\s*([^"']+)`)
	tagsIdxRe  = regexp.MustCompile(`(?i)tags:`)
)

func parseCreateMemory(text string) Command {
	c := Command{Kind: KindCreateMemory, Raw: text}

	// Quoted content wins; otherwise take the body after "create memory:"
	// with trailing tags/category clauses stripped.
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		c.Content = m[1]
	} else if m := memBodyRe.FindStringSubmatch(text); m != nil {
		body := strings.TrimSpace(m[1])
		body = strings.TrimSpace(tagsStrip.ReplaceAllString(body, ""))
		body = strings.TrimSpace(catStrip.ReplaceAllString(body, ""))
		c.Content = body
	}

	c.Category = extractCategory(text)
	c.Tags = extractTags(text)
	return c
}

// extractCategory pulls a single-word category from an optional
// "category: X" / "in category: X" clause.
func extractCategory(text string) string {
	if m := categoryRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractTags prefers a "tags:" clause, comma-split and bounded by a
// following category clause, a quote, or end of string. Hashtag tokens are
// the fallback. Tag case is preserved.
func extractTags(text string) []string {
	if clause, ok := tagsClause(text); ok {
		return splitTags(clause)
	}
	return extractHashtags(text)
}

// tagsClause locates the raw text of a "tags:"/"with tags:" clause.
// Matching case-insensitively on the original string keeps byte offsets
// valid for slicing.
func tagsClause(text string) (string, bool) {
	loc := tagsIdxRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	end := len(rest)
	if j := strings.IndexAny(rest, `"'`); j >= 0 && j < end {
		end = j
	}
	if m := categoryRe.FindStringIndex(rest); m != nil && m[0] < end {
		end = m[0]
	}
	return rest[:end], true
}

func splitTags(clause string) []string {
	var tags []string
	for _, t := range strings.Split(clause, ",") {
		t = strings.TrimSpace(strings.Trim(strings.TrimSpace(t), `"'`))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func extractHashtags(text string) []string {
	var tags []string
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// extractID pulls a store-assigned id from a "#id" token. IDs are opaque
// alphanumeric strings (ULIDs, document keys), not just integers.
func extractID(text string) string {
	if m := idRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// parseCreateTable handles the rare inline multi-line form:
//
//	create table
//	columns: Name, Age
//	- Bob, 30
func parseCreateTable(text string) Command {
	c := Command{Kind: KindCreateTable, Raw: text}
	inRows := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "columns:"):
			c.Columns = splitCSV(strings.TrimPrefix(trimmed, "columns:"))
		case strings.HasPrefix(trimmed, "rows:"):
			inRows = true
		case strings.HasPrefix(trimmed, "-"):
			inRows = true
			row := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			c.Rows = append(c.Rows, splitCSV(row))
		case inRows && trimmed != "":
			// non-dash lines between rows are ignored
		}
	}
	return c
}

func parseCreateList(text string) Command {
	c := Command{Kind: KindCreateList, Raw: text}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "•") {
			item := strings.TrimSpace(strings.TrimLeft(trimmed, "-• "))
			if item != "" {
				c.Items = append(c.Items, item)
			}
		}
	}
	return c
}

func parseCreateTimeline(text string) Command {
	c := Command{Kind: KindCreateTimeline, Raw: text}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") {
			event := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			if event != "" {
				c.Events = append(c.Events, ParseEvent(event))
			}
		}
	}
	return c
}

func parseSavePicture(text string) Command {
	c := Command{Kind: KindSavePicture, Raw: text}
	if m := descRe.FindStringSubmatch(text); m != nil {
		c.Description = m[1]
		// only a description-bearing command carries inline tags
		if t := tailTagsRe.FindStringSubmatch(text); t != nil {
			c.Tags = splitTags(t[1])
		}
	}
	return c
}

func parseEditMemory(text string) Command {
	c := Command{Kind: KindEditMemory, Raw: text}
	c.ID = extractID(text)

	if strings.Contains(strings.ToLower(text), "add:") {
		if m := addRe.FindStringSubmatch(text); m != nil {
			c.Updates.Add = m[1]
		}
		return c
	}
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		c.Updates.Content = m[1]
	} else if m := editBodyRe.FindStringSubmatch(text); m != nil {
		c.Updates.Content = strings.TrimSpace(m[1])
	}
	return c
}

func parseDelete(text string) Command {
	cmd := strings.ToLower(strings.TrimSpace(text))
	c := Command{Kind: KindDelete, Raw: text, Target: "memory"}

	if m := targetRe.FindStringSubmatch(cmd); m != nil {
		c.Target = m[1]
	}
	c.DeleteAll = strings.Contains(cmd, "delete all")

	bulk := c.DeleteAll || strings.HasPrefix(cmd, "delete memories")
	if !bulk {
		c.ID = extractID(text)
	}

	if clause, ok := deleteTagsClause(text); ok {
		c.Filters.Tags = splitTags(clause)
	} else if bulk && c.ID == "" {
		c.Filters.Tags = extractHashtags(text)
	}
	c.Filters.Category = extractCategory(text)
	return c
}

var deleteTagsRe = regexp.MustCompile(`(?i)(?:tagged|tags|tag)\s*:\s*["']?([^"'.]+)["']?`)

func deleteTagsClause(text string) (string, bool) {
	if m := deleteTagsRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

func parseRetrieve(text string) Command {
	cmd := strings.ToLower(strings.TrimSpace(text))
	c := Command{Kind: KindRetrieve, Raw: text}

	if clause, ok := deleteTagsClause(text); ok {
		c.Filters.Tags = splitTags(clause)
	} else {
		c.Filters.Tags = extractHashtags(text)
	}

	if cat := extractCategory(text); cat != "" {
		c.Filters.Category = cat
	} else if m := moodRe.FindStringSubmatch(text); m != nil {
		c.Filters.Category = strings.ToLower(m[1])
	}

	if m := dateRe.FindStringSubmatch(text); m != nil {
		c.Filters.Date = strings.TrimSpace(m[1])
	}

	if m := containRe.FindStringSubmatch(text); m != nil {
		c.Filters.Search = strings.TrimSpace(m[1])
	} else if m := searchRe.FindStringSubmatch(text); m != nil {
		c.Filters.Search = m[1]
	}

	if strings.Contains(cmd, "first memory") {
		c.Filters.First = true
	}
	if strings.Contains(cmd, "all tables") {
		c.Filters.Type = model.TypeTable
	}
	if strings.Contains(cmd, "pictures") || strings.Contains(cmd, "images") {
		c.Filters.Type = model.TypeImage
	}
	return c
}

func splitCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

var eventSplitRe = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`)

// ParseEvent splits a timeline event line on a dash separator into time and
// description. Colons are never split points, so "9:00 AM - Wake up" keeps
// its minutes. A line without a dash is all description.
func ParseEvent(line string) model.Event {
	line = strings.TrimSpace(line)
	if m := eventSplitRe.FindStringSubmatch(line); m != nil {
		return model.Event{
			Time:        NormalizeTime(strings.TrimSpace(m[1])),
			Description: strings.TrimSpace(m[2]),
		}
	}
	return model.Event{Description: line}
}
