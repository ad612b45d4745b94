package dialogue

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mid-diary/mid/internal/command"
	"github.com/mid-diary/mid/internal/model"
	"github.com/mid-diary/mid/internal/store"
)

// Options configures an Engine.
type Options struct {
	Store   store.Store
	Media   store.MediaStore
	Journal *store.Journal
	Logger  *zap.Logger
	User    string
}

// Engine is the per-user dialogue dispatcher. Input lines route by
// priority: an armed confirmation gate first, then an active builder, then
// an active editor, and only then the command parser. At most one of gate,
// builder, and editor is active at a time.
type Engine struct {
	store   store.Store
	media   store.MediaStore
	journal *store.Journal
	log     *zap.Logger
	user    string

	gate    Gate
	builder *BuilderSession
	editor  *EditorSession

	retrieved []model.Memory
}

// New creates an engine for one user.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:   opts.Store,
		media:   opts.Media,
		journal: opts.Journal,
		log:     log,
		user:    opts.User,
	}
}

// Welcome returns the opening banner.
func (e *Engine) Welcome() []Message {
	return []Message{systemf("Welcome, %s. Type 'help' for commands.", e.user)}
}

// Retrieved returns the memories from the most recent listing, newest
// first, for the caller to render.
func (e *Engine) Retrieved() []model.Memory { return e.retrieved }

// AwaitingFile reports whether the engine is blocked on a file selection.
func (e *Engine) AwaitingFile() bool {
	return e.builder != nil && e.builder.AwaitingFile()
}

// SelectFile delivers an out-of-band file selection to the image builder.
func (e *Engine) SelectFile(name string, data []byte) []Message {
	if !e.AwaitingFile() {
		return nil
	}
	return e.builder.SelectFile(name, data)
}

// Handle processes one input line and returns the reply messages. Blank
// lines are ignored.
func (e *Engine) Handle(ctx context.Context, line string) []Message {
	trimmed := trim(line)
	if trimmed == "" {
		return nil
	}
	lower := strings.ToLower(trimmed)

	if e.gate.Armed() {
		return e.resolveGate(ctx, lower)
	}
	if e.builder != nil {
		msgs, completed, cancelled := e.builder.Step(line)
		if cancelled {
			e.builder = nil
			return msgs
		}
		if completed {
			b := e.builder
			e.builder = nil
			return append(msgs, e.persistBuilder(ctx, b)...)
		}
		return msgs
	}
	if e.editor != nil {
		msgs, save, cancelled := e.editor.Step(line)
		if cancelled {
			e.editor = nil
			return msgs
		}
		if save {
			return append(msgs, e.persistEditor(ctx)...)
		}
		return msgs
	}

	cmd := command.Parse(line)
	e.log.Debug("command parsed", zap.String("kind", string(cmd.Kind)))

	switch cmd.Kind {
	case command.KindCreateMemory:
		return e.createMemory(ctx, cmd)
	case command.KindCreateTable:
		e.builder = NewTableBuilder()
		return e.builder.Start()
	case command.KindCreateList:
		e.builder = NewListBuilder()
		return e.builder.Start()
	case command.KindCreateTimeline:
		e.builder = NewTimelineBuilder()
		return e.builder.Start()
	case command.KindSavePicture:
		e.builder = NewImageBuilder(cmd.Description, cmd.Tags)
		return e.builder.Start()
	case command.KindEditMemory:
		return e.editMemory(ctx, cmd)
	case command.KindDelete:
		return e.requestDelete(cmd)
	case command.KindRetrieve:
		return e.retrieve(ctx, cmd)
	case command.KindHelp:
		return helpText()
	case command.KindClear:
		e.retrieved = nil
		return []Message{{Kind: KindClear}, system("Terminal cleared.")}
	default:
		return []Message{systemf("Unknown command: %q. Type 'help' to see available commands.", trimmed)}
	}
}

func (e *Engine) resolveGate(ctx context.Context, lower string) []Message {
	decision, action := e.gate.Resolve(lower)
	switch decision {
	case DecisionYes:
		if action.Kind == "delete" {
			return e.executeDelete(ctx, action.Command)
		}
		return e.startEditor(action.Memory)
	case DecisionNo:
		return []Message{mother("Action cancelled.")}
	default:
		return []Message{system("Please type 'yes' or 'no' to confirm.")}
	}
}

func (e *Engine) createMemory(ctx context.Context, cmd command.Command) []Message {
	params := store.CreateParams{
		User:     e.user,
		Type:     model.TypeText,
		Content:  cmd.Content,
		Category: cmd.Category,
		Tags:     cmd.Tags,
	}
	if _, err := e.store.Create(ctx, params); err != nil {
		e.log.Warn("create memory failed", zap.Error(err))
		e.journalFallback("create memory", params)
		return []Message{mother("Memory saved locally. (Store unavailable)")}
	}
	msg := "Memory created successfully."
	if len(cmd.Tags) > 0 {
		msg += fmt.Sprintf(" Tags: %s.", strings.Join(cmd.Tags, ", "))
	}
	if cmd.Category != "" {
		msg += fmt.Sprintf(" Category: %s.", cmd.Category)
	}
	return []Message{mother(msg)}
}

func (e *Engine) persistBuilder(ctx context.Context, b *BuilderSession) []Message {
	d := b.Draft()
	if b.Kind() == model.TypeImage {
		return e.persistImage(ctx, d)
	}

	title := d.Title
	if title == "" {
		title = b.Label()
	}
	params := store.CreateParams{
		User:     e.user,
		Type:     b.Kind(),
		Content:  title,
		Category: d.Category,
		Tags:     d.Tags,
		Columns:  d.Columns,
		Rows:     d.Rows,
		Items:    d.Items,
		Events:   d.Events,
	}
	if _, err := e.store.Create(ctx, params); err != nil {
		e.log.Warn("persist failed", zap.String("type", b.Kind()), zap.Error(err))
		e.journalFallback("create "+b.Kind(), params)
		return []Message{motherf("%s saved locally. (Store unavailable)", b.Label())}
	}

	msg := fmt.Sprintf("%s created successfully!", b.Label())
	if len(d.Tags) > 0 {
		msg += fmt.Sprintf(" Tags: %s.", strings.Join(d.Tags, ", "))
	}
	if d.Category != "" {
		msg += fmt.Sprintf(" Category: %s.", d.Category)
	}
	msgs := []Message{mother(msg)}

	switch b.Kind() {
	case model.TypeList:
		msgs = append(msgs, systemf("── %s ──", title))
		for _, item := range d.Items {
			msgs = append(msgs, systemf("  • %s", item))
		}
	case model.TypeTimeline:
		msgs = append(msgs, systemf("── %s ──", title))
		for _, ev := range d.Events {
			msgs = append(msgs, systemf("  %s", ev.Display()))
		}
	}
	return msgs
}

func (e *Engine) persistImage(ctx context.Context, d draft) []Message {
	img, err := e.media.Upload(ctx, store.UploadParams{
		User:        e.user,
		Name:        d.FileName,
		Data:        d.FileData,
		Description: d.Description,
		Tags:        d.Tags,
		Album:       d.Album,
	})
	if err != nil {
		e.log.Warn("image upload failed", zap.Error(err))
		e.journalFallback("upload image", map[string]interface{}{
			"name": d.FileName, "description": d.Description,
			"tags": d.Tags, "album": d.Album,
		})
		return []Message{mother("Image saved locally. (Store unavailable)")}
	}

	content := d.Description
	if content == "" {
		content = "Image"
	}
	if _, err := e.store.Create(ctx, store.CreateParams{
		User:     e.user,
		Type:     model.TypeImage,
		Content:  content,
		Tags:     d.Tags,
		ImageURL: img.URL,
		ImageID:  img.ID,
		Album:    d.Album,
	}); err != nil {
		e.log.Warn("image memory record failed", zap.Error(err))
		e.journalFallback("image memory record", map[string]interface{}{
			"image_id": img.ID, "url": img.URL, "description": d.Description,
			"tags": d.Tags, "album": d.Album,
		})
		return []Message{mother("Image uploaded, but its diary entry could not be saved. Entry saved locally.")}
	}
	return []Message{mother("Image uploaded successfully.")}
}

func (e *Engine) editMemory(ctx context.Context, cmd command.Command) []Message {
	if cmd.ID == "" {
		return []Message{system("Please specify memory ID: edit memory #12")}
	}

	m, err := e.store.Get(ctx, e.user, cmd.ID)
	if err != nil {
		return []Message{systemf("Memory #%s not found.", cmd.ID)}
	}

	// Structured memories open an interactive editor behind a
	// confirmation; plain text edits apply immediately.
	if m.Structured() {
		return e.gate.Request(Action{Kind: "edit", Memory: m},
			fmt.Sprintf("Do you want to edit memory #%s? (yes/no)", m.ID))
	}

	fields := store.Fields{}
	if cmd.Updates.Content != "" {
		fields.Content = &cmd.Updates.Content
	}
	if cmd.Updates.Add != "" {
		fields.Add = &cmd.Updates.Add
	}
	if err := e.store.Update(ctx, store.UpdateParams{User: e.user, ID: m.ID, Fields: fields}); err != nil {
		return []Message{systemf("Error: %v", err)}
	}
	return []Message{mother("Memory updated successfully.")}
}

func (e *Engine) startEditor(m *model.Memory) []Message {
	switch m.Type {
	case model.TypeTable:
		e.editor = NewTableEditor(m)
	case model.TypeList:
		e.editor = NewListEditor(m)
	case model.TypeTimeline:
		e.editor = NewTimelineEditor(m)
	default:
		e.editor = NewImageEditor(m)
	}
	return e.editor.Start()
}

func (e *Engine) persistEditor(ctx context.Context) []Message {
	ed := e.editor
	d := ed.Draft()

	if ed.Kind() == model.TypeImage {
		if ed.ImageID() != "" {
			if err := e.media.UpdateImage(ctx, store.ImageUpdateParams{
				User: e.user, ID: ed.ImageID(),
				Description: &d.Description, Tags: &d.Tags, Album: &d.Album,
			}); err != nil {
				return []Message{systemf("Error saving: %v", err)}
			}
		}
		if err := e.store.Update(ctx, store.UpdateParams{
			User: e.user, ID: ed.MemoryID(),
			Fields: store.Fields{Content: &d.Description, Tags: &d.Tags},
		}); err != nil {
			return []Message{systemf("Error saving: %v", err)}
		}
		e.editor = nil
		return []Message{motherf("Image #%s updated successfully.", ed.MemoryID())}
	}

	fields := store.Fields{
		Content:  &d.Title,
		Tags:     &d.Tags,
		Category: &d.Category,
	}
	switch ed.Kind() {
	case model.TypeTable:
		fields.Columns = &d.Columns
		fields.Rows = &d.Rows
	case model.TypeList:
		fields.Items = &d.Items
	case model.TypeTimeline:
		fields.Events = &d.Events
	}
	if err := e.store.Update(ctx, store.UpdateParams{User: e.user, ID: ed.MemoryID(), Fields: fields}); err != nil {
		// Session stays alive so the edits are not lost.
		return []Message{systemf("Error saving: %v", err)}
	}
	e.editor = nil
	return []Message{motherf("%s #%s updated successfully!", ed.Label(), ed.MemoryID())}
}

func (e *Engine) requestDelete(cmd command.Command) []Message {
	var prompt string
	switch {
	case cmd.DeleteAll:
		prompt = "Are you sure you want to DELETE ALL memories? This cannot be undone! (yes/no)"
	case len(cmd.Filters.Tags) > 0:
		prompt = fmt.Sprintf("Are you sure you want to delete all memories with tags: %s? (yes/no)",
			strings.Join(cmd.Filters.Tags, ", "))
	case cmd.Filters.Category != "":
		prompt = fmt.Sprintf("Are you sure you want to delete all memories in category: %s? (yes/no)",
			cmd.Filters.Category)
	case cmd.ID != "":
		prompt = fmt.Sprintf("Are you sure you want to delete %s #%s? (yes/no)", cmd.Target, cmd.ID)
	default:
		return []Message{system("Please specify: delete memory #12, delete all, delete memories tags: work, or delete memories category: happy")}
	}
	return e.gate.Request(Action{Kind: "delete", Command: cmd}, prompt)
}

func (e *Engine) executeDelete(ctx context.Context, cmd command.Command) []Message {
	if cmd.DeleteAll {
		n, err := e.store.BulkDelete(ctx, store.BulkDeleteParams{User: e.user, DeleteAll: true})
		if err != nil {
			return []Message{systemf("Error: %v", err)}
		}
		return []Message{motherf("All %d memories deleted successfully.", n)}
	}

	if len(cmd.Filters.Tags) > 0 || cmd.Filters.Category != "" {
		n, err := e.store.BulkDelete(ctx, store.BulkDeleteParams{
			User:     e.user,
			Tags:     cmd.Filters.Tags,
			Category: cmd.Filters.Category,
		})
		if err != nil {
			return []Message{systemf("Error: %v", err)}
		}
		return []Message{motherf("%d memories deleted successfully.", n)}
	}

	if cmd.Target == "picture" || cmd.Target == "image" {
		return e.deleteImage(ctx, cmd)
	}

	m, err := e.store.Get(ctx, e.user, cmd.ID)
	if err != nil {
		return []Message{systemf("Error: %v", err)}
	}
	if m.Type == model.TypeImage && m.ImageID != "" {
		// Image file removal is best effort; the memory row is
		// authoritative.
		if err := e.media.DeleteImage(ctx, e.user, m.ImageID); err != nil {
			e.log.Warn("delete associated image failed", zap.Error(err))
		}
	}
	if err := e.store.Delete(ctx, e.user, m.ID); err != nil {
		return []Message{systemf("Error: %v", err)}
	}
	return []Message{motherf("%s #%s deleted successfully.", cmd.Target, cmd.ID)}
}

// deleteImage removes an image record by id, plus any memory row that
// points at it.
func (e *Engine) deleteImage(ctx context.Context, cmd command.Command) []Message {
	if err := e.media.DeleteImage(ctx, e.user, cmd.ID); err != nil {
		return []Message{systemf("Error: %v", err)}
	}
	memories, err := e.store.List(ctx, store.ListParams{User: e.user, Type: model.TypeImage})
	if err == nil {
		for _, m := range memories {
			if m.ImageID == cmd.ID {
				if err := e.store.Delete(ctx, e.user, m.ID); err != nil {
					e.log.Warn("delete image memory row failed", zap.Error(err))
				}
			}
		}
	}
	return []Message{motherf("%s #%s deleted successfully.", cmd.Target, cmd.ID)}
}

func (e *Engine) retrieve(ctx context.Context, cmd command.Command) []Message {
	f := cmd.Filters

	if f.Search != "" {
		results, err := e.store.Search(ctx, store.SearchParams{
			User:     e.user,
			Query:    f.Search,
			Category: f.Category,
			Type:     f.Type,
			Tags:     f.Tags,
		})
		if err != nil {
			return []Message{systemf("Error: %v", err)}
		}
		if len(results) == 0 {
			return []Message{mother("No memories found matching your search.")}
		}
		e.retrieved = results
		msgs := []Message{motherf("Found %d memories:", len(results))}
		for _, m := range results {
			msgs = append(msgs, systemf("  #%s: %s", m.ID, m.Title()))
		}
		return msgs
	}

	limit := 0
	if f.First {
		limit = 1
	}
	results, err := e.store.List(ctx, store.ListParams{
		User:     e.user,
		Category: f.Category,
		Type:     f.Type,
		Tags:     f.Tags,
		Date:     f.Date,
		Limit:    limit,
	})
	if err != nil {
		return []Message{systemf("Error: %v", err)}
	}
	if len(results) == 0 {
		return []Message{mother("No memories found with those filters.")}
	}

	e.retrieved = results
	var parts []string
	if f.Category != "" {
		parts = append(parts, "category: "+f.Category)
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(f.Tags, ", "))
	}
	desc := ""
	if len(parts) > 0 {
		desc = " (" + strings.Join(parts, ", ") + ")"
	}
	return []Message{motherf("Retrieved %d memories%s.", len(results), desc)}
}

func (e *Engine) journalFallback(reason string, payload interface{}) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Append(e.user, reason, payload); err != nil {
		e.log.Error("journal append failed", zap.Error(err))
	}
}

func helpText() []Message {
	lines := []string{
		"═══ CREATE MEMORIES ═══",
		`  create memory: "Your text"`,
		`  create memory: #work #ideas "Your text"`,
		`  create memory: category: happy "Your text"`,
		`  create memory: #work category: happy "Your text"`,
		"",
		"═══ CREATE TABLE (Interactive) ═══",
		"  create table - Starts guided table creation",
		"    → Mother asks for: title, columns, rows, tags, category",
		"    → Type 'cancel' to abort at any step",
		"",
		"═══ CREATE LIST (Interactive) ═══",
		"  create list - Starts guided list creation",
		"    → Mother asks for: title, items, tags, category",
		"    → Type 'cancel' to abort at any step",
		"",
		"═══ CREATE TIMELINE (Interactive) ═══",
		"  create timeline - Starts guided timeline creation",
		"    → Mother asks for: title, events, tags, category",
		"    → Type 'cancel' to abort at any step",
		"    → Format for events: TIME - DESCRIPTION (e.g., '9:00 AM - Wake up')",
		"",
		"═══ SAVE IMAGES ═══",
		"  save picture - Opens file picker to upload image",
		"",
		"═══ RETRIEVE MEMORIES ═══",
		"  show all - Retrieve all memories and images",
		"  show tags: work - Memories tagged with 'work'",
		"  show tags: work, ideas - Memories with any of these tags",
		"  show #tag1 #tag2 - Hashtag syntax for tags",
		"  show category: happy - All in category 'happy'",
		"  show pictures - All images only",
		"  show all tables - All table memories",
		"  Mother, show happy moments - Natural language retrieval",
		"",
		"═══ EDIT & DELETE ═══",
		`  edit memory #12: "New content" - Update memory text`,
		"  edit memory #12 - For tables/lists: opens interactive editor",
		"  delete memory #12 - Delete single memory",
		"  delete picture #5 - Delete single image",
		"  delete image #5 - Same as delete picture",
		"  delete all - Delete ALL memories (asks for confirmation)",
		"  delete memories tags: work - Delete all tagged 'work'",
		"  delete memories category: happy - Delete in category",
		"",
		"═══ OTHER ═══",
		"  clear - Clear terminal screen",
		"  help - Show this help (what you're reading)",
	}
	msgs := make([]Message, len(lines))
	for i, l := range lines {
		msgs[i] = system(l)
	}
	return msgs
}
