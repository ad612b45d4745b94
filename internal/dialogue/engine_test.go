package dialogue

import (
	"context"
	"testing"

	"github.com/mid-diary/mid/internal/model"
	"github.com/mid-diary/mid/internal/store"
)

func TestBlankLinesIgnored(t *testing.T) {
	e := newTestEngine(newFakeStore())

	if msgs := feed(e, "", "   ", "\t"); msgs != nil {
		t.Errorf("expected no output for blank lines, got %v", msgs)
	}
}

func TestCreateMemoryCommand(t *testing.T) {
	f := newFakeStore()
	e := newTestEngine(f)

	msgs := feed(e, `create memory: "First day of school" tags: school, nervous category: milestones`)
	if !containsText(msgs, "Memory created successfully. Tags: school, nervous. Category: milestones.") {
		t.Fatalf("unexpected reply: %v", msgs)
	}
	m := f.memories[0]
	if m.Content != "First day of school" || m.Category != "milestones" {
		t.Errorf("unexpected memory: %+v", m)
	}
}

func TestUnknownCommandHint(t *testing.T) {
	e := newTestEngine(newFakeStore())

	msgs := feed(e, "craete memory: oops")
	if !containsText(msgs, "Type 'help' to see available commands.") {
		t.Errorf("expected help hint, got %v", msgs)
	}
}

func TestDeleteRequiresScope(t *testing.T) {
	f := newFakeStore()
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "keep"})
	e := newTestEngine(f)

	msgs := feed(e, "delete memories")
	if !containsText(msgs, "Please specify: delete memory #12, delete all, delete memories tags: work, or delete memories category: happy") {
		t.Fatalf("expected guidance, got %v", msgs)
	}
	if len(f.memories) != 1 {
		t.Errorf("expected nothing deleted, got %d memories", len(f.memories))
	}
}

func TestDeleteSingleWithConfirmation(t *testing.T) {
	f := newFakeStore()
	m, _ := f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "bye"})
	e := newTestEngine(f)

	msgs := feed(e, "delete memory #"+m.ID)
	if !containsText(msgs, "Are you sure you want to delete memory #"+m.ID+"? (yes/no)") {
		t.Fatalf("expected confirmation, got %v", msgs)
	}
	if len(f.memories) != 1 {
		t.Fatal("delete must not run before confirmation")
	}

	// Neither yes nor no keeps the gate armed and consumes the line.
	msgs = feed(e, "maybe")
	if !containsText(msgs, "Please type 'yes' or 'no' to confirm.") {
		t.Fatalf("expected re-prompt, got %v", msgs)
	}
	if len(f.memories) != 1 {
		t.Fatal("gate must not execute on ambiguous input")
	}

	msgs = feed(e, "y")
	if !containsText(msgs, "memory #"+m.ID+" deleted successfully.") {
		t.Fatalf("expected deletion, got %v", msgs)
	}
	if len(f.memories) != 0 || f.deleteCalls != 1 {
		t.Errorf("expected exactly one delete, got %d calls, %d memories", f.deleteCalls, len(f.memories))
	}
}

func TestDeleteDeclined(t *testing.T) {
	f := newFakeStore()
	m, _ := f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "keep"})
	e := newTestEngine(f)

	feed(e, "delete memory #"+m.ID)
	msgs := feed(e, "no")
	if !containsText(msgs, "Action cancelled.") {
		t.Fatalf("expected cancellation, got %v", msgs)
	}
	if len(f.memories) != 1 {
		t.Error("expected memory kept")
	}

	// Gate cleared: the next line goes to the parser.
	msgs = feed(e, "yes")
	if !containsText(msgs, "Unknown command") {
		t.Errorf("expected yes to fall through after gate cleared, got %v", msgs)
	}
}

func TestDeleteAllFlow(t *testing.T) {
	f := newFakeStore()
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "a"})
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "b"})
	e := newTestEngine(f)

	msgs := feed(e, "delete all")
	if !containsText(msgs, "Are you sure you want to DELETE ALL memories? This cannot be undone! (yes/no)") {
		t.Fatalf("expected warning, got %v", msgs)
	}
	msgs = feed(e, "yes")
	if !containsText(msgs, "All 2 memories deleted successfully.") {
		t.Fatalf("expected bulk delete, got %v", msgs)
	}
}

func TestDeleteByTags(t *testing.T) {
	f := newFakeStore()
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "a", Tags: []string{"old"}})
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "b"})
	e := newTestEngine(f)

	feed(e, "delete memories tags: old")
	msgs := feed(e, "yes")
	if !containsText(msgs, "1 memories deleted successfully.") {
		t.Fatalf("expected tag-scoped delete, got %v", msgs)
	}
	if len(f.memories) != 1 || f.memories[0].Content != "b" {
		t.Errorf("expected untagged memory kept, got %v", f.memories)
	}
}

func TestDeletePictureRemovesMemoryRow(t *testing.T) {
	f := newFakeStore()
	e := newTestEngine(f)

	img, _ := f.Upload(context.Background(), store.UploadParams{User: "amy", Name: "a.png", Data: []byte("x")})
	f.Create(context.Background(), store.CreateParams{
		User: "amy", Type: model.TypeImage, Content: "pic", ImageURL: img.URL, ImageID: img.ID,
	})

	feed(e, "delete picture #"+img.ID)
	msgs := feed(e, "yes")
	if !containsText(msgs, "picture #"+img.ID+" deleted successfully.") {
		t.Fatalf("expected deletion, got %v", msgs)
	}
	if len(f.images) != 0 {
		t.Error("expected image record removed")
	}
	if len(f.memories) != 0 {
		t.Error("expected referencing memory row removed")
	}
}

func TestSingleActiveFlowBuilderConsumesCommands(t *testing.T) {
	f := newFakeStore()
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "precious"})
	e := newTestEngine(f)

	feed(e, "create list", "skip")
	// "delete all" while building is a list item, not a command.
	msgs := feed(e, "delete all")
	if !containsText(msgs, "1. delete all") {
		t.Fatalf("expected literal item, got %v", msgs)
	}
	if len(f.memories) != 1 {
		t.Fatal("builder input must never reach the dispatcher")
	}
	feed(e, "done", "skip", "skip")
	if len(f.memories) != 2 {
		t.Errorf("expected list persisted, got %d memories", len(f.memories))
	}
}

func TestEditTextMemoryImmediate(t *testing.T) {
	f := newFakeStore()
	m, _ := f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "old"})
	e := newTestEngine(f)

	msgs := feed(e, `edit memory #`+m.ID+`: "new text"`)
	if !containsText(msgs, "Memory updated successfully.") {
		t.Fatalf("expected immediate update, got %v", msgs)
	}
	if f.memories[0].Content != "new text" {
		t.Errorf("expected updated content, got %q", f.memories[0].Content)
	}
}

func TestEditMemoryAppend(t *testing.T) {
	f := newFakeStore()
	m, _ := f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "line one"})
	e := newTestEngine(f)

	feed(e, `edit memory #`+m.ID+` add: "line two"`)
	if f.memories[0].Content != "line one\nline two" {
		t.Errorf("expected appended content, got %q", f.memories[0].Content)
	}
}

func TestEditMemoryRequiresID(t *testing.T) {
	e := newTestEngine(newFakeStore())

	msgs := feed(e, "edit memory")
	if !containsText(msgs, "Please specify memory ID: edit memory #12") {
		t.Errorf("expected id guidance, got %v", msgs)
	}
}

func TestEditMissingMemory(t *testing.T) {
	e := newTestEngine(newFakeStore())

	msgs := feed(e, "edit memory #zzz")
	if !containsText(msgs, "Memory #zzz not found.") {
		t.Errorf("expected not-found message, got %v", msgs)
	}
}

func TestRetrieveWithFilters(t *testing.T) {
	f := newFakeStore()
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "a", Category: "happy"})
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "b"})
	e := newTestEngine(f)

	msgs := feed(e, "show category: happy")
	if !containsText(msgs, "Retrieved 1 memories (category: happy).") {
		t.Fatalf("unexpected reply: %v", msgs)
	}
	if len(e.Retrieved()) != 1 || e.Retrieved()[0].Content != "a" {
		t.Errorf("unexpected retrieved cache: %v", e.Retrieved())
	}

	msgs = feed(e, "show category: nope")
	if !containsText(msgs, "No memories found with those filters.") {
		t.Errorf("expected empty result message, got %v", msgs)
	}
}

func TestRetrieveSearch(t *testing.T) {
	f := newFakeStore()
	f.Create(context.Background(), store.CreateParams{User: "amy", Type: model.TypeText, Content: "went to the park"})
	e := newTestEngine(f)

	msgs := feed(e, "search: \"park\"")
	if !containsText(msgs, "Found 1 memories:") {
		t.Fatalf("expected search hit, got %v", msgs)
	}
	if !containsText(msgs, "went to the park") {
		t.Errorf("expected listing line, got %v", msgs)
	}

	msgs = feed(e, "search: \"beach\"")
	if !containsText(msgs, "No memories found matching your search.") {
		t.Errorf("expected empty search message, got %v", msgs)
	}
}

func TestClearCommand(t *testing.T) {
	e := newTestEngine(newFakeStore())

	msgs := feed(e, "clear")
	if len(msgs) == 0 || msgs[0].Kind != KindClear {
		t.Fatalf("expected clear signal first, got %v", msgs)
	}
	if !containsText(msgs, "Terminal cleared.") {
		t.Errorf("expected confirmation, got %v", msgs)
	}
}

func TestHelpCommand(t *testing.T) {
	e := newTestEngine(newFakeStore())

	msgs := feed(e, "help")
	if !containsText(msgs, "═══ CREATE MEMORIES ═══") {
		t.Errorf("expected help text, got %d messages", len(msgs))
	}
}

func TestWelcome(t *testing.T) {
	e := newTestEngine(newFakeStore())

	msgs := e.Welcome()
	if !containsText(msgs, "Welcome, amy. Type 'help' for commands.") {
		t.Errorf("unexpected welcome: %v", msgs)
	}
}
