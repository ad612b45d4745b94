package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mid-diary/mid/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), filepath.Join(dir, "media"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mem, err := s.Create(ctx, CreateParams{
		User: "amy", Type: model.TypeText, Content: "my first day",
		Category: "personal", Tags: []string{"school"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if mem.ID == "" {
		t.Error("expected non-empty ID")
	}
	if mem.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := s.Get(ctx, "amy", mem.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != "my first day" {
		t.Errorf("expected content %q, got %q", "my first day", got.Content)
	}
	if got.Category != "personal" {
		t.Errorf("expected category personal, got %q", got.Category)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "school" {
		t.Errorf("expected tags [school], got %v", got.Tags)
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "amy", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mem, _ := s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "secret"})

	if _, err := s.Get(ctx, "bob", mem.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}

	got, err := s.List(ctx, ListParams{User: "bob"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no memories for bob, got %d", len(got))
	}
}

func TestCreateInvalidType(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, CreateParams{User: "amy", Type: "video", Content: "x"})
	if err == nil {
		t.Fatal("expected error for invalid type")
	}
}

func TestCreateStructured(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	table, err := s.Create(ctx, CreateParams{
		User: "amy", Type: model.TypeTable, Content: "Grades",
		Columns: []string{"Subject", "Grade"},
		Rows:    [][]string{{"Math", "A"}, {"Art", "B"}},
	})
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	got, err := s.Get(ctx, "amy", table.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Columns) != 2 || got.Columns[1] != "Grade" {
		t.Errorf("columns not preserved: %v", got.Columns)
	}
	if len(got.Rows) != 2 || got.Rows[0][0] != "Math" {
		t.Errorf("rows not preserved: %v", got.Rows)
	}

	tl, err := s.Create(ctx, CreateParams{
		User: "amy", Type: model.TypeTimeline, Content: "My Day",
		Events: []model.Event{{Time: "8:00 AM", Description: "woke up"}},
	})
	if err != nil {
		t.Fatalf("create timeline: %v", err)
	}
	got, _ = s.Get(ctx, "amy", tl.ID)
	if len(got.Events) != 1 || got.Events[0].Time != "8:00 AM" {
		t.Errorf("events not preserved: %v", got.Events)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "a", Category: "school", Tags: []string{"math"}})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "b", Category: "home", Tags: []string{"fun", "math"}})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeTable, Content: "c", Category: "school"})

	got, err := s.List(ctx, ListParams{User: "amy", Category: "school"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 school memories, got %d", len(got))
	}

	got, _ = s.List(ctx, ListParams{User: "amy", Type: model.TypeTable})
	if len(got) != 1 || got[0].Content != "c" {
		t.Errorf("expected 1 table memory, got %v", got)
	}

	// Tags match any (OR)
	got, _ = s.List(ctx, ListParams{User: "amy", Tags: []string{"fun", "math"}})
	if len(got) != 2 {
		t.Errorf("expected 2 tagged memories, got %d", len(got))
	}

	got, _ = s.List(ctx, ListParams{User: "amy", Tags: []string{"nope"}})
	if len(got) != 0 {
		t.Errorf("expected no match for unknown tag, got %d", len(got))
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "first"})
	second, _ := s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "second"})

	got, err := s.List(ctx, ListParams{User: "amy"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 memories, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Error("expected newest-first ordering")
	}
}

func TestUpdateFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mem, _ := s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "hello"})

	content := "goodbye"
	cat := "moods"
	if err := s.Update(ctx, UpdateParams{
		User: "amy", ID: mem.ID,
		Fields: Fields{Content: &content, Category: &cat},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.Get(ctx, "amy", mem.ID)
	if got.Content != "goodbye" || got.Category != "moods" {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("expected updated_at to advance")
	}
}

func TestUpdateAppend(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mem, _ := s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "line one"})

	add := "line two"
	if err := s.Update(ctx, UpdateParams{User: "amy", ID: mem.ID, Fields: Fields{Add: &add}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.Get(ctx, "amy", mem.ID)
	if got.Content != "line one\nline two" {
		t.Errorf("expected appended content, got %q", got.Content)
	}
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	content := "x"
	err := s.Update(ctx, UpdateParams{User: "amy", ID: "nope", Fields: Fields{Content: &content}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mem, _ := s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "bye"})

	if err := s.Delete(ctx, "amy", mem.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "amy", mem.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "amy", mem.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBulkDeleteRequiresScope(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "keep me"})

	_, err := s.BulkDelete(ctx, BulkDeleteParams{User: "amy"})
	if err == nil {
		t.Fatal("expected error for unscoped bulk delete")
	}
	if !strings.Contains(err.Error(), "deleteAll, category, or tags") {
		t.Errorf("unexpected error: %v", err)
	}

	got, _ := s.List(ctx, ListParams{User: "amy"})
	if len(got) != 1 {
		t.Errorf("expected memory to survive, got %d", len(got))
	}
}

func TestBulkDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "a"})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "b"})
	s.Create(ctx, CreateParams{User: "bob", Type: model.TypeText, Content: "mine"})

	n, err := s.BulkDelete(ctx, BulkDeleteParams{User: "amy", DeleteAll: true})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}

	got, _ := s.List(ctx, ListParams{User: "bob"})
	if len(got) != 1 {
		t.Errorf("expected bob's memory to survive, got %d", len(got))
	}
}

func TestBulkDeleteByTagsAndCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "a", Tags: []string{"old"}})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "b", Tags: []string{"old", "sad"}})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "c", Category: "drafts"})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "d"})

	n, err := s.BulkDelete(ctx, BulkDeleteParams{User: "amy", Tags: []string{"old", "sad"}})
	if err != nil {
		t.Fatalf("bulk delete by tags: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted by tags, got %d", n)
	}

	n, err = s.BulkDelete(ctx, BulkDeleteParams{User: "amy", Category: "drafts"})
	if err != nil {
		t.Fatalf("bulk delete by category: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted by category, got %d", n)
	}

	got, _ := s.List(ctx, ListParams{User: "amy"})
	if len(got) != 1 || got[0].Content != "d" {
		t.Errorf("expected only untagged memory to survive, got %v", got)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "a", Category: "school", Tags: []string{"math"}})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "b", Category: "school", Tags: []string{"math", "fun"}})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeList, Content: "c"})

	st, err := s.Stats(ctx, "amy")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalMemories != 3 {
		t.Errorf("expected 3 memories, got %d", st.TotalMemories)
	}
	if st.ByType[model.TypeText] != 2 || st.ByType[model.TypeList] != 1 {
		t.Errorf("unexpected type counts: %v", st.ByType)
	}
	if st.DBSizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
	if len(st.Categories) != 1 || st.Categories[0].Name != "school" || st.Categories[0].Count != 2 {
		t.Errorf("unexpected categories: %v", st.Categories)
	}
	if len(st.Tags) != 2 || st.Tags[0].Name != "math" || st.Tags[0].Count != 2 {
		t.Errorf("unexpected tags: %v", st.Tags)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeText, Content: "a"})
	s.Create(ctx, CreateParams{User: "amy", Type: model.TypeList, Content: "Chores", Items: []string{"dishes"}})

	exported, err := s.ExportAll(ctx, "amy")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}

	dir := t.TempDir()
	dst, err := Open(filepath.Join(dir, "other.db"), filepath.Join(dir, "media"))
	if err != nil {
		t.Fatalf("open dst: %v", err)
	}
	defer dst.Close()

	n, err := dst.Import(ctx, "amy", exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	got, _ := dst.List(ctx, ListParams{User: "amy"})
	if len(got) != 2 {
		t.Errorf("expected 2 memories after import, got %d", len(got))
	}
}
