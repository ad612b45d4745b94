package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mid-diary/mid/internal/model"
)

// ExportAll returns all memories, optionally filtered to one user.
func (s *SQLiteStore) ExportAll(ctx context.Context, user string) ([]model.Memory, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if user != "" {
		where = append(where, "owner = ?")
		args = append(args, user)
	}

	query := `SELECT id, owner, type, content, category, tags, payload, created_at, updated_at
	          FROM memories WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at`

	return s.queryMemories(ctx, query, args...)
}

// Import stores memories from an export, keeping original ids and
// timestamps. Ids already present are skipped so an import can be re-run.
func (s *SQLiteStore) Import(ctx context.Context, user string, memories []model.Memory) (int, error) {
	imported := 0
	for _, m := range memories {
		id := m.ID
		if id == "" {
			id = s.newID()
		} else if _, err := s.Get(ctx, user, id); err == nil {
			continue
		}

		var tagsJSON *string
		if len(m.Tags) > 0 {
			b, _ := json.Marshal(m.Tags)
			v := string(b)
			tagsJSON = &v
		}
		var category *string
		if m.Category != "" {
			category = &m.Category
		}
		pl := payload{
			Columns:  m.Columns,
			Rows:     m.Rows,
			Items:    m.Items,
			Events:   m.Events,
			ImageURL: m.ImageURL,
			ImageID:  m.ImageID,
			Album:    m.Album,
		}
		if m.Type == model.TypeImage {
			pl.Description = m.Content
		}
		plJSON, _ := json.Marshal(pl)

		createdAt := m.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		updatedAt := m.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO memories (id, owner, type, content, category, tags, payload, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, user, m.Type, m.Content, category, tagsJSON, string(plJSON),
			createdAt.Format(timeLayout), updatedAt.Format(timeLayout))
		if err != nil {
			return imported, fmt.Errorf("import memory %s: %w", id, err)
		}
		imported++
	}
	return imported, nil
}
