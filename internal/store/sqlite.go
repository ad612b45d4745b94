package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/mid-diary/mid/internal/model"
)

// timeLayout is fixed-width so timestamps sort lexicographically in SQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store and MediaStore using SQLite, with image
// bytes stored as files under a media directory.
type SQLiteStore struct {
	db       *sql.DB
	entropy  *rand.Rand
	path     string
	mediaDir string
}

// Open opens or creates a SQLite database at dbPath. Image files are
// written under mediaDir.
func Open(dbPath, mediaDir string) (*SQLiteStore, error) {
	for _, dir := range []string{filepath.Dir(dbPath), mediaDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:       db,
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
		path:     dbPath,
		mediaDir: mediaDir,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id          TEXT PRIMARY KEY,
		owner       TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT 'text',
		content     TEXT,
		category    TEXT,
		tags        TEXT,
		payload     TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_owner ON memories(owner);
	CREATE INDEX IF NOT EXISTS idx_memories_owner_type ON memories(owner, type);
	CREATE INDEX IF NOT EXISTS idx_memories_owner_category ON memories(owner, category);
	CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at DESC);

	CREATE TABLE IF NOT EXISTS images (
		id          TEXT PRIMARY KEY,
		owner       TEXT NOT NULL,
		url         TEXT NOT NULL,
		description TEXT,
		tags        TEXT,
		album       TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_images_owner ON images(owner);
	`
	_, err := s.db.Exec(schema)
	return err
}

// payload is the type-specific part of a memory row, stored as JSON.
type payload struct {
	Columns     []string      `json:"columns,omitempty"`
	Rows        [][]string    `json:"rows,omitempty"`
	Items       []string      `json:"items,omitempty"`
	Events      []model.Event `json:"events,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	ImageID     string        `json:"image_id,omitempty"`
	Album       string        `json:"album,omitempty"`
	Description string        `json:"description,omitempty"`
}

func (s *SQLiteStore) Create(ctx context.Context, p CreateParams) (*model.Memory, error) {
	typ := p.Type
	if typ == "" {
		typ = model.TypeText
	}
	if !model.ValidTypes[typ] {
		return nil, fmt.Errorf("invalid memory type %q", typ)
	}

	now := time.Now().UTC()
	id := s.newID()

	var tagsJSON *string
	if len(p.Tags) > 0 {
		b, _ := json.Marshal(p.Tags)
		v := string(b)
		tagsJSON = &v
	}

	pl := payload{
		Columns:  p.Columns,
		Rows:     p.Rows,
		Items:    p.Items,
		Events:   p.Events,
		ImageURL: p.ImageURL,
		ImageID:  p.ImageID,
		Album:    p.Album,
	}
	if typ == model.TypeImage {
		pl.Description = p.Content
	}
	plJSON, _ := json.Marshal(pl)

	var category *string
	if p.Category != "" {
		category = &p.Category
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, owner, type, content, category, tags, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.User, typ, p.Content, category, tagsJSON, string(plJSON),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}

	return &model.Memory{
		ID:        id,
		User:      p.User,
		Type:      typ,
		Content:   p.Content,
		Category:  p.Category,
		Tags:      p.Tags,
		Columns:   p.Columns,
		Rows:      p.Rows,
		Items:     p.Items,
		Events:    p.Events,
		ImageURL:  p.ImageURL,
		ImageID:   p.ImageID,
		Album:     p.Album,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

const memoryCols = `id, owner, type, content, category, tags, payload, created_at, updated_at`

func (s *SQLiteStore) Get(ctx context.Context, user, id string) (*model.Memory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memoryCols+` FROM memories WHERE owner = ? AND id = ?`, user, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Memory, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	where := []string{"owner = ?"}
	args := []interface{}{p.User}

	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, p.Type)
	}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if len(p.Tags) > 0 {
		where = append(where, tagMatchClause(p.Tags, &args))
	}
	if p.Date != "" {
		where = append(where, "created_at LIKE ?")
		args = append(args, p.Date+"%")
	}

	query := fmt.Sprintf(
		`SELECT `+memoryCols+` FROM memories WHERE %s ORDER BY created_at DESC LIMIT ?`,
		strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryMemories(ctx, query, args...)
}

// tagMatchClause builds an OR group so a memory matches when it carries any
// of the requested tags.
func tagMatchClause(tags []string, args *[]interface{}) string {
	conds := make([]string, 0, len(tags))
	for _, tag := range tags {
		conds = append(conds, "tags LIKE ?")
		*args = append(*args, `%"`+tag+`"%`)
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}

func (s *SQLiteStore) Update(ctx context.Context, p UpdateParams) error {
	m, err := s.Get(ctx, p.User, p.ID)
	if err != nil {
		return err
	}

	f := p.Fields
	if f.Content != nil {
		m.Content = *f.Content
	}
	if f.Add != nil {
		if m.Content != "" {
			m.Content += "\n" + *f.Add
		} else {
			m.Content = *f.Add
		}
	}
	if f.Category != nil {
		m.Category = *f.Category
	}
	if f.Tags != nil {
		m.Tags = *f.Tags
	}
	if f.Columns != nil {
		m.Columns = *f.Columns
	}
	if f.Rows != nil {
		m.Rows = *f.Rows
	}
	if f.Items != nil {
		m.Items = *f.Items
	}
	if f.Events != nil {
		m.Events = *f.Events
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

	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`UPDATE memories SET content = ?, category = ?, tags = ?, payload = ?, updated_at = ?
		 WHERE owner = ? AND id = ?`,
		m.Content, category, tagsJSON, string(plJSON), now, p.User, p.ID)
	if err != nil {
		return fmt.Errorf("update memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, user, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories WHERE owner = ? AND id = ?`, user, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) BulkDelete(ctx context.Context, p BulkDeleteParams) (int, error) {
	if !p.DeleteAll && p.Category == "" && len(p.Tags) == 0 {
		return 0, fmt.Errorf("must specify deleteAll, category, or tags for bulk delete")
	}

	where := []string{"owner = ?"}
	args := []interface{}{p.User}

	if !p.DeleteAll {
		if p.Category != "" {
			where = append(where, "category = ?")
			args = append(args, p.Category)
		}
		if len(p.Tags) > 0 {
			where = append(where, tagMatchClause(p.Tags, &args))
		}
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories WHERE `+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryMemories(ctx context.Context, query string, args ...interface{}) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (model.Memory, error) {
	var m model.Memory
	var content, category, tagsJSON, plJSON sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&m.ID, &m.User, &m.Type, &content, &category, &tagsJSON,
		&plJSON, &createdAt, &updatedAt)
	if err != nil {
		return m, err
	}

	m.Content = content.String
	m.Category = category.String
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &m.Tags)
	}
	if plJSON.Valid {
		var pl payload
		if err := json.Unmarshal([]byte(plJSON.String), &pl); err == nil {
			m.Columns = pl.Columns
			m.Rows = pl.Rows
			m.Items = pl.Items
			m.Events = pl.Events
			m.ImageURL = pl.ImageURL
			m.ImageID = pl.ImageID
			m.Album = pl.Album
		}
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return m, nil
}
