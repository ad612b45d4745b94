// Package store provides the diary storage interfaces and the SQLite
// implementation. Every operation is scoped by the owning user; per-user
// isolation lives here, not in the dialogue engine.
package store

import (
	"context"
	"errors"

	"github.com/mid-diary/mid/internal/model"
)

// ErrNotFound is returned when a memory or image id does not exist for the
// requesting user.
var ErrNotFound = errors.New("not found")

// CreateParams holds the payload for a new memory.
type CreateParams struct {
	User     string
	Type     string
	Content  string
	Category string
	Tags     []string
	Columns  []string
	Rows     [][]string
	Items    []string
	Events   []model.Event
	ImageURL string
	ImageID  string
	Album    string
}

// ListParams holds filters for listing memories.
type ListParams struct {
	User     string
	Category string
	Type     string
	Tags     []string // any-match (OR)
	Date     string   // YYYY-MM-DD, matches creation day
	Limit    int
}

// Fields is a partial update; nil fields are left unchanged.
type Fields struct {
	Content  *string
	Add      *string // append to existing content
	Category *string
	Tags     *[]string
	Columns  *[]string
	Rows     *[][]string
	Items    *[]string
	Events   *[]model.Event
}

// UpdateParams identifies a memory and the fields to change.
type UpdateParams struct {
	User   string
	ID     string
	Fields Fields
}

// BulkDeleteParams scopes a bulk delete. At least one of DeleteAll,
// Category, or Tags must be set; an unscoped bulk delete is rejected.
type BulkDeleteParams struct {
	User      string
	DeleteAll bool
	Category  string
	Tags      []string // any-match (OR)
}

// SearchParams holds a substring query plus optional filters.
type SearchParams struct {
	User     string
	Query    string
	Category string
	Type     string
	Tags     []string
	Limit    int
}

// Store defines the memory storage interface consumed by the dialogue
// engine and the CLI.
type Store interface {
	// Create stores a new memory and returns it with id and timestamps.
	Create(ctx context.Context, p CreateParams) (*model.Memory, error)

	// Get retrieves one memory by id.
	Get(ctx context.Context, user, id string) (*model.Memory, error)

	// List returns memories matching the filters, newest first.
	List(ctx context.Context, p ListParams) ([]model.Memory, error)

	// Update applies a partial field update to one memory.
	Update(ctx context.Context, p UpdateParams) error

	// Delete removes one memory by id.
	Delete(ctx context.Context, user, id string) error

	// BulkDelete removes all memories matching the scope and returns the
	// number deleted. Rejects an unscoped request.
	BulkDelete(ctx context.Context, p BulkDeleteParams) (int, error)

	// Search finds memories whose content or description contains the
	// query substring, combinable with category/type/tag filters.
	Search(ctx context.Context, p SearchParams) ([]model.Memory, error)

	// Close closes the store.
	Close() error
}

// UploadParams holds a new image and its metadata.
type UploadParams struct {
	User        string
	Name        string // original file name, used for the extension
	Data        []byte
	Description string
	Tags        []string
	Album       string
}

// ImageUpdateParams is a partial image metadata update.
type ImageUpdateParams struct {
	User        string
	ID          string
	Description *string
	Tags        *[]string
	Album       *string
}

// MediaStore defines the picture storage interface.
type MediaStore interface {
	// Upload stores the image bytes and metadata, returning id and url.
	Upload(ctx context.Context, p UploadParams) (*model.Image, error)

	// GetImage retrieves one image record by id.
	GetImage(ctx context.Context, user, id string) (*model.Image, error)

	// ListImages returns all image records for a user, newest first.
	ListImages(ctx context.Context, user string) ([]model.Image, error)

	// UpdateImage applies a partial metadata update.
	UpdateImage(ctx context.Context, p ImageUpdateParams) error

	// DeleteImage removes the image record and its stored bytes.
	DeleteImage(ctx context.Context, user, id string) error
}
