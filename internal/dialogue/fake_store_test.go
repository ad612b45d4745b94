package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/mid-diary/mid/internal/model"
	"github.com/mid-diary/mid/internal/store"
)

// fakeStore is an in-memory Store and MediaStore for engine tests.
type fakeStore struct {
	nextID   int
	memories []model.Memory
	images   []model.Image

	failCreate bool
	failUpdate bool

	createCalls int
	updateCalls int
	deleteCalls int
	uploadCalls int
}

func newFakeStore() *fakeStore { return &fakeStore{nextID: 1} }

func (f *fakeStore) id() string {
	id := fmt.Sprintf("m%d", f.nextID)
	f.nextID++
	return id
}

func (f *fakeStore) Create(ctx context.Context, p store.CreateParams) (*model.Memory, error) {
	f.createCalls++
	if f.failCreate {
		return nil, fmt.Errorf("store unavailable")
	}
	m := model.Memory{
		ID: f.id(), User: p.User, Type: p.Type, Content: p.Content,
		Category: p.Category, Tags: p.Tags, Columns: p.Columns, Rows: p.Rows,
		Items: p.Items, Events: p.Events, ImageURL: p.ImageURL,
		ImageID: p.ImageID, Album: p.Album,
	}
	f.memories = append(f.memories, m)
	return &m, nil
}

func (f *fakeStore) Get(ctx context.Context, user, id string) (*model.Memory, error) {
	for i := range f.memories {
		if f.memories[i].ID == id && f.memories[i].User == user {
			m := f.memories[i]
			return &m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context, p store.ListParams) ([]model.Memory, error) {
	var out []model.Memory
	for _, m := range f.memories {
		if m.User != p.User {
			continue
		}
		if p.Type != "" && m.Type != p.Type {
			continue
		}
		if p.Category != "" && m.Category != p.Category {
			continue
		}
		if len(p.Tags) > 0 && !anyTag(m.Tags, p.Tags) {
			continue
		}
		out = append(out, m)
	}
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, p store.UpdateParams) error {
	f.updateCalls++
	if f.failUpdate {
		return fmt.Errorf("store unavailable")
	}
	for i := range f.memories {
		if f.memories[i].ID != p.ID || f.memories[i].User != p.User {
			continue
		}
		m := &f.memories[i]
		if p.Fields.Content != nil {
			m.Content = *p.Fields.Content
		}
		if p.Fields.Add != nil {
			if m.Content != "" {
				m.Content += "\n" + *p.Fields.Add
			} else {
				m.Content = *p.Fields.Add
			}
		}
		if p.Fields.Category != nil {
			m.Category = *p.Fields.Category
		}
		if p.Fields.Tags != nil {
			m.Tags = *p.Fields.Tags
		}
		if p.Fields.Columns != nil {
			m.Columns = *p.Fields.Columns
		}
		if p.Fields.Rows != nil {
			m.Rows = *p.Fields.Rows
		}
		if p.Fields.Items != nil {
			m.Items = *p.Fields.Items
		}
		if p.Fields.Events != nil {
			m.Events = *p.Fields.Events
		}
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, user, id string) error {
	f.deleteCalls++
	for i := range f.memories {
		if f.memories[i].ID == id && f.memories[i].User == user {
			f.memories = append(f.memories[:i], f.memories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) BulkDelete(ctx context.Context, p store.BulkDeleteParams) (int, error) {
	if !p.DeleteAll && p.Category == "" && len(p.Tags) == 0 {
		return 0, fmt.Errorf("must specify deleteAll, category, or tags for bulk delete")
	}
	var kept []model.Memory
	deleted := 0
	for _, m := range f.memories {
		match := m.User == p.User
		if match && !p.DeleteAll {
			match = (p.Category != "" && m.Category == p.Category) ||
				(len(p.Tags) > 0 && anyTag(m.Tags, p.Tags))
		}
		if match {
			deleted++
		} else {
			kept = append(kept, m)
		}
	}
	f.memories = kept
	return deleted, nil
}

func (f *fakeStore) Search(ctx context.Context, p store.SearchParams) ([]model.Memory, error) {
	var out []model.Memory
	for _, m := range f.memories {
		if m.User != p.User {
			continue
		}
		if !strings.Contains(strings.ToLower(m.Content), strings.ToLower(p.Query)) {
			continue
		}
		if p.Category != "" && m.Category != p.Category {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) Upload(ctx context.Context, p store.UploadParams) (*model.Image, error) {
	f.uploadCalls++
	img := model.Image{
		ID: f.id(), User: p.User, URL: "/media/" + p.Name,
		Description: p.Description, Tags: p.Tags, Album: p.Album,
	}
	f.images = append(f.images, img)
	return &img, nil
}

func (f *fakeStore) GetImage(ctx context.Context, user, id string) (*model.Image, error) {
	for i := range f.images {
		if f.images[i].ID == id && f.images[i].User == user {
			img := f.images[i]
			return &img, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListImages(ctx context.Context, user string) ([]model.Image, error) {
	var out []model.Image
	for _, img := range f.images {
		if img.User == user {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateImage(ctx context.Context, p store.ImageUpdateParams) error {
	for i := range f.images {
		if f.images[i].ID != p.ID || f.images[i].User != p.User {
			continue
		}
		if p.Description != nil {
			f.images[i].Description = *p.Description
		}
		if p.Tags != nil {
			f.images[i].Tags = *p.Tags
		}
		if p.Album != nil {
			f.images[i].Album = *p.Album
		}
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteImage(ctx context.Context, user, id string) error {
	for i := range f.images {
		if f.images[i].ID == id && f.images[i].User == user {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func newTestEngine(f *fakeStore) *Engine {
	return New(Options{Store: f, Media: f, User: "amy"})
}

// feed runs a sequence of input lines and returns all output.
func feed(e *Engine, lines ...string) []Message {
	var out []Message
	for _, l := range lines {
		out = append(out, e.Handle(context.Background(), l)...)
	}
	return out
}

func containsText(msgs []Message, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m.Text, substr) {
			return true
		}
	}
	return false
}
