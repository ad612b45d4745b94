package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mid-diary/mid/internal/model"
)

// Upload writes the image bytes under the media directory and records the
// metadata. The returned Image carries the store-assigned id and the file
// url the terminal displays.
func (s *SQLiteStore) Upload(ctx context.Context, p UploadParams) (*model.Image, error) {
	if len(p.Data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	id := s.newID()
	ext := strings.ToLower(filepath.Ext(p.Name))
	if ext == "" {
		ext = ".img"
	}
	path := filepath.Join(s.mediaDir, id+ext)
	if err := os.WriteFile(path, p.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write image file: %w", err)
	}

	now := time.Now().UTC()
	var tagsJSON *string
	if len(p.Tags) > 0 {
		b, _ := json.Marshal(p.Tags)
		v := string(b)
		tagsJSON = &v
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO images (id, owner, url, description, tags, album, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.User, path, p.Description, tagsJSON, p.Album,
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("insert image: %w", err)
	}

	return &model.Image{
		ID:          id,
		User:        p.User,
		URL:         path,
		Description: p.Description,
		Tags:        p.Tags,
		Album:       p.Album,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetImage(ctx context.Context, user, id string) (*model.Image, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner, url, description, tags, album, created_at, updated_at
		 FROM images WHERE owner = ? AND id = ?`, user, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *SQLiteStore) ListImages(ctx context.Context, user string) ([]model.Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, url, description, tags, album, created_at, updated_at
		 FROM images WHERE owner = ? ORDER BY created_at DESC`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []model.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *SQLiteStore) UpdateImage(ctx context.Context, p ImageUpdateParams) error {
	img, err := s.GetImage(ctx, p.User, p.ID)
	if err != nil {
		return err
	}

	if p.Description != nil {
		img.Description = *p.Description
	}
	if p.Tags != nil {
		img.Tags = *p.Tags
	}
	if p.Album != nil {
		img.Album = *p.Album
	}

	var tagsJSON *string
	if len(img.Tags) > 0 {
		b, _ := json.Marshal(img.Tags)
		v := string(b)
		tagsJSON = &v
	}

	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`UPDATE images SET description = ?, tags = ?, album = ?, updated_at = ?
		 WHERE owner = ? AND id = ?`,
		img.Description, tagsJSON, img.Album, now, p.User, p.ID)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	return nil
}

// DeleteImage removes the metadata row and the stored file. A missing file
// is not an error; the record is authoritative.
func (s *SQLiteStore) DeleteImage(ctx context.Context, user, id string) error {
	img, err := s.GetImage(ctx, user, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM images WHERE owner = ? AND id = ?`, user, id); err != nil {
		return err
	}
	os.Remove(img.URL)
	return nil
}

func scanImage(row scanner) (model.Image, error) {
	var img model.Image
	var description, tagsJSON, album sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&img.ID, &img.User, &img.URL, &description, &tagsJSON,
		&album, &createdAt, &updatedAt)
	if err != nil {
		return img, err
	}

	img.Description = description.String
	img.Album = album.String
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &img.Tags)
	}
	img.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	img.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return img, nil
}
