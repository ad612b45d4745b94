package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/mid-diary/mid/internal/model"
)

// Search finds memories whose content or description contains the query
// substring, case-insensitively, combinable with the usual filters.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Memory, error) {
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

	pattern := "%" + p.Query + "%"
	where = append(where, `(content LIKE ? OR json_extract(payload, '$.description') LIKE ?)`)
	args = append(args, pattern, pattern)

	query := fmt.Sprintf(
		`SELECT `+memoryCols+` FROM memories WHERE %s ORDER BY created_at DESC LIMIT ?`,
		strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryMemories(ctx, query, args...)
}
