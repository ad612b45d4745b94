package store

import (
	"context"
	"os"
	"sort"
)

// NameCount pairs a tag or category name with how many memories carry it.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats holds database statistics.
type Stats struct {
	DBPath        string         `json:"db_path"`
	DBSizeBytes   int64          `json:"db_size_bytes"`
	TotalMemories int            `json:"total_memories"`
	TotalImages   int            `json:"total_images"`
	ByType        map[string]int `json:"by_type"`
	Categories    []NameCount    `json:"categories,omitempty"`
	Tags          []NameCount    `json:"tags,omitempty"`
}

// Stats returns database statistics for one user.
func (s *SQLiteStore) Stats(ctx context.Context, user string) (*Stats, error) {
	st := &Stats{DBPath: s.path, ByType: map[string]int{}}

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE owner = ?`, user).Scan(&st.TotalMemories)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM images WHERE owner = ?`, user).Scan(&st.TotalImages)

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM memories WHERE owner = ? GROUP BY type`, user)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		rows.Scan(&typ, &n)
		st.ByType[typ] = n
	}

	st.Categories, err = s.Categories(ctx, user)
	if err != nil {
		return st, err
	}
	st.Tags, err = s.Tags(ctx, user)
	return st, err
}

// Categories aggregates category usage counts for one user.
func (s *SQLiteStore) Categories(ctx context.Context, user string) ([]NameCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM memories
		 WHERE owner = ? AND category IS NOT NULL AND category != ''
		 GROUP BY category ORDER BY COUNT(*) DESC, category`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		rows.Scan(&nc.Name, &nc.Count)
		out = append(out, nc)
	}
	return out, rows.Err()
}

// Tags aggregates tag usage counts for one user. Tags live inside a JSON
// array column, so the counting happens here rather than in SQL.
func (s *SQLiteStore) Tags(ctx context.Context, user string) ([]NameCount, error) {
	memories, err := s.List(ctx, ListParams{User: user, Limit: 100000})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, m := range memories {
		for _, t := range m.Tags {
			counts[t]++
		}
	}

	out := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
