package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Journal appends memory payloads that failed to persist to an append-only
// JSON-lines file so nothing typed into the diary is lost.
type Journal struct {
	path string
}

// NewJournal returns a journal writing to path. The parent directory is
// created on first append.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// JournalEntry is one journaled payload with the error that caused it.
type JournalEntry struct {
	At      time.Time   `json:"at"`
	User    string      `json:"user"`
	Reason  string      `json:"reason"`
	Payload interface{} `json:"payload"`
}

// Append writes one entry. Failures here are returned but callers
// typically only log them; the journal is itself the fallback.
func (j *Journal) Append(user, reason string, payload interface{}) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	entry := JournalEntry{At: time.Now().UTC(), User: user, Reason: reason, Payload: payload}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Entries reads back all journaled entries. A missing file is an empty
// journal, not an error.
func (j *Journal) Entries() ([]JournalEntry, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var out []JournalEntry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e JournalEntry
		if err := dec.Decode(&e); err != nil {
			return out, fmt.Errorf("decode journal entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
