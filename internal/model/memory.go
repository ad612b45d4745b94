// Package model defines the core diary data types.
package model

import "time"

// Memory types.
const (
	TypeText     = "text"
	TypeTable    = "table"
	TypeList     = "list"
	TypeTimeline = "timeline"
	TypeImage    = "image"
)

// ValidTypes are the allowed memory types.
var ValidTypes = map[string]bool{
	TypeText:     true,
	TypeTable:    true,
	TypeList:     true,
	TypeTimeline: true,
	TypeImage:    true,
}

// Event is a single timeline entry. Time is optional display text
// (e.g. "9:00 AM"); Description is required.
type Event struct {
	Time        string `json:"time,omitempty"`
	Description string `json:"description"`
}

// Display renders an event for terminal output.
func (e Event) Display() string {
	if e.Time != "" {
		return e.Time + " - " + e.Description
	}
	return e.Description
}

// Memory represents one diary entry. Type-specific payload fields are
// populated according to Type and empty otherwise.
type Memory struct {
	ID        string     `json:"id"`
	User      string     `json:"user"`
	Type      string     `json:"type"`
	Content   string     `json:"content,omitempty"`
	Category  string     `json:"category,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Columns   []string   `json:"columns,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Items     []string   `json:"items,omitempty"`
	Events    []Event    `json:"events,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	ImageID   string     `json:"image_id,omitempty"`
	Album     string     `json:"album,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Image represents one stored picture in the media store.
type Image struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Album       string    `json:"album,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Title returns the display heading for a memory. Builders store the title
// in Content; an untitled entry falls back to its type name.
func (m *Memory) Title() string {
	if m.Content != "" {
		return m.Content
	}
	switch m.Type {
	case TypeTable:
		return "Table"
	case TypeList:
		return "List"
	case TypeTimeline:
		return "Timeline"
	case TypeImage:
		return "Image"
	}
	return "Memory"
}

// Structured reports whether editing this memory requires the interactive
// editor rather than a plain content update.
func (m *Memory) Structured() bool {
	switch m.Type {
	case TypeTable, TypeList, TypeTimeline, TypeImage:
		return true
	}
	return false
}
