// Package dialogue implements the conversational diary engine: a command
// dispatcher, multi-turn builders and editors for structured memories, and
// a yes/no confirmation gate for destructive actions. One Engine serves one
// user; input lines are handled strictly one at a time.
package dialogue

import (
	"fmt"
	"strings"
)

// MessageKind distinguishes how a reply line is rendered.
type MessageKind int

const (
	// KindMother is the diary's voice, shown with the "Mother" speaker.
	KindMother MessageKind = iota
	// KindSystem is an unattributed terminal line (prompts, listings).
	KindSystem
	// KindClear instructs the caller to wipe the transcript.
	KindClear
)

// Message is one line of engine output.
type Message struct {
	Kind MessageKind
	Text string
}

// Speaker returns the display name for attributed messages.
func (m Message) Speaker() string {
	if m.Kind == KindMother {
		return "Mother"
	}
	return ""
}

func mother(text string) Message { return Message{Kind: KindMother, Text: text} }
func system(text string) Message { return Message{Kind: KindSystem, Text: text} }

func motherf(format string, args ...interface{}) Message {
	return mother(fmt.Sprintf(format, args...))
}

func systemf(format string, args ...interface{}) Message {
	return system(fmt.Sprintf(format, args...))
}

func trim(s string) string      { return strings.TrimSpace(s) }
func lowerTrim(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
