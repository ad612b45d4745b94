package dialogue

import (
	"github.com/mid-diary/mid/internal/model"
)

// draft accumulates the fields of a memory under construction. Only the
// fields relevant to the session's type are used.
type draft struct {
	Title       string
	Columns     []string
	Rows        [][]string
	Items       []string
	Events      []model.Event
	Tags        []string
	Category    string
	Description string
	Album       string
	FileName    string
	FileData    []byte
}

type stepOutcome int

const (
	stay stepOutcome = iota
	advance
	abort
)

// builderStep is one entry in a builder's step table. The engine supplies
// the shared control flow (cancel, skip, done); apply holds only the
// type-specific validation and accumulation.
type builderStep struct {
	name      string
	skippable bool
	multi     bool                // repeated until "done"
	needOne   string              // rejection when "done" arrives with nothing accumulated
	count     func(d *draft) int  // accumulated element count for multi steps
	enter     func(d *draft) []Message
	apply     func(b *BuilderSession, trimmed, lower string) ([]Message, stepOutcome)
}

// BuilderSession is one in-progress multi-turn creation flow.
type BuilderSession struct {
	kind      string // model type constant
	label     string
	cancelMsg string
	steps     []builderStep
	idx       int
	d         draft
}

// Start returns the opening prompt for the first step.
func (b *BuilderSession) Start() []Message {
	return b.steps[b.idx].enter(&b.d)
}

// Kind returns the memory type this session builds.
func (b *BuilderSession) Kind() string { return b.kind }

// Label is the display name for the type, also the default title.
func (b *BuilderSession) Label() string { return b.label }

// Draft exposes the accumulated fields; the caller persists them once the
// session reports completion.
func (b *BuilderSession) Draft() draft { return b.d }

// AwaitingFile reports whether the session is blocked on an out-of-band
// file selection rather than a typed line.
func (b *BuilderSession) AwaitingFile() bool {
	return b.steps[b.idx].name == "select"
}

// SelectFile resolves the image selection step. Ignored on any other step.
func (b *BuilderSession) SelectFile(name string, data []byte) []Message {
	if !b.AwaitingFile() {
		return nil
	}
	b.d.FileName = name
	b.d.FileData = data
	msgs := []Message{motherf("Image selected: %s", name)}

	// An inline description (save picture description: "...") skips the
	// per-field questions and goes straight to confirmation.
	if b.d.Description != "" {
		b.idx = len(b.steps) - 1
	} else {
		b.idx++
	}
	return append(msgs, b.steps[b.idx].enter(&b.d)...)
}

// Step feeds one input line to the session. completed means the draft is
// ready to persist; cancelled means the session was aborted. Either way the
// caller drops the session.
func (b *BuilderSession) Step(line string) (msgs []Message, completed, cancelled bool) {
	trimmed := trim(line)
	lower := lowerTrim(line)

	if lower == "cancel" || lower == "exit" {
		return []Message{mother(b.cancelMsg)}, false, true
	}

	step := b.steps[b.idx]

	if step.skippable && lower == "skip" {
		return b.advanceStep(nil)
	}
	if step.multi && lower == "done" {
		if step.count(&b.d) == 0 {
			return []Message{system(step.needOne)}, false, false
		}
		return b.advanceStep(nil)
	}

	out, outcome := step.apply(b, trimmed, lower)
	switch outcome {
	case advance:
		return b.advanceStep(out)
	case abort:
		return out, false, true
	default:
		return out, false, false
	}
}

func (b *BuilderSession) advanceStep(msgs []Message) ([]Message, bool, bool) {
	b.idx++
	if b.idx >= len(b.steps) {
		return msgs, true, false
	}
	return append(msgs, b.steps[b.idx].enter(&b.d)...), false, false
}
