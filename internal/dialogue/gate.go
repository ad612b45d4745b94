package dialogue

import (
	"github.com/mid-diary/mid/internal/command"
	"github.com/mid-diary/mid/internal/model"
)

// Decision is the outcome of feeding one input line to an armed gate.
type Decision int

const (
	// DecisionNone means the line was neither yes nor no; the gate stays
	// armed and the line must not be forwarded anywhere else.
	DecisionNone Decision = iota
	DecisionYes
	DecisionNo
)

// Action is the operation held behind the gate until confirmed.
type Action struct {
	Kind    string // "delete" or "edit"
	Command command.Command
	Memory  *model.Memory // edit target
}

// Gate holds at most one pending action awaiting yes/no confirmation.
type Gate struct {
	pending *Action
}

// Armed reports whether a confirmation is outstanding.
func (g *Gate) Armed() bool { return g.pending != nil }

// Request arms the gate with an action and returns the confirmation prompt.
func (g *Gate) Request(a Action, prompt string) []Message {
	g.pending = &a
	return []Message{mother(prompt)}
}

// Resolve consumes one input line. Yes and no clear the gate and return the
// held action; anything else keeps it armed.
func (g *Gate) Resolve(lower string) (Decision, *Action) {
	if g.pending == nil {
		return DecisionNone, nil
	}
	switch lower {
	case "yes", "y":
		a := g.pending
		g.pending = nil
		return DecisionYes, a
	case "no", "n":
		a := g.pending
		g.pending = nil
		return DecisionNo, a
	default:
		return DecisionNone, nil
	}
}
