// Package tui implements the interactive diary terminal. A viewport holds
// the conversation transcript, a single-line input takes commands, and a
// file picker opens when an image flow needs a file.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorMother = lipgloss.Color("212")
	colorUser   = lipgloss.Color("86")
	colorMuted  = lipgloss.Color("241")
	colorError  = lipgloss.Color("196")
	colorBorder = lipgloss.Color("238")
)

// Styles holds the lipgloss styles used by the transcript and chrome.
type Styles struct {
	Title   lipgloss.Style
	Mother  lipgloss.Style
	User    lipgloss.Style
	System  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Card    lipgloss.Style
	Input   lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the standard diary look.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colorMother),
		Mother: lipgloss.NewStyle().Bold(true).Foreground(colorMother),
		User:   lipgloss.NewStyle().Foreground(colorUser),
		System: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(colorMuted),
		Error:  lipgloss.NewStyle().Foreground(colorError),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorBorder),
		Help: lipgloss.NewStyle().Foreground(colorMuted),
	}
}
