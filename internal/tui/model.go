package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mid-diary/mid/internal/dialogue"
)

// Model is the Bubble Tea model for the diary terminal.
type Model struct {
	engine *dialogue.Engine
	ctx    context.Context
	styles Styles

	viewport viewport.Model
	input    textinput.Model
	picker   filepicker.Model

	picking bool
	lines   []string
	width   int
	height  int
	ready   bool
	err     error
}

// New builds the terminal model around a dialogue engine.
func New(engine *dialogue.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a command, or 'help'"
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	fp.CurrentDirectory, _ = os.UserHomeDir()

	m := Model{
		engine: engine,
		ctx:    context.Background(),
		styles: DefaultStyles(),
		input:  ti,
		picker: fp,
	}
	m.appendMessages(engine.Welcome())
	return m
}

// Run starts the terminal program and blocks until it exits.
func Run(engine *dialogue.Engine) error {
	p := tea.NewProgram(New(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		inCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		const chromeHeight = 4
		vpHeight := msg.Height - chromeHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.picker.Height = vpHeight
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.picking {
				// Abandoning the picker cancels the image flow.
				m.picking = false
				m.appendMessages(m.engine.Handle(m.ctx, "cancel"))
				m.refresh()
				return m, nil
			}
			return m, tea.Quit
		}

		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			if ok, path := m.picker.DidSelectFile(msg); ok {
				m.picking = false
				m.selectFile(path)
				m.refresh()
			}
			return m, cmd
		}

		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		m.input, inCmd = m.input.Update(msg)

	default:
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(inCmd, vpCmd)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.Reset()

	m.lines = append(m.lines, m.styles.User.Render("> "+line))
	msgs := m.engine.Handle(m.ctx, line)
	m.appendMessages(msgs)

	if isListing(msgs) {
		for _, mem := range m.engine.Retrieved() {
			m.lines = append(m.lines, m.renderMemory(mem))
		}
	}
	m.refresh()

	if m.engine.AwaitingFile() {
		m.picking = true
		return m, m.picker.Init()
	}
	return m, nil
}

// selectFile reads the picked file and hands it to the image flow.
func (m *Model) selectFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.err = err
		m.lines = append(m.lines, m.styles.Error.Render("Could not read file: "+err.Error()))
		m.appendMessages(m.engine.Handle(m.ctx, "cancel"))
		return
	}
	m.appendMessages(m.engine.SelectFile(filepath.Base(path), data))
}

func (m *Model) appendMessages(msgs []dialogue.Message) {
	for _, msg := range msgs {
		switch msg.Kind {
		case dialogue.KindClear:
			m.lines = nil
		case dialogue.KindMother:
			m.lines = append(m.lines, m.styles.Mother.Render(msg.Speaker()+": ")+msg.Text)
		default:
			m.lines = append(m.lines, m.styles.System.Render(msg.Text))
		}
	}
}

// isListing reports whether a reply introduces retrieved memories, which the
// transcript follows with rendered cards.
func isListing(msgs []dialogue.Message) bool {
	for _, msg := range msgs {
		if msg.Kind != dialogue.KindMother {
			continue
		}
		if strings.HasPrefix(msg.Text, "Retrieved ") || strings.HasPrefix(msg.Text, "Found ") {
			return true
		}
	}
	return false
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	content := strings.Join(m.lines, "\n")
	if m.width > 0 {
		content = wordwrap.String(content, m.width)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.picking {
		return m.styles.Title.Render("Select an image") + "\n" +
			m.picker.View() + "\n" +
			m.styles.Help.Render("enter: select · esc: cancel")
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Input.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: send · ctrl+c: quit"))
	return b.String()
}
