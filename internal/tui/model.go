package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nkootstra/kvwire/internal/client"
	"github.com/nkootstra/kvwire/internal/protocol"
	"github.com/nkootstra/kvwire/internal/render"
)

const (
	maxOutputLines = 1000
	chromeLines    = 4 // header + input + footer + spacing
)

// Doer sends one command and returns its reply.
type Doer interface {
	Do(ctx context.Context, args ...string) (protocol.Value, error)
}

// Options configures the shell.
type Options struct {
	Addr    string
	Timeout time.Duration
	Styler  render.Styler
	// History holds earlier lines, oldest first, for up/down recall.
	History []string
}

// Model is the root Bubble Tea model for the interactive shell.
type Model struct {
	doer     Doer
	opts     Options
	input    textinput.Model
	output   viewport.Model
	lines    []string
	history  []string
	histPos  int    // len(history) while editing a fresh line
	draft    string // the fresh line, kept while browsing history
	entered  []string
	busy     bool
	ready    bool
	quitting bool
	width    int
	height   int
}

// NewModel creates a shell that sends commands through d.
func NewModel(d Doer, opts Options) Model {
	in := textinput.New()
	in.Prompt = "kvwire> "
	in.Placeholder = "type a command, or help"
	names := make([]string, 0, len(client.Commands)+3)
	for _, c := range client.Commands {
		names = append(names, c.Name)
	}
	names = append(names, "help", "clear", "quit")
	in.SetSuggestions(names)
	in.ShowSuggestions = true
	in.Focus()

	history := append([]string(nil), opts.History...)
	return Model{
		doer:    d,
		opts:    opts,
		input:   in,
		lines:   make([]string, 0, 64),
		history: history,
		histPos: len(history),
	}
}

// Entered returns the lines submitted during this session, oldest first.
func (m Model) Entered() []string {
	return append([]string(nil), m.entered...)
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			return m.submit(line)
		case "up":
			m.recall(-1)
			return m, nil
		case "down":
			m.recall(1)
			return m, nil
		case "pgup", "pgdown":
			if m.ready {
				var cmd tea.Cmd
				m.output, cmd = m.output.Update(msg)
				return m, cmd
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncLayout()
		return m, nil

	case tea.MouseWheelMsg:
		if m.ready {
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
		return m, nil

	case resultMsg:
		m.busy = false
		m.appendResult(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles one entered line: built-ins run locally, everything else
// is sent to the server.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	line = strings.TrimSpace(line)
	m.histPos = len(m.history)
	m.draft = ""
	if line == "" {
		return m, nil
	}
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
		m.entered = append(m.entered, line)
	}
	m.histPos = len(m.history)

	args, err := SplitArgs(line)
	if err != nil {
		m.appendLines(m.echo(line), m.opts.Styler.Failure(err))
		return m, nil
	}
	if len(args) == 0 {
		return m, nil
	}

	switch strings.ToLower(args[0]) {
	case "quit", "exit":
		m.quitting = true
		return m, tea.Quit
	case "clear":
		m.lines = m.lines[:0]
		m.refresh()
		return m, nil
	case "help":
		m.appendLines(append([]string{m.echo(line)}, helpLines(m.opts.Styler)...)...)
		return m, nil
	}

	m.busy = true
	return m, runCommand(m.doer, m.opts.Timeout, line, args)
}

// recall walks the history; dir is -1 for older and 1 for newer.
func (m *Model) recall(dir int) {
	if len(m.history) == 0 {
		return
	}
	if m.histPos == len(m.history) {
		m.draft = m.input.Value()
	}
	pos := m.histPos + dir
	if pos < 0 || pos > len(m.history) {
		return
	}
	m.histPos = pos
	if pos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[pos])
	}
	m.input.CursorEnd()
}

func (m *Model) appendResult(msg resultMsg) {
	out := []string{m.echo(msg.line)}
	if msg.value != nil {
		out = append(out, m.opts.Styler.Text(msg.value))
	}
	if msg.err != nil {
		out = append(out, m.opts.Styler.Failure(msg.err))
	}
	out = append(out, m.opts.Styler.Dim(fmt.Sprintf("(%s)", msg.took.Round(time.Microsecond))))
	m.appendLines(out...)
}

func (m *Model) appendLines(lines ...string) {
	for _, l := range lines {
		m.lines = append(m.lines, strings.Split(l, "\n")...)
	}
	if len(m.lines) > maxOutputLines {
		m.lines = m.lines[len(m.lines)-maxOutputLines:]
	}
	m.refresh()
}

func (m Model) echo(line string) string {
	return m.opts.Styler.Dim(m.input.Prompt) + line
}

func helpLines(s render.Styler) []string {
	lines := make([]string, 0, len(client.Commands)+1)
	for _, c := range client.Commands {
		lines = append(lines, fmt.Sprintf("  %-48s %s", c.Usage, s.Dim(c.Help)))
	}
	lines = append(lines, s.Dim("  help | clear | quit"))
	return lines
}

// syncLayout recalculates viewport dimensions based on terminal size.
func (m *Model) syncLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	const borderV, borderH = 2, 2

	vpWidth := m.width - borderH
	vpHeight := m.height - chromeLines - borderV
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.input.SetWidth(m.width - lipgloss.Width(m.input.Prompt) - 1)

	if !m.ready {
		m.output = viewport.New(
			viewport.WithWidth(vpWidth),
			viewport.WithHeight(vpHeight),
		)
		m.output.MouseWheelEnabled = true
		m.output.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.output.SetWidth(vpWidth)
		m.output.SetHeight(vpHeight)
	}
	m.refresh()
}

// refresh sets the viewport content from the output log.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	content := strings.Join(m.lines, "\n")
	if len(m.lines) == 0 {
		content = dimStyle.Render(" No output yet. Try: set age 12")
	}
	m.output.SetContent(content)
	m.output.GotoBottom()
}

func (m Model) renderHeader() string {
	status := dimStyle.Render("ready")
	if m.busy {
		status = busyStyle.Render("waiting for reply...")
	}
	return fmt.Sprintf(" %s %s  %s", titleStyle.Render("kvwire"), addrStyle.Render(m.opts.Addr), status)
}

func (m Model) renderFooter() string {
	hint := "  enter send | ↑↓ history | tab complete | pgup/pgdn scroll | ctrl+c quit"
	if m.ready && len(m.lines) > 0 {
		hint += fmt.Sprintf(" | %3.0f%%", m.output.ScrollPercent()*100)
	}
	return dimStyle.Render(hint)
}

// View renders the shell.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	body := dimStyle.Render(" Initializing...")
	if m.ready {
		body = outputBorderStyle().Render(m.output.View())
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.input.View(),
		m.renderFooter(),
	)
	if m.height > 0 {
		content = lipgloss.PlaceVertical(m.height, lipgloss.Top, content)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// ViewString returns the output log as a plain string (for testing).
func (m Model) ViewString() string {
	if m.quitting {
		return ""
	}
	return strings.Join(m.lines, "\n")
}
