package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historySize = 20

type entry struct {
	input  string
	output string
	failed bool
}

type interactiveModel struct {
	b       *bridge.Bridge
	runner  *scenario.Runner
	input   textinput.Model
	history []entry
	showOps bool
}

func newInteractiveModel(b *bridge.Bridge, log *zap.Logger) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "c1 = create_clip C1, [0, 48, 24]"
	ti.Prompt = "otio> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{
		b:      b,
		runner: scenario.NewRunner(b, scenario.Config{Logger: log}),
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.showOps = !m.showOps
			return m, nil

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			if line != "" {
				m.record(m.exec(line))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) record(e entry) {
	m.history = append(m.history, e)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m *interactiveModel) exec(line string) entry {
	e := entry{input: line}
	st, err := scenario.ParseStep(line)
	if err != nil {
		e.output, e.failed = err.Error(), true
		return e
	}
	res := m.runner.Exec(st)
	switch {
	case res.Err != nil:
		e.output, e.failed = res.Err.Error(), true
	case st.Bind != "":
		e.output = fmt.Sprintf("$%s = %s", st.Bind, res.Rendered())
	case res.Value != nil:
		e.output = res.Rendered()
	default:
		e.output = "ok"
	}
	return e
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("OTIO Bridge"))
	b.WriteString(fmt.Sprintf(" %d live handle(s)\n\n", m.b.Len()))

	for _, e := range m.history {
		b.WriteString(opStyle.Render("> " + e.input))
		b.WriteString("\n  ")
		if e.failed {
			b.WriteString(errorStyle.Render(e.output))
		} else {
			b.WriteString(resultStyle.Render(e.output))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if handles := m.runner.Handles(); len(handles) > 0 {
		names := make([]string, 0, len(handles))
		for name := range handles {
			names = append(names, name)
		}
		sort.Strings(names)
		var parts []string
		for _, name := range names {
			h := handles[name]
			parts = append(parts, fmt.Sprintf("$%s=%d(%s)", name, h, m.b.State(h)))
		}
		b.WriteString(handleStyle.Render(strings.Join(parts, "  ")))
		b.WriteString("\n\n")
	}

	if m.showOps {
		b.WriteString(helpStyle.Render(strings.Join(scenario.Ops(), " ")))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("enter run • tab ops • esc quit"))
	return b.String()
}

func runInteractive(b *bridge.Bridge, log *zap.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(b, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
