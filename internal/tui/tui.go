package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/specoutline/internal/parser"
	"github.com/chriserin/specoutline/internal/ui"
)

// Options configure the browser.
type Options struct {
	Path string
	// ReadFile loads the file on start and on every reload. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Run launches the outline browser for one spec file.
func Run(ctx context.Context, opts Options) error {
	program := tea.NewProgram(newModel(opts), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

type loadedMsg struct {
	roots []*parser.Node
	err   string
}

type model struct {
	path     string
	readFile func(string) ([]byte, error)

	roots     []*parser.Node
	err       string
	collapsed map[string]bool // keyed by foldKey
	rows      []parser.Row
	cursor    int

	viewport viewport.Model
}

func newModel(opts Options) model {
	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	return model{
		path:      opts.Path,
		readFile:  readFile,
		collapsed: make(map[string]bool),
		viewport:  viewport.New(80, 20),
	}
}

func (m model) load() tea.Msg {
	content, err := m.readFile(m.path)
	if err != nil {
		return loadedMsg{err: fmt.Sprintf("reading %s: %v", m.path, err)}
	}
	res := parser.Parse(m.path, content)
	if !res.OK() {
		return loadedMsg{err: "Failed to parse RSpec file: " + res.Err.Message}
	}
	return loadedMsg{roots: res.Nodes}
}

func (m model) Init() tea.Cmd {
	return m.load
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.roots, m.err = msg.roots, msg.err
		m.rebuild()

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.rebuild()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.cursor++
		case "k", "up":
			m.cursor--
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = len(m.rows) - 1
		case "enter", " ":
			m.toggle()
		case "r":
			return m, m.load
		}
		m.rebuild()
	}
	return m, nil
}

func (m *model) toggle() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	if len(r.Node.Children) == 0 {
		return
	}
	key := foldKey(r)
	m.collapsed[key] = !m.collapsed[key]
}

// foldKey identifies a row by the names on its path and its kind, so a
// fold survives reloads that move lines. Siblings with the same kind and
// name share one fold.
func foldKey(r parser.Row) string {
	parts := append(append([]string(nil), r.Ancestors...), string(r.Node.Kind), r.Node.Name)
	return strings.Join(parts, "\x00")
}

// rebuild recomputes visible rows, clamps the cursor and redraws the
// viewport content around it.
func (m *model) rebuild() {
	m.rows = nil
	hideBelow := -1
	for _, r := range parser.Flatten(m.roots) {
		if hideBelow >= 0 {
			if r.Depth > hideBelow {
				continue
			}
			hideBelow = -1
		}
		m.rows = append(m.rows, r)
		if len(r.Node.Children) > 0 && m.collapsed[foldKey(r)] {
			hideBelow = r.Depth
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		fold := "  "
		if len(r.Node.Children) > 0 {
			fold = "▾ "
			if m.collapsed[foldKey(r)] {
				fold = "▸ "
			}
		}
		line := strings.Repeat("  ", r.Depth) + fold + ui.NodeLabel(r.Node)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 && m.err == "" {
		lines = append(lines, footerStyle.Render("no spec blocks found"))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if h := m.viewport.Height; h > 0 && m.cursor >= m.viewport.YOffset+h {
		m.viewport.SetYOffset(m.cursor - h + 1)
	}
}

func (m model) View() string {
	counts := parser.Count(m.roots)
	examples := counts[parser.KindIt] + counts[parser.KindXIt]
	header := headerStyle.Render(m.path) + fmt.Sprintf("  %d examples", examples)
	if m.err != "" {
		header += "  " + errorStyle.Render(m.err)
	}
	footer := footerStyle.Render("j/k move · enter fold · r reload · q quit")
	return header + "\n" + m.viewport.View() + "\n" + footer
}
