package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/specoutline/internal/parser"
)

var (
	newStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle = lipgloss.NewStyle().Faint(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	groupStyle   = lipgloss.NewStyle().Bold(true)
	exampleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hookStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	letStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Faint(true)
	lineStyle    = lipgloss.NewStyle().Faint(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, errStyle.Render("del")+"  "+path)
}

func ErrLine(w io.Writer, path, msg string) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+": "+msg)
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

// Glyph is the single-character marker drawn before a node.
func Glyph(k parser.Kind) string {
	switch {
	case k.Skipped():
		return "○"
	case k.Group():
		return "▸"
	case k.Example():
		return "✓"
	case k == parser.KindBefore, k == parser.KindPrependBefore:
		return "↑"
	case k == parser.KindAfter, k == parser.KindAppendAfter:
		return "↓"
	case k == parser.KindAround:
		return "↕"
	case k == parser.KindLet:
		return "="
	default:
		return "·"
	}
}

// KindStyle returns the style used for a node label.
func KindStyle(k parser.Kind) lipgloss.Style {
	switch {
	case k.Skipped():
		return skippedStyle
	case k.Group():
		return groupStyle
	case k.Example():
		return exampleStyle
	case k.Hook():
		return hookStyle
	case k == parser.KindLet:
		return letStyle
	default:
		return lipgloss.NewStyle()
	}
}

// NodeLabel renders one node without indentation.
func NodeLabel(n *parser.Node) string {
	label := Glyph(n.Kind) + " " + string(n.Kind)
	if !n.Kind.Hook() {
		label += " " + n.Name
	}
	label = KindStyle(n.Kind).Render(label)
	if n.IsSkipped {
		label += " " + skippedStyle.Render("(skipped)")
	}
	return label + "  " + lineStyle.Render(fmt.Sprintf(":%d", n.Line))
}

// TreeLines renders a forest as indented lines, two spaces per level.
func TreeLines(roots []*parser.Node) []string {
	var lines []string
	parser.Walk(roots, func(n *parser.Node, depth int) bool {
		lines = append(lines, strings.Repeat("  ", depth)+NodeLabel(n))
		return true
	})
	return lines
}

// Tree writes TreeLines to w.
func Tree(w io.Writer, roots []*parser.Node) {
	for _, line := range TreeLines(roots) {
		fmt.Fprintln(w, line)
	}
}

// NodeRow prints one indexed node as "path:line  kind  name".
func NodeRow(w io.Writer, path string, line int, kind parser.Kind, name string, kindWidth int) {
	loc := fmt.Sprintf("%s:%d", path, line)
	fmt.Fprintf(w, "%s  %s  %s\n", loc, KindStyle(kind).Render(fmt.Sprintf("%-*s", kindWidth, kind)), name)
}
