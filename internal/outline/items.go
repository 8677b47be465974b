package outline

import (
	"fmt"

	"github.com/chriserin/specoutline/internal/parser"
)

// Collapsible mirrors the expansion state of an outline row.
type Collapsible string

const (
	CollapsibleNone     Collapsible = "none"
	CollapsibleExpanded Collapsible = "expanded"
)

// IconSkipped replaces the kind icon on skipped nodes.
const IconSkipped = "debug-stackframe-unfocused"

// TreeItem is the presentation of one node in an outline view.
type TreeItem struct {
	Label        string      `json:"label"`
	Kind         parser.Kind `json:"kind"`
	Line         int         `json:"line"`
	FilePath     string      `json:"filePath"`
	Collapsible  Collapsible `json:"collapsibleState"`
	Tooltip      string      `json:"tooltip"`
	Icon         string      `json:"icon"`
	Description  string      `json:"description,omitempty"`
	ContextValue string      `json:"contextValue"`
	Children     []TreeItem  `json:"children"`
}

// Icon returns the codicon name shown for a kind.
func Icon(k parser.Kind) string {
	switch k {
	case parser.KindDescribe, parser.KindXDescribe:
		return "file-directory"
	case parser.KindContext, parser.KindXContext:
		return "folder"
	case parser.KindIt, parser.KindXIt:
		return "check"
	case parser.KindBefore:
		return "arrow-up"
	case parser.KindAfter:
		return "arrow-down"
	case parser.KindLet:
		return "variable"
	default:
		return "symbol-misc"
	}
}

// Item converts one node and its subtree.
func Item(n *parser.Node) TreeItem {
	item := TreeItem{
		Label:        n.Name,
		Kind:         n.Kind,
		Line:         n.Line,
		FilePath:     n.FilePath,
		Collapsible:  CollapsibleNone,
		Tooltip:      fmt.Sprintf("%s at line %d", n.Kind, n.Line),
		Icon:         Icon(n.Kind),
		ContextValue: string(n.Kind),
		Children:     Items(n.Children),
	}
	if len(n.Children) > 0 {
		item.Collapsible = CollapsibleExpanded
	}
	if n.IsSkipped {
		item.Description = "(skipped)"
		item.Icon = IconSkipped
		item.ContextValue += "_skipped"
	}
	return item
}

// Items converts a forest. The result is never nil.
func Items(nodes []*parser.Node) []TreeItem {
	items := make([]TreeItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, Item(n))
	}
	return items
}
