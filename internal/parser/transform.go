package parser

import (
	"strings"
)

// Row is a node placed in a flattened, pre-order view of a forest.
type Row struct {
	Node      *Node
	Depth     int
	Path      []int    // child indexes from the root, Path[0] is the root index
	Parent    int      // index of the parent row, -1 for roots
	Ancestors []string // names from the root down to the parent
}

// FullName joins the ancestor names with the node's own name, the way a
// test runner describes an example.
func (r Row) FullName() string {
	parts := make([]string, 0, len(r.Ancestors)+1)
	for _, a := range r.Ancestors {
		if a != "" {
			parts = append(parts, a)
		}
	}
	if r.Node.Name != "" {
		parts = append(parts, r.Node.Name)
	}
	return strings.Join(parts, " ")
}

// Flatten converts a forest into rows in source order.
func Flatten(roots []*Node) []Row {
	var rows []Row
	var visit func(nodes []*Node, parent int, path []int, ancestors []string)
	visit = func(nodes []*Node, parent int, path []int, ancestors []string) {
		for i, n := range nodes {
			p := append(append([]int(nil), path...), i)
			rows = append(rows, Row{
				Node:      n,
				Depth:     len(path),
				Path:      p,
				Parent:    parent,
				Ancestors: ancestors,
			})
			if len(n.Children) > 0 {
				next := append(append([]string(nil), ancestors...), n.Name)
				visit(n.Children, len(rows)-1, p, next)
			}
		}
	}
	visit(roots, -1, nil, nil)
	return rows
}

// Walk visits nodes depth-first in source order. Returning false from fn
// skips the node's children.
func Walk(roots []*Node, fn func(n *Node, depth int) bool) {
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(roots, 0)
}

// Count totals the nodes of each kind in a forest.
func Count(roots []*Node) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(roots, func(n *Node, _ int) bool {
		counts[n.Kind]++
		return true
	})
	return counts
}
