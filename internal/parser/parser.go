package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nodePattern = buildNodePattern()

	quotedName = regexp.MustCompile(`^["']([^"']+)["']`)
	bareName   = regexp.MustCompile(`^:?(\w+)`)
	parenName  = regexp.MustCompile(`^\(([^)]+)\)`)
	indent     = regexp.MustCompile(`^\s*`)

	braces = strings.NewReplacer("{", "", "}", "", "(", "", ")", "")
)

// buildNodePattern matches a keyword line, with an optional Rspec./RSpec.
// receiver, and captures the keyword and everything after it.
func buildNodePattern() *regexp.Regexp {
	alts := make([]string, len(ValidKinds))
	for i, k := range ValidKinds {
		alts[i] = regexp.QuoteMeta(string(k))
	}
	return regexp.MustCompile(`(?i)^\s*(?:R[sS]pec\.)?(` + strings.Join(alts, "|") + `)\s+(.+)`)
}

// Parse scans a spec file and returns its forest of root nodes. It never
// panics; any failure during the scan is returned as Result.Err and no
// nodes are kept.
func Parse(filename string, content []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: &ParseError{Message: panicMessage(r)}}
		}
	}()

	lines := strings.Split(string(content), "\n")
	roots := []*Node{}
	var stack []*Node

	for i, line := range lines {
		m := nodePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		kind := Kind(strings.ToLower(m[1]))
		if !kind.Valid() {
			continue
		}

		node := &Node{
			Kind:      kind,
			Name:      extractName(m[2], kind),
			Line:      i + 1,
			FilePath:  filename,
			Children:  []*Node{},
			IsSkipped: kind.Skipped(),
			indent:    indentation(line),
		}

		// Pop until the top of the stack is indented less than this line.
		var parent *Node
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.indent < node.indent {
				parent = top
				break
			}
			stack = stack[:len(stack)-1]
		}

		if parent != nil {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
		stack = append(stack, node)
	}

	return Result{Nodes: roots}
}

func extractName(rest string, kind Kind) string {
	if kind.Hook() {
		return string(kind)
	}

	for _, re := range []*regexp.Regexp{quotedName, bareName, parenName} {
		if m := re.FindStringSubmatch(rest); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimSpace(braces.Replace(fields[0]))
}

// indentation counts leading whitespace characters. Tabs count as one.
func indentation(line string) int {
	return len(indent.FindString(line))
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		if msg := v.Error(); msg != "" {
			return msg
		}
	case string:
		if v != "" {
			return v
		}
	case fmt.Stringer:
		if msg := v.String(); msg != "" {
			return msg
		}
	}
	return "unknown parsing error"
}
