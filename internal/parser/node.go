package parser

import "encoding/json"

// Kind is the keyword that introduced a node.
type Kind string

const (
	KindDescribe      Kind = "describe"
	KindContext       Kind = "context"
	KindIt            Kind = "it"
	KindAround        Kind = "around"
	KindBefore        Kind = "before"
	KindPrependBefore Kind = "prepend_before"
	KindAfter         Kind = "after"
	KindAppendAfter   Kind = "append_after"
	KindLet           Kind = "let"
	KindXDescribe     Kind = "xdescribe"
	KindXContext      Kind = "xcontext"
	KindXIt           Kind = "xit"
)

// ValidKinds lists every recognized keyword.
var ValidKinds = []Kind{
	KindDescribe,
	KindContext,
	KindIt,
	KindAround,
	KindBefore,
	KindPrependBefore,
	KindAfter,
	KindAppendAfter,
	KindLet,
	KindXDescribe,
	KindXContext,
	KindXIt,
}

// SkippedKinds are the x-prefixed variants excluded from a run.
var SkippedKinds = []Kind{KindXDescribe, KindXContext, KindXIt}

// HookKinds take no name argument; their label is the kind itself.
var HookKinds = []Kind{KindBefore, KindAfter, KindAround, KindPrependBefore, KindAppendAfter}

func (k Kind) in(set []Kind) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}

func (k Kind) Valid() bool   { return k.in(ValidKinds) }
func (k Kind) Skipped() bool { return k.in(SkippedKinds) }
func (k Kind) Hook() bool    { return k.in(HookKinds) }

// Group reports whether k declares a group of examples.
func (k Kind) Group() bool {
	return k == KindDescribe || k == KindContext || k == KindXDescribe || k == KindXContext
}

// Example reports whether k declares a single test.
func (k Kind) Example() bool {
	return k == KindIt || k == KindXIt
}

// Node is one recognized element of a spec file. Ownership runs from
// parent to children only.
type Node struct {
	Kind      Kind    `json:"type"`
	Name      string  `json:"name"`
	Line      int     `json:"line"` // 1-based line number of the keyword
	FilePath  string  `json:"filePath"`
	Children  []*Node `json:"children"`
	IsSkipped bool    `json:"isSkipped"`

	indent int
}

// ParseError is the single failure kind of Parse.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Result is either a forest of root nodes or a failure, never both.
type Result struct {
	Nodes []*Node
	Err   *ParseError
}

// OK reports whether the parse succeeded.
func (r Result) OK() bool { return r.Err == nil }

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Err.Message})
	}
	nodes := r.Nodes
	if nodes == nil {
		nodes = []*Node{}
	}
	return json.Marshal(struct {
		Success bool    `json:"success"`
		Data    []*Node `json:"data"`
	}{true, nodes})
}
