package outline

import (
	"unicode/utf16"

	"go.lsp.dev/protocol"

	"github.com/chriserin/specoutline/internal/parser"
)

// SymbolKind maps a node kind onto the editor's symbol vocabulary.
func SymbolKind(k parser.Kind) protocol.SymbolKind {
	switch k {
	case parser.KindDescribe, parser.KindXDescribe:
		return protocol.SymbolKindModule
	case parser.KindContext, parser.KindXContext:
		return protocol.SymbolKindNamespace
	case parser.KindIt, parser.KindXIt:
		return protocol.SymbolKindMethod
	case parser.KindBefore, parser.KindAfter:
		return protocol.SymbolKindFunction
	case parser.KindLet:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindObject
	}
}

// DocumentSymbols converts a forest into nested document symbols. Each
// symbol spans its keyword line from column 0 to the length of its name,
// counted in UTF-16 code units.
func DocumentSymbols(nodes []*parser.Node) []protocol.DocumentSymbol {
	symbols := make([]protocol.DocumentSymbol, 0, len(nodes))
	for _, n := range nodes {
		line := uint32(0)
		if n.Line > 0 {
			line = uint32(n.Line - 1)
		}
		rng := protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line, Character: uint32(len(utf16.Encode([]rune(n.Name))))},
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           n.Name,
			Detail:         string(n.Kind),
			Kind:           SymbolKind(n.Kind),
			Range:          rng,
			SelectionRange: rng,
			Children:       DocumentSymbols(n.Children),
		})
	}
	return symbols
}
