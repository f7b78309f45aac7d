package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Match is one discovered top-level declaration whose name equals a query.
// StartLine/StartOffset include leading doc comments and attributes that sit
// directly above the declaration with no blank line in between. Lines are
// 1-indexed; offsets are byte offsets into the source.
type Match struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// namedItemKinds maps tree-sitter node kinds of named top-level Rust items
// to the kind string reported on a Match. Items without a declared name
// (impl blocks, use declarations) are not extraction targets.
var namedItemKinds = map[string]string{
	"function_item":    "function",
	"struct_item":      "struct",
	"enum_item":        "enum",
	"union_item":       "union",
	"trait_item":       "trait",
	"type_item":        "type",
	"mod_item":         "module",
	"const_item":       "const",
	"static_item":      "static",
	"macro_definition": "macro",
}

// leadingTriviaKinds are node kinds that extend a declaration upward when
// contiguous with it: doc comments and attributes.
var leadingTriviaKinds = map[string]bool{
	"line_comment":   true,
	"block_comment":  true,
	"attribute_item": true,
}

// Index parses Rust source outlines and answers where a named top-level item
// begins and ends. Body boundaries come from the parse tree, so nested
// blocks can never truncate a match. Outlines are cached by content hash.
type Index struct {
	language *sitter.Language
	cache    *outlineCache
}

// NewIndex creates a symbol index for Rust sources.
func NewIndex() *Index {
	return &Index{
		language: sitter.NewLanguage(rust.Language()),
		cache:    newOutlineCache(),
	}
}

// FindDeclaration returns every top-level declaration named symbolName, in
// source order. Nested and local symbols are never candidates. An empty
// result means the symbol is absent; that is a normal outcome, not an error.
func (ix *Index) FindDeclaration(source []byte, symbolName string) []Match {
	if symbolName == "" {
		return nil
	}

	var matches []Match
	for _, m := range ix.Outline(source) {
		if m.Name == symbolName {
			matches = append(matches, m)
		}
	}
	return matches
}

// Outline returns every named top-level declaration in source order.
func (ix *Index) Outline(source []byte) []Match {
	key := contentKey(source)
	if cached, ok := ix.cache.get(key); ok {
		return cached
	}

	outline := ix.parseOutline(source)
	ix.cache.set(key, outline)
	return outline
}

func (ix *Index) parseOutline(source []byte) []Match {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(ix.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()

	var items []Match
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))

		kind, ok := namedItemKinds[child.Kind()]
		if !ok {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}

		first := leadingTriviaStart(child)
		items = append(items, Match{
			Name:        string(source[nameNode.StartByte():nameNode.EndByte()]),
			Kind:        kind,
			StartLine:   int(first.StartPosition().Row) + 1,
			EndLine:     int(child.EndPosition().Row) + 1,
			StartOffset: int(first.StartByte()),
			EndOffset:   int(child.EndByte()),
		})
	}
	return items
}

// leadingTriviaStart walks backward over attributes and doc comments that
// are contiguous with the declaration. A blank line breaks inclusion.
func leadingTriviaStart(node *sitter.Node) *sitter.Node {
	first := node
	prev := node.PrevSibling()
	for prev != nil && leadingTriviaKinds[prev.Kind()] {
		gap := int(first.StartPosition().Row) - int(prev.EndPosition().Row)
		if gap > 1 {
			break
		}
		first = prev
		prev = prev.PrevSibling()
	}
	return first
}
