package csharp

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// nodeText returns the source text covered by node
func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()

	if start > uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}

	return string(content[start:end])
}

// nodeLocation converts tree-sitter's 0-based position to a 1-based location
func nodeLocation(node *sitter.Node, path string) symbols.Location {
	if node == nil {
		return symbols.Location{Path: path}
	}
	pos := node.StartPosition()
	return symbols.Location{
		Path:   path,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}

// findChild returns the first child of the given kind
func findChild(node *sitter.Node, kinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}

	return nil
}

// findChildren returns every child of the given kind
func findChildren(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}

	var children []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			children = append(children, child)
		}
	}

	return children
}

// nameNode returns the declared name of a declaration: the "name" field
// when the grammar provides one, else the first identifier child.
func nameNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if n := node.ChildByFieldName("name"); n != nil {
		return n
	}
	return findChild(node, "identifier")
}

// typeKinds are the node kinds that spell a type
var typeKinds = map[string]bool{
	"predefined_type":       true,
	"identifier":            true,
	"qualified_name":        true,
	"generic_name":          true,
	"alias_qualified_name":  true,
	"nullable_type":         true,
	"array_type":            true,
	"pointer_type":          true,
	"tuple_type":            true,
	"function_pointer_type": true,
	"ref_type":              true,
	"scoped_type":           true,
	"implicit_type":         true,
}

func isTypeNode(node *sitter.Node) bool {
	return node != nil && typeKinds[node.Kind()]
}

// typeNode finds the declared type of a member, parameter or variable
// declaration. The grammar labels it "type" or "returns" depending on the
// declaration; otherwise the first type-shaped child before the name wins.
func typeNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	for _, field := range []string{"type", "returns"} {
		if t := node.ChildByFieldName(field); t != nil {
			return t
		}
	}
	name := node.ChildByFieldName("name")
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if name != nil && child.StartByte() >= name.StartByte() {
			break
		}
		if isTypeNode(child) {
			return child
		}
	}
	return nil
}

// typeText normalizes the spelling of a type: whitespace is collapsed and
// commas are followed by a single space, so "Dictionary<string,int>" and
// "Dictionary< string, int >" read the same.
func typeText(node *sitter.Node, content []byte) string {
	return normalizeType(nodeText(node, content))
}

func normalizeType(s string) string {
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, ",", ", ")
	return s
}

// walkNodes visits node and its descendants depth-first. Returning false
// from visit skips the node's children.
func walkNodes(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil || !visit(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkNodes(node.Child(i), visit)
	}
}

// firstError returns the first ERROR or MISSING node below root
func firstError(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkNodes(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}
