package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// walk recursively visits a node and its children in document order.
// The visitor returns false to skip a node's children.
func walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), visitor)
	}
}

// findChildByKind finds the first direct child node with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// nodeText extracts the text content of a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// lineOf returns a node's 1-based start line.
func lineOf(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}
