// Package parser turns source files into normalized syntax trees using
// tree-sitter grammars. One front end exists per supported language;
// all of them produce the same SyntaxNode shape, so everything
// downstream is language-agnostic.
package parser

import "fmt"

// NodeClass tags the structural role of a node for the downstream
// pipeline. Front ends assign classes so the extractor and normalizer
// never need language-specific knowledge.
type NodeClass int

const (
	// ClassOther is any node without a special role.
	ClassOther NodeClass = iota
	// ClassFunction marks function, method and constructor definitions.
	ClassFunction
	// ClassBlock marks statement blocks whose children are statements.
	ClassBlock
	// ClassIdentifier marks identifier leaves.
	ClassIdentifier
	// ClassNumber marks numeric literal leaves.
	ClassNumber
	// ClassString marks string and character literal leaves.
	ClassString
)

// Span is a half-open source region in 1-based lines and 0-based columns.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns the span as line:col-line:col.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Contains reports whether s fully contains other.
func (s Span) Contains(other Span) bool {
	if s.StartLine > other.StartLine || (s.StartLine == other.StartLine && s.StartCol > other.StartCol) {
		return false
	}
	if s.EndLine < other.EndLine || (s.EndLine == other.EndLine && s.EndCol < other.EndCol) {
		return false
	}
	return true
}

// Overlaps reports whether s and other share at least one line.
func (s Span) Overlaps(other Span) bool {
	return s.StartLine <= other.EndLine && other.StartLine <= s.EndLine
}

// SyntaxNode is a node in a parsed tree. Children are ordered and owned
// exclusively by their parent; comments and pure-whitespace tokens are
// dropped during construction. Leaves carry their token text.
type SyntaxNode struct {
	Kind     string
	Class    NodeClass
	Token    string
	Span     Span
	Children []*SyntaxNode
}

// IsLeaf reports whether the node carries a token and has no children.
func (n *SyntaxNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk calls visit for n and every descendant in depth-first order.
// Traversal stops early when visit returns false for a node's subtree.
func (n *SyntaxNode) Walk(visit func(*SyntaxNode) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// TokenCount returns the number of leaf tokens in the subtree.
func (n *SyntaxNode) TokenCount() int {
	count := 0
	n.Walk(func(node *SyntaxNode) bool {
		if node.IsLeaf() && node.Token != "" {
			count++
		}
		return true
	})
	return count
}
