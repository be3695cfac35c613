package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dupscan/dupscan/domain"
)

// grammar describes how a tree-sitter grammar maps onto the normalized
// SyntaxNode shape: which node kinds are functions, blocks, comments
// and literal leaves.
type grammar struct {
	language        *sitter.Language
	functionKinds   map[string]bool
	blockKinds      map[string]bool
	commentKinds    map[string]bool
	identifierKinds map[string]bool
	numberKinds     map[string]bool
	stringKinds     map[string]bool
}

// treeSitterFrontend is a Frontend driven by a tree-sitter grammar.
// A fresh sitter parser is created per Parse call; sitter parsers are
// not safe for concurrent use and units are parsed in parallel.
type treeSitterFrontend struct {
	lang    domain.Language
	grammar grammar
}

func (f *treeSitterFrontend) Language() domain.Language {
	return f.lang
}

func (f *treeSitterFrontend) Parse(ctx context.Context, unit *domain.SourceUnit) (*SyntaxNode, error) {
	p := sitter.NewParser()
	p.SetLanguage(f.grammar.language)

	tree, err := p.ParseCtx(ctx, nil, unit.Content)
	if err != nil {
		return nil, &ParseError{Path: unit.Path, Cause: err}
	}

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstErrorPoint(root)
		return nil, &ParseError{Path: unit.Path, Line: line, Col: col}
	}

	return f.build(root, unit.Content), nil
}

// firstErrorPoint locates the first error or missing node in the tree.
func firstErrorPoint(root *sitter.Node) (int, int) {
	var walk func(n *sitter.Node) (int, int, bool)
	walk = func(n *sitter.Node) (int, int, bool) {
		if n.IsError() || n.IsMissing() {
			pt := n.StartPoint()
			return int(pt.Row) + 1, int(pt.Column), true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if line, col, ok := walk(n.Child(i)); ok {
				return line, col, ok
			}
		}
		return 0, 0, false
	}
	if line, col, ok := walk(root); ok {
		return line, col
	}
	pt := root.StartPoint()
	return int(pt.Row) + 1, int(pt.Column)
}

// build converts a tree-sitter subtree into a SyntaxNode subtree,
// dropping comments. Literal and identifier nodes become leaves even
// when the grammar splits them further.
func (f *treeSitterFrontend) build(node *sitter.Node, source []byte) *SyntaxNode {
	kind := node.Type()
	if f.grammar.commentKinds[kind] {
		return nil
	}

	out := &SyntaxNode{
		Kind: kind,
		Span: spanOf(node),
	}

	switch {
	case f.grammar.functionKinds[kind]:
		out.Class = ClassFunction
	case f.grammar.blockKinds[kind]:
		out.Class = ClassBlock
	case f.grammar.identifierKinds[kind]:
		out.Class = ClassIdentifier
		out.Token = node.Content(source)
		return out
	case f.grammar.numberKinds[kind]:
		out.Class = ClassNumber
		out.Token = node.Content(source)
		return out
	case f.grammar.stringKinds[kind]:
		out.Class = ClassString
		out.Token = node.Content(source)
		return out
	}

	count := int(node.ChildCount())
	if count == 0 {
		out.Token = node.Content(source)
		return out
	}

	for i := 0; i < count; i++ {
		if child := f.build(node.Child(i), source); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out
}

func spanOf(node *sitter.Node) Span {
	start := node.StartPoint()
	end := node.EndPoint()
	return Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}
