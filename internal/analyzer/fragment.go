// Package analyzer implements the clone detection engine: fragment
// extraction, normalization, fingerprint indexing, similarity scoring,
// clustering and report building.
package analyzer

import (
	"fmt"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/parser"
)

// FragmentKind distinguishes whole function bodies from sliding
// statement windows.
type FragmentKind int

const (
	FragmentFunction FragmentKind = iota
	FragmentWindow
)

// String returns string representation of FragmentKind
func (k FragmentKind) String() string {
	switch k {
	case FragmentFunction:
		return "function"
	case FragmentWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Token is one leaf token of a fragment together with its structural
// class, which drives normalization.
type Token struct {
	Text  string
	Class parser.NodeClass
}

// Fragment is a candidate comparison unit: a function body or a window
// of consecutive statements. Fragments may overlap; overlap is
// tolerated here and deduplicated during clustering.
type Fragment struct {
	ID        int
	Unit      *domain.SourceUnit
	Kind      FragmentKind
	Span      parser.Span
	Tokens    []Token
	LineCount int
}

// String returns string representation of Fragment
func (f *Fragment) String() string {
	return fmt.Sprintf("%s %s:%s (%d tokens)", f.Kind, f.Unit.Path, f.Span, len(f.Tokens))
}

// Location converts the fragment span to a report location.
func (f *Fragment) Location() *domain.CloneLocation {
	return &domain.CloneLocation{
		FilePath:  f.Unit.Path,
		StartLine: f.Span.StartLine,
		EndLine:   f.Span.EndLine,
		StartCol:  f.Span.StartCol,
		EndCol:    f.Span.EndCol,
	}
}

// Extractor walks syntax trees and emits candidate fragments. It is
// stateless across files, so extraction is embarrassingly parallel.
type Extractor struct {
	minTokens        int
	minLines         int
	windowStatements int
}

// NewExtractor creates an extractor for the given configuration.
func NewExtractor(config *domain.DetectionConfig) *Extractor {
	return &Extractor{
		minTokens:        config.MinFragmentTokens,
		minLines:         config.MinFragmentLines,
		windowStatements: config.WindowStatements,
	}
}

// Extract emits the fragments of one parsed unit: every function body
// plus sliding windows of consecutive statements inside blocks.
// Fragments below the minimum size are discarded at emission.
func (e *Extractor) Extract(unit *domain.SourceUnit, root *parser.SyntaxNode) []*Fragment {
	var fragments []*Fragment

	root.Walk(func(node *parser.SyntaxNode) bool {
		switch node.Class {
		case parser.ClassFunction:
			if frag := e.fragmentFromNode(unit, FragmentFunction, node); frag != nil {
				fragments = append(fragments, frag)
			}
		case parser.ClassBlock:
			fragments = append(fragments, e.windowFragments(unit, node)...)
		}
		return true
	})

	return fragments
}

// fragmentFromNode builds a fragment covering one subtree, or nil when
// it falls below the minimum size.
func (e *Extractor) fragmentFromNode(unit *domain.SourceUnit, kind FragmentKind, node *parser.SyntaxNode) *Fragment {
	tokens := flattenTokens(node)
	frag := &Fragment{
		Unit:      unit,
		Kind:      kind,
		Span:      node.Span,
		Tokens:    tokens,
		LineCount: node.Span.EndLine - node.Span.StartLine + 1,
	}
	if !e.meetsMinimumSize(frag) {
		return nil
	}
	return frag
}

// windowFragments emits every window of windowStatements consecutive
// statements within a block. Blocks shorter than one window emit
// nothing; the enclosing function fragment already covers them.
func (e *Extractor) windowFragments(unit *domain.SourceUnit, block *parser.SyntaxNode) []*Fragment {
	statements := block.Children
	if len(statements) < e.windowStatements {
		return nil
	}

	var fragments []*Fragment
	for start := 0; start+e.windowStatements <= len(statements); start++ {
		window := statements[start : start+e.windowStatements]
		span := parser.Span{
			StartLine: window[0].Span.StartLine,
			StartCol:  window[0].Span.StartCol,
			EndLine:   window[len(window)-1].Span.EndLine,
			EndCol:    window[len(window)-1].Span.EndCol,
		}

		var tokens []Token
		for _, stmt := range window {
			tokens = append(tokens, flattenTokens(stmt)...)
		}

		frag := &Fragment{
			Unit:      unit,
			Kind:      FragmentWindow,
			Span:      span,
			Tokens:    tokens,
			LineCount: span.EndLine - span.StartLine + 1,
		}
		if e.meetsMinimumSize(frag) {
			fragments = append(fragments, frag)
		}
	}
	return fragments
}

// meetsMinimumSize filters trivially small fragments so one-line
// matches do not flood the results.
func (e *Extractor) meetsMinimumSize(frag *Fragment) bool {
	return len(frag.Tokens) >= e.minTokens && frag.LineCount >= e.minLines
}

// flattenTokens collects the leaf tokens of a subtree in source order.
func flattenTokens(node *parser.SyntaxNode) []Token {
	var tokens []Token
	node.Walk(func(n *parser.SyntaxNode) bool {
		if n.IsLeaf() && n.Token != "" {
			tokens = append(tokens, Token{Text: n.Token, Class: n.Class})
		}
		return true
	})
	return tokens
}
