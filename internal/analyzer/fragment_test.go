package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/parser"
)

// leaf builds a one-token leaf node on the given line.
func leaf(text string, class parser.NodeClass, line int) *parser.SyntaxNode {
	return &parser.SyntaxNode{
		Kind:  "token",
		Class: class,
		Token: text,
		Span:  parser.Span{StartLine: line, EndLine: line},
	}
}

// statement builds a statement node with enough leaves to pass the
// token minimum when several statements are combined.
func statement(line, tokenCount int) *parser.SyntaxNode {
	stmt := &parser.SyntaxNode{
		Kind: "expression_statement",
		Span: parser.Span{StartLine: line, EndLine: line},
	}
	for i := 0; i < tokenCount; i++ {
		stmt.Children = append(stmt.Children, leaf(fmt.Sprintf("t%d", i), parser.ClassOther, line))
	}
	return stmt
}

// functionNode wraps a block of statements in a function definition.
func functionNode(startLine int, statements ...*parser.SyntaxNode) *parser.SyntaxNode {
	endLine := startLine
	if len(statements) > 0 {
		endLine = statements[len(statements)-1].Span.EndLine
	}
	block := &parser.SyntaxNode{
		Kind:     "block",
		Class:    parser.ClassBlock,
		Span:     parser.Span{StartLine: startLine + 1, EndLine: endLine},
		Children: statements,
	}
	return &parser.SyntaxNode{
		Kind:  "function_definition",
		Class: parser.ClassFunction,
		Span:  parser.Span{StartLine: startLine, EndLine: endLine},
		Children: []*parser.SyntaxNode{
			leaf("f", parser.ClassIdentifier, startLine),
			block,
		},
	}
}

func testExtractorConfig() *domain.DetectionConfig {
	config := domain.DefaultDetectionConfig()
	config.MinFragmentTokens = 5
	config.MinFragmentLines = 2
	config.WindowStatements = 3
	return config
}

func TestExtractor_FunctionFragment(t *testing.T) {
	unit := domain.NewSourceUnit("test.py", domain.LanguagePython, []byte("def f():\n    pass\n"))
	root := &parser.SyntaxNode{
		Kind:     "module",
		Span:     parser.Span{StartLine: 1, EndLine: 4},
		Children: []*parser.SyntaxNode{functionNode(1, statement(2, 3), statement(3, 3))},
	}

	extractor := NewExtractor(testExtractorConfig())
	fragments := extractor.Extract(unit, root)

	require.Len(t, fragments, 1, "Two statements are below the window size; only the function fragment qualifies")
	frag := fragments[0]
	assert.Equal(t, FragmentFunction, frag.Kind)
	assert.Equal(t, 7, len(frag.Tokens), "Function name plus statement tokens")
	assert.Equal(t, 1, frag.Span.StartLine)
	assert.Equal(t, 3, frag.Span.EndLine)
}

func TestExtractor_WindowFragments(t *testing.T) {
	// Five statements with a window of three yields three windows.
	statements := []*parser.SyntaxNode{
		statement(2, 2), statement(3, 2), statement(4, 2), statement(5, 2), statement(6, 2),
	}
	unit := domain.NewSourceUnit("test.py", domain.LanguagePython, []byte("x\n"))
	root := &parser.SyntaxNode{
		Kind:     "module",
		Span:     parser.Span{StartLine: 1, EndLine: 6},
		Children: []*parser.SyntaxNode{functionNode(1, statements...)},
	}

	extractor := NewExtractor(testExtractorConfig())
	fragments := extractor.Extract(unit, root)

	var windows []*Fragment
	for _, frag := range fragments {
		if frag.Kind == FragmentWindow {
			windows = append(windows, frag)
		}
	}
	require.Len(t, windows, 3)
	assert.Equal(t, 2, windows[0].Span.StartLine)
	assert.Equal(t, 4, windows[0].Span.EndLine)
	assert.Equal(t, 3, windows[1].Span.StartLine)
	assert.Equal(t, 4, windows[2].Span.StartLine)
	assert.Equal(t, 6, windows[2].Span.EndLine)
}

func TestExtractor_ShortBlockEmitsNoWindows(t *testing.T) {
	unit := domain.NewSourceUnit("test.py", domain.LanguagePython, []byte("x\n"))
	root := &parser.SyntaxNode{
		Kind:     "module",
		Span:     parser.Span{StartLine: 1, EndLine: 3},
		Children: []*parser.SyntaxNode{functionNode(1, statement(2, 4), statement(3, 4))},
	}

	extractor := NewExtractor(testExtractorConfig())
	fragments := extractor.Extract(unit, root)

	for _, frag := range fragments {
		assert.NotEqual(t, FragmentWindow, frag.Kind,
			"Blocks shorter than the window must not emit window fragments")
	}
}

func TestExtractor_MinimumSizeFilter(t *testing.T) {
	t.Run("too few tokens", func(t *testing.T) {
		unit := domain.NewSourceUnit("test.py", domain.LanguagePython, []byte("x\n"))
		root := &parser.SyntaxNode{
			Kind:     "module",
			Span:     parser.Span{StartLine: 1, EndLine: 2},
			Children: []*parser.SyntaxNode{functionNode(1, statement(2, 1))},
		}

		extractor := NewExtractor(testExtractorConfig())
		assert.Empty(t, extractor.Extract(unit, root))
	})

	t.Run("too few lines", func(t *testing.T) {
		config := testExtractorConfig()
		config.MinFragmentLines = 5

		unit := domain.NewSourceUnit("test.py", domain.LanguagePython, []byte("x\n"))
		root := &parser.SyntaxNode{
			Kind:     "module",
			Span:     parser.Span{StartLine: 1, EndLine: 3},
			Children: []*parser.SyntaxNode{functionNode(1, statement(2, 10), statement(3, 10))},
		}

		extractor := NewExtractor(config)
		assert.Empty(t, extractor.Extract(unit, root))
	})
}

func TestFragment_Location(t *testing.T) {
	unit := domain.NewSourceUnit("src/app.py", domain.LanguagePython, []byte("x\n"))
	frag := &Fragment{
		Unit: unit,
		Span: parser.Span{StartLine: 3, StartCol: 0, EndLine: 9, EndCol: 12},
	}

	loc := frag.Location()
	assert.Equal(t, "src/app.py", loc.FilePath)
	assert.Equal(t, 3, loc.StartLine)
	assert.Equal(t, 9, loc.EndLine)
	assert.Equal(t, 12, loc.EndCol)
}
