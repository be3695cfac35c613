package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan/dupscan/domain"
)

func parsePython(t *testing.T, source string) *SyntaxNode {
	t.Helper()
	unit := domain.NewSourceUnit("test.py", domain.LanguagePython, []byte(source))
	root, err := NewPythonFrontend().Parse(context.Background(), unit)
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func parseJava(t *testing.T, source string) *SyntaxNode {
	t.Helper()
	unit := domain.NewSourceUnit("Test.java", domain.LanguageJava, []byte(source))
	root, err := NewJavaFrontend().Parse(context.Background(), unit)
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func findByClass(root *SyntaxNode, class NodeClass) []*SyntaxNode {
	var found []*SyntaxNode
	root.Walk(func(n *SyntaxNode) bool {
		if n.Class == class {
			found = append(found, n)
		}
		return true
	})
	return found
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	python, ok := registry.Lookup(domain.LanguagePython)
	assert.True(t, ok)
	assert.Equal(t, domain.LanguagePython, python.Language())

	java, ok := registry.Lookup(domain.LanguageJava)
	assert.True(t, ok)
	assert.Equal(t, domain.LanguageJava, java.Language())

	_, ok = registry.Lookup(domain.Language("ruby"))
	assert.False(t, ok)

	assert.Equal(t, []domain.Language{domain.LanguageJava, domain.LanguagePython}, registry.Languages())
}

func TestPythonFrontend_FunctionAndBlock(t *testing.T) {
	root := parsePython(t, `def add(a, b):
    result = a + b
    return result
`)

	functions := findByClass(root, ClassFunction)
	require.Len(t, functions, 1)
	assert.Equal(t, "function_definition", functions[0].Kind)
	assert.Equal(t, 1, functions[0].Span.StartLine)
	assert.Equal(t, 3, functions[0].Span.EndLine)

	blocks := findByClass(root, ClassBlock)
	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0].Children, 2, "Block children are the two statements")
}

func TestPythonFrontend_CommentsDropped(t *testing.T) {
	withComments := parsePython(t, `def f():
    # a comment
    x = 1  # trailing
    return x
`)
	withoutComments := parsePython(t, `def f():
    x = 1
    return x
`)

	assert.Equal(t, withComments.TokenCount(), withoutComments.TokenCount(),
		"Comments must not contribute tokens")
}

func TestPythonFrontend_LeafClasses(t *testing.T) {
	root := parsePython(t, `def f():
    name = "hello"
    count = 42
    return name
`)

	identifiers := findByClass(root, ClassIdentifier)
	texts := make(map[string]bool)
	for _, node := range identifiers {
		assert.True(t, node.IsLeaf())
		texts[node.Token] = true
	}
	assert.True(t, texts["name"])
	assert.True(t, texts["count"])

	numbers := findByClass(root, ClassNumber)
	require.Len(t, numbers, 1)
	assert.Equal(t, "42", numbers[0].Token)

	strings := findByClass(root, ClassString)
	require.Len(t, strings, 1)
	assert.Equal(t, `"hello"`, strings[0].Token)
}

func TestPythonFrontend_ParseError(t *testing.T) {
	unit := domain.NewSourceUnit("bad.py", domain.LanguagePython, []byte("def f(:\n"))
	_, err := NewPythonFrontend().Parse(context.Background(), unit)

	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "bad.py", parseErr.Path)
	assert.Greater(t, parseErr.Line, 0, "Parse errors carry a 1-based line")
}

func TestJavaFrontend_MethodsAndConstructors(t *testing.T) {
	root := parseJava(t, `class Calc {
    Calc() {
        this.total = 0;
    }

    int add(int a, int b) {
        int result = a + b;
        return result;
    }
}
`)

	functions := findByClass(root, ClassFunction)
	require.Len(t, functions, 2, "Both the constructor and the method are function fragments")
}

func TestJavaFrontend_LeafClasses(t *testing.T) {
	root := parseJava(t, `class C {
    int f() {
        String s = "text";
        int n = 0x1F;
        return n;
    }
}
`)

	numbers := findByClass(root, ClassNumber)
	require.Len(t, numbers, 1)
	assert.Equal(t, "0x1F", numbers[0].Token)

	strings := findByClass(root, ClassString)
	require.Len(t, strings, 1)
	assert.Equal(t, `"text"`, strings[0].Token)
}

func TestJavaFrontend_CommentsDropped(t *testing.T) {
	withComments := parseJava(t, `class C {
    // line comment
    /* block comment */
    int f() { return 1; }
}
`)
	withoutComments := parseJava(t, `class C {
    int f() { return 1; }
}
`)

	assert.Equal(t, withComments.TokenCount(), withoutComments.TokenCount())
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{StartLine: 1, StartCol: 0, EndLine: 10, EndCol: 5}
	inner := Span{StartLine: 3, StartCol: 4, EndLine: 7, EndCol: 2}

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, outer.Contains(outer))
}

func TestSpan_Overlaps(t *testing.T) {
	a := Span{StartLine: 1, EndLine: 5}
	b := Span{StartLine: 5, EndLine: 9}
	c := Span{StartLine: 6, EndLine: 9}

	assert.True(t, a.Overlaps(b), "Sharing a line counts as overlap")
	assert.False(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}
