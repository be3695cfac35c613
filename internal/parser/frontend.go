package parser

import (
	"context"
	"sort"

	"github.com/dupscan/dupscan/domain"
)

// Frontend is the per-language parsing capability: it turns one
// SourceUnit into a SyntaxNode tree or fails with a PARSE_ERROR naming
// the file and the offending location. Adding a language means adding a
// Frontend; nothing downstream changes.
type Frontend interface {
	// Language returns the language tag this front end handles.
	Language() domain.Language

	// Parse parses the unit into a syntax tree with comments and
	// whitespace dropped.
	Parse(ctx context.Context, unit *domain.SourceUnit) (*SyntaxNode, error)
}

// Registry maps language tags to front ends. It is built once at
// startup and read-only afterwards.
type Registry struct {
	frontends map[domain.Language]Frontend
}

// NewRegistry returns a registry with all built-in front ends.
func NewRegistry() *Registry {
	r := &Registry{frontends: make(map[domain.Language]Frontend)}
	r.Register(NewPythonFrontend())
	r.Register(NewJavaFrontend())
	return r
}

// Register adds a front end, replacing any existing one for the same
// language tag.
func (r *Registry) Register(f Frontend) {
	r.frontends[f.Language()] = f
}

// Lookup returns the front end for a language tag.
func (r *Registry) Lookup(language domain.Language) (Frontend, bool) {
	f, ok := r.frontends[language]
	return f, ok
}

// Languages returns the registered language tags, sorted.
func (r *Registry) Languages() []domain.Language {
	langs := make([]domain.Language, 0, len(r.frontends))
	for lang := range r.frontends {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
