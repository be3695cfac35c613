package analyzer

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/dupscan/dupscan/internal/parser"
)

// AbstractionLevel selects how aggressively a fragment is canonicalized
// before fingerprinting.
type AbstractionLevel int

const (
	// LevelNone keeps tokens verbatim (whitespace and comments are
	// already gone). Supports Type-1 exact matching.
	LevelNone AbstractionLevel = iota
	// LevelIdentifiers replaces identifiers with positional placeholders
	// keyed by first occurrence, so consistent renaming collapses to the
	// same sequence. Supports Type-2 matching.
	LevelIdentifiers
	// LevelLiteralsAndIdentifiers additionally replaces numeric and
	// string literals with typed placeholders. Input feature for Type-3
	// scoring only, never for exact-match classification.
	LevelLiteralsAndIdentifiers
)

// String returns string representation of AbstractionLevel
func (l AbstractionLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelIdentifiers:
		return "identifiers"
	case LevelLiteralsAndIdentifiers:
		return "literals_and_identifiers"
	default:
		return "unknown"
	}
}

// NormalizedForm is the canonical token sequence of a fragment at one
// abstraction level plus its content fingerprint. Never mutated after
// creation; identical input always yields a byte-identical form.
type NormalizedForm struct {
	Level       AbstractionLevel
	Tokens      []string
	Fingerprint string
}

// FragmentForms bundles the three abstraction levels of one fragment.
type FragmentForms struct {
	Exact    *NormalizedForm // LevelNone
	Renamed  *NormalizedForm // LevelIdentifiers
	Abstract *NormalizedForm // LevelLiteralsAndIdentifiers
}

// Normalize produces the canonical form of a token sequence at the
// given abstraction level.
func Normalize(tokens []Token, level AbstractionLevel) *NormalizedForm {
	out := make([]string, 0, len(tokens))
	identifiers := make(map[string]int)

	for _, tok := range tokens {
		switch {
		case level >= LevelIdentifiers && tok.Class == parser.ClassIdentifier:
			idx, seen := identifiers[tok.Text]
			if !seen {
				idx = len(identifiers)
				identifiers[tok.Text] = idx
			}
			out = append(out, fmt.Sprintf("id%d", idx))
		case level >= LevelLiteralsAndIdentifiers && tok.Class == parser.ClassNumber:
			out = append(out, "num")
		case level >= LevelLiteralsAndIdentifiers && tok.Class == parser.ClassString:
			out = append(out, "str")
		default:
			out = append(out, tok.Text)
		}
	}

	return &NormalizedForm{
		Level:       level,
		Tokens:      out,
		Fingerprint: fingerprint(out),
	}
}

// NormalizeAll computes all three abstraction levels for a fragment.
func NormalizeAll(frag *Fragment) *FragmentForms {
	return &FragmentForms{
		Exact:    Normalize(frag.Tokens, LevelNone),
		Renamed:  Normalize(frag.Tokens, LevelIdentifiers),
		Abstract: Normalize(frag.Tokens, LevelLiteralsAndIdentifiers),
	}
}

// fingerprint hashes a token sequence. The unit separator keeps
// adjacent tokens from colliding ("ab","c" vs "a","bc").
func fingerprint(tokens []string) string {
	sum := md5.Sum([]byte(strings.Join(tokens, "\x1f")))
	return fmt.Sprintf("%x", sum)
}
