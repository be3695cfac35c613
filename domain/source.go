package domain

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a supported source language.
type Language string

const (
	LanguagePython Language = "python"
	LanguageJava   Language = "java"
)

// String returns the language tag.
func (l Language) String() string {
	return string(l)
}

// languageByExtension maps file extensions to language tags.
var languageByExtension = map[string]Language{
	".py":   LanguagePython,
	".pyi":  LanguagePython,
	".java": LanguageJava,
}

// LanguageForPath derives the language tag from a file extension.
// The second return value is false when the extension is not recognized.
func LanguageForPath(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := languageByExtension[ext]
	return lang, ok
}

// SupportedExtensions returns the recognized file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(languageByExtension))
	for ext := range languageByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// SourceUnit is one input file: path, language tag, raw content and a
// line offset table for mapping byte offsets back to line numbers.
// A unit is immutable once constructed.
type SourceUnit struct {
	Path     string
	Language Language
	Content  []byte

	lineOffsets []int
}

// NewSourceUnit constructs a SourceUnit and precomputes its line offsets.
func NewSourceUnit(path string, language Language, content []byte) *SourceUnit {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &SourceUnit{
		Path:        path,
		Language:    language,
		Content:     content,
		lineOffsets: offsets,
	}
}

// LineCount returns the number of lines in the unit.
func (u *SourceUnit) LineCount() int {
	if len(u.Content) == 0 {
		return 0
	}
	n := len(u.lineOffsets)
	// A trailing newline does not start a new line of content.
	if u.lineOffsets[n-1] == len(u.Content) {
		return n - 1
	}
	return n
}

// LineForOffset maps a byte offset to a 1-based line number.
func (u *SourceUnit) LineForOffset(offset int) int {
	idx := sort.SearchInts(u.lineOffsets, offset+1)
	if idx < 1 {
		return 1
	}
	return idx
}

// Line returns the raw text of the given 1-based line, without the
// trailing newline.
func (u *SourceUnit) Line(line int) string {
	if line < 1 || line > len(u.lineOffsets) {
		return ""
	}
	start := u.lineOffsets[line-1]
	end := len(u.Content)
	if line < len(u.lineOffsets) {
		end = u.lineOffsets[line] - 1
	}
	if start > end {
		return ""
	}
	return string(u.Content[start:end])
}
