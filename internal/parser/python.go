package parser

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/dupscan/dupscan/domain"
)

// NewPythonFrontend returns the front end for Python source files.
func NewPythonFrontend() Frontend {
	return &treeSitterFrontend{
		lang: domain.LanguagePython,
		grammar: grammar{
			language: python.GetLanguage(),
			functionKinds: map[string]bool{
				"function_definition": true,
			},
			blockKinds: map[string]bool{
				"block": true,
			},
			commentKinds: map[string]bool{
				"comment":           true,
				"line_continuation": true,
			},
			identifierKinds: map[string]bool{
				"identifier": true,
			},
			numberKinds: map[string]bool{
				"integer": true,
				"float":   true,
			},
			stringKinds: map[string]bool{
				"string":              true,
				"concatenated_string": true,
			},
		},
	}
}
