package parser

import (
	"github.com/smacker/go-tree-sitter/java"

	"github.com/dupscan/dupscan/domain"
)

// NewJavaFrontend returns the front end for Java source files.
func NewJavaFrontend() Frontend {
	return &treeSitterFrontend{
		lang: domain.LanguageJava,
		grammar: grammar{
			language: java.GetLanguage(),
			functionKinds: map[string]bool{
				"method_declaration":      true,
				"constructor_declaration": true,
			},
			blockKinds: map[string]bool{
				"block":            true,
				"constructor_body": true,
			},
			commentKinds: map[string]bool{
				"comment":       true,
				"line_comment":  true,
				"block_comment": true,
			},
			identifierKinds: map[string]bool{
				"identifier":      true,
				"type_identifier": true,
			},
			numberKinds: map[string]bool{
				"decimal_integer_literal":        true,
				"hex_integer_literal":            true,
				"octal_integer_literal":          true,
				"binary_integer_literal":         true,
				"decimal_floating_point_literal": true,
				"hex_floating_point_literal":     true,
			},
			stringKinds: map[string]bool{
				"string_literal":    true,
				"character_literal": true,
			},
		},
	}
}
