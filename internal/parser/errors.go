package parser

import "fmt"

// ParseError reports a failed parse, naming the file and the location
// of the first offending node.
type ParseError struct {
	Path  string
	Line  int
	Col   int
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse %s at %d:%d: %v", e.Path, e.Line, e.Col, e.Cause)
	}
	return fmt.Sprintf("failed to parse %s at %d:%d", e.Path, e.Line, e.Col)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
