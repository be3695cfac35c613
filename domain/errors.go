package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeParseError          = "PARSE_ERROR"
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	ErrCodeInvariantViolation  = "INTERNAL_INVARIANT_VIOLATION"
	ErrCodeOutputError         = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewInvalidConfigError creates a configuration error. Configuration
// errors fail a run before any processing begins.
func NewInvalidConfigError(message string) error {
	return NewDomainError(ErrCodeInvalidConfig, message, nil)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseError creates a parse error naming the file and location
func NewParseError(file string, line, col int, cause error) error {
	return NewDomainError(ErrCodeParseError,
		fmt.Sprintf("failed to parse %s at %d:%d", file, line, col), cause)
}

// NewUnsupportedLanguageError creates an error for a language tag with
// no registered front end
func NewUnsupportedLanguageError(file string, language string) error {
	return NewDomainError(ErrCodeUnsupportedLanguage,
		fmt.Sprintf("no front end registered for language %q (file %s)", language, file), nil)
}

// NewInvariantViolationError creates a fatal internal error. Seeing one
// of these indicates a bug, not bad input.
func NewInvariantViolationError(message string) error {
	return NewDomainError(ErrCodeInvariantViolation, message, nil)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// ErrorCode extracts the domain error code from err, or "" when err is
// not a DomainError.
func ErrorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
