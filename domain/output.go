package domain

import "io"

// OutputFormat defines the output format for reports
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// FileReader abstracts file discovery and reading. Discovery is a
// collaborator concern: the engine itself never walks directories.
type FileReader interface {
	// CollectSourceFiles finds supported source files in the given paths.
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file.
	ReadFile(path string) ([]byte, error)

	// FileExists checks if a file exists.
	FileExists(path string) (bool, error)
}

// ReportWriter abstracts writing a formatted report to a destination.
//
// Implementations live in the service layer.
type ReportWriter interface {
	// Write writes formatted content using writeFunc. If outputPath is
	// non-empty the file at that path is created or truncated and passed
	// to writeFunc; otherwise writer is used.
	Write(writer io.Writer, outputPath string, writeFunc func(io.Writer) error) error
}

// ProgressReporter reports long-running operation progress to the user.
type ProgressReporter interface {
	// Start begins tracking an operation with total steps.
	Start(label string, total int)

	// Step advances the progress by one.
	Step()

	// Complete finishes the current operation.
	Complete()

	// IsInteractive returns true if progress should be rendered.
	IsInteractive() bool
}
