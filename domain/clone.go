package domain

import (
	"context"
	"fmt"
	"io"

	"github.com/dupscan/dupscan/internal/constants"
)

// CloneType represents the strength class of a detected clone.
type CloneType int

const (
	// Type1Clone - identical code fragments (except whitespace and comments)
	Type1Clone CloneType = iota + 1
	// Type2Clone - identical structure with consistently renamed identifiers
	Type2Clone
	// Type3Clone - similar fragments within the configured similarity threshold
	Type3Clone
)

// String returns string representation of CloneType
func (ct CloneType) String() string {
	switch ct {
	case Type1Clone:
		return "Type-1"
	case Type2Clone:
		return "Type-2"
	case Type3Clone:
		return "Type-3"
	default:
		return "Unknown"
	}
}

// StrongerThan reports whether ct outranks other (Type-1 is strongest).
func (ct CloneType) StrongerThan(other CloneType) bool {
	return ct < other
}

// MarshalJSON serializes the clone type as its display name.
func (ct CloneType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ct.String() + `"`), nil
}

// MarshalYAML serializes the clone type as its display name.
func (ct CloneType) MarshalYAML() (interface{}, error) {
	return ct.String(), nil
}

// CloneLocation represents a member location in source code.
type CloneLocation struct {
	FilePath  string `json:"file_path" yaml:"file_path"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	StartCol  int    `json:"start_col" yaml:"start_col"`
	EndCol    int    `json:"end_col" yaml:"end_col"`
}

// String returns string representation of CloneLocation
func (cl *CloneLocation) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", cl.FilePath, cl.StartLine, cl.StartCol, cl.EndLine, cl.EndCol)
}

// LineCount returns the number of lines spanned by this location.
func (cl *CloneLocation) LineCount() int {
	return cl.EndLine - cl.StartLine + 1
}

// Contains reports whether cl fully contains other within the same file.
func (cl *CloneLocation) Contains(other *CloneLocation) bool {
	return cl.FilePath == other.FilePath &&
		cl.StartLine <= other.StartLine &&
		cl.EndLine >= other.EndLine
}

// CloneMember is one fragment belonging to a clone class.
type CloneMember struct {
	Location   *CloneLocation `json:"location" yaml:"location"`
	TokenCount int            `json:"token_count" yaml:"token_count"`
	LineCount  int            `json:"line_count" yaml:"line_count"`
	Content    string         `json:"content,omitempty" yaml:"content,omitempty"`
}

// CloneClass is a maximal set of fragments pairwise connected, directly
// or transitively, by qualifying clone pairs. Similarity is the minimum
// pairwise score observed inside the class.
type CloneClass struct {
	ID         int            `json:"id" yaml:"id"`
	Type       CloneType      `json:"type" yaml:"type"`
	Similarity float64        `json:"similarity" yaml:"similarity"`
	Members    []*CloneMember `json:"members" yaml:"members"`
}

// String returns string representation of CloneClass
func (cc *CloneClass) String() string {
	return fmt.Sprintf("CloneClass{ID: %d, Type: %s, Size: %d, Similarity: %.3f}",
		cc.ID, cc.Type.String(), len(cc.Members), cc.Similarity)
}

// Warning codes attached to a report for files skipped during a run.
const (
	WarningUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	WarningParseError          = "PARSE_ERROR"
)

// Warning records a per-file problem that did not abort the run.
type Warning struct {
	Code     string `json:"code" yaml:"code"`
	FilePath string `json:"file_path" yaml:"file_path"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Col      int    `json:"col,omitempty" yaml:"col,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// String returns string representation of Warning
func (w *Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d:%d: %s", w.Code, w.FilePath, w.Line, w.Col, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.FilePath, w.Message)
}

// CloneMetrics summarizes a detection run.
type CloneMetrics struct {
	FilesAnalyzed      int            `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSkipped       int            `json:"files_skipped" yaml:"files_skipped"`
	LinesAnalyzed      int            `json:"lines_analyzed" yaml:"lines_analyzed"`
	FragmentsAnalyzed  int            `json:"fragments_analyzed" yaml:"fragments_analyzed"`
	TotalCloneClasses  int            `json:"total_clone_classes" yaml:"total_clone_classes"`
	ClassesByType      map[string]int `json:"classes_by_type" yaml:"classes_by_type"`
	ClonedLines        int            `json:"cloned_lines" yaml:"cloned_lines"`
	DuplicationPercent float64        `json:"duplication_percent" yaml:"duplication_percent"`
}

// CloneReport is the structured result of one detection run. It is
// deterministic: identical inputs and config produce a byte-identical
// report.
type CloneReport struct {
	Classes  []*CloneClass `json:"classes" yaml:"classes"`
	Metrics  *CloneMetrics `json:"metrics" yaml:"metrics"`
	Warnings []*Warning    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// DetectionConfig controls a single detection run. Threshold values are
// percentages in [0,100]; the named presets 70/90/100 correspond to the
// Type-3/Type-2/Type-1 boundaries.
type DetectionConfig struct {
	// Minimum similarity (percent) for a Type-3 pair to be reported.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Sensitivity scales the threshold by Sensitivity/10 (range 1-10);
	// lowering it relaxes the cutoff so weaker pairs qualify.
	Sensitivity int `json:"sensitivity" yaml:"sensitivity"`

	// Fragments smaller than these bounds are ignored.
	MinFragmentTokens int `json:"min_fragment_tokens" yaml:"min_fragment_tokens"`
	MinFragmentLines  int `json:"min_fragment_lines" yaml:"min_fragment_lines"`

	// Number of consecutive statements per sliding window fragment.
	WindowStatements int `json:"window_statements" yaml:"window_statements"`

	// Number of tokens per shingle for near-miss candidate bucketing.
	ShingleSize int `json:"shingle_size" yaml:"shingle_size"`

	// Maximum worker goroutines; 0 means one per available CPU.
	MaxWorkers int `json:"max_workers" yaml:"max_workers"`

	// Include fragment source text in report members.
	IncludeContent bool `json:"include_content" yaml:"include_content"`
}

// DefaultDetectionConfig returns the default configuration with the
// named 70/90/100 preset boundaries.
func DefaultDetectionConfig() *DetectionConfig {
	return &DetectionConfig{
		Threshold:         constants.Type3ThresholdPercent,
		Sensitivity:       constants.DefaultSensitivity,
		MinFragmentTokens: constants.DefaultMinFragmentTokens,
		MinFragmentLines:  constants.DefaultMinFragmentLines,
		WindowStatements:  constants.DefaultWindowStatements,
		ShingleSize:       constants.DefaultShingleSize,
		MaxWorkers:        0,
		IncludeContent:    false,
	}
}

// Validate checks the configuration, failing fast with INVALID_CONFIG
// before any processing begins.
func (c *DetectionConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return NewInvalidConfigError(fmt.Sprintf("threshold must be in [0,100], got %.1f", c.Threshold))
	}
	if c.Sensitivity < 1 || c.Sensitivity > 10 {
		return NewInvalidConfigError(fmt.Sprintf("sensitivity must be in [1,10], got %d", c.Sensitivity))
	}
	if c.MinFragmentTokens <= 0 {
		return NewInvalidConfigError(fmt.Sprintf("min_fragment_tokens must be > 0, got %d", c.MinFragmentTokens))
	}
	if c.MinFragmentLines <= 0 {
		return NewInvalidConfigError(fmt.Sprintf("min_fragment_lines must be > 0, got %d", c.MinFragmentLines))
	}
	if c.WindowStatements < 2 {
		return NewInvalidConfigError(fmt.Sprintf("window_statements must be >= 2, got %d", c.WindowStatements))
	}
	if c.ShingleSize < 2 {
		return NewInvalidConfigError(fmt.Sprintf("shingle_size must be >= 2, got %d", c.ShingleSize))
	}
	if c.MaxWorkers < 0 {
		return NewInvalidConfigError(fmt.Sprintf("max_workers must be >= 0, got %d", c.MaxWorkers))
	}
	return nil
}

// EffectiveThreshold applies sensitivity scaling to the configured
// Type-3 cutoff, returning a similarity bound in [0,1]. Lowering the
// sensitivity lowers the cutoff, so more (and weaker) pairs qualify.
// Type-1 and Type-2 need no cutoff: they are fingerprint-equality
// classes.
func (c *DetectionConfig) EffectiveThreshold() float64 {
	return c.Threshold / 100.0 * float64(c.Sensitivity) / 10.0
}

// CloneRequest carries one detection invocation through the use case
// layer: input selection, detection config and output preferences.
type CloneRequest struct {
	// Input selection
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Detection configuration
	Config *DetectionConfig `json:"config"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path,omitempty"`
	ShowDetails  bool         `json:"show_details"`
	NoProgress   bool         `json:"no_progress"`

	// Optional configuration file
	ConfigPath string `json:"config_path,omitempty"`
}

// DefaultCloneRequest returns a request with default settings.
func DefaultCloneRequest() *CloneRequest {
	return &CloneRequest{
		Paths:           []string{"."},
		Recursive:       true,
		IncludePatterns: []string{},
		ExcludePatterns: []string{},
		Config:          DefaultDetectionConfig(),
		OutputFormat:    OutputFormatText,
		ShowDetails:     false,
	}
}

// Validate validates a clone request.
func (req *CloneRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewInvalidInputError("paths cannot be empty", nil)
	}
	if req.Config == nil {
		return NewInvalidConfigError("detection config cannot be nil")
	}
	if err := req.Config.Validate(); err != nil {
		return err
	}
	switch req.OutputFormat {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
	default:
		return NewUnsupportedFormatError(string(req.OutputFormat))
	}
	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer.
func (req *CloneRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// CloneResponse wraps a report with run metadata. The metadata is not
// part of the deterministic report payload.
type CloneResponse struct {
	Report   *CloneReport `json:"report" yaml:"report"`
	RunID    string       `json:"run_id" yaml:"run_id"`
	Duration int64        `json:"duration_ms" yaml:"duration_ms"`
	Success  bool         `json:"success" yaml:"success"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// CloneService defines the interface for clone detection services.
type CloneService interface {
	// DetectClones performs clone detection on the given request.
	DetectClones(ctx context.Context, req *CloneRequest) (*CloneResponse, error)

	// DetectClonesInFiles performs clone detection on specific files.
	DetectClonesInFiles(ctx context.Context, filePaths []string, req *CloneRequest) (*CloneResponse, error)
}

// CloneOutputFormatter defines the interface for rendering clone
// detection results.
type CloneOutputFormatter interface {
	// FormatCloneResponse formats a clone response in the given format.
	FormatCloneResponse(response *CloneResponse, format OutputFormat, writer io.Writer) error
}

// CloneConfigurationLoader defines the interface for loading detection
// configuration from files.
type CloneConfigurationLoader interface {
	// LoadCloneConfig loads clone detection configuration from a file.
	LoadCloneConfig(configPath string) (*CloneRequest, error)

	// SaveCloneConfig saves clone detection configuration to a file.
	SaveCloneConfig(config *CloneRequest, configPath string) error

	// GetDefaultCloneConfig returns the default configuration.
	GetDefaultCloneConfig() *CloneRequest
}
