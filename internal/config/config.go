// Package config loads and saves detection configuration files.
// Settings merge in the usual order: defaults, then the config file,
// then explicit flags handled by the CLI layer.
package config

import (
	"github.com/dupscan/dupscan/domain"
)

// Config file names searched in the working directory, in order.
var ConfigFileNames = []string{".dupscan.toml", "dupscan.toml"}

// FileConfig mirrors the on-disk TOML structure.
type FileConfig struct {
	Detection DetectionSection `mapstructure:"detection" toml:"detection"`
	Input     InputSection     `mapstructure:"input" toml:"input"`
	Output    OutputSection    `mapstructure:"output" toml:"output"`
}

// DetectionSection holds the engine tuning knobs.
type DetectionSection struct {
	Threshold         float64 `mapstructure:"threshold" toml:"threshold"`
	Sensitivity       int     `mapstructure:"sensitivity" toml:"sensitivity"`
	MinFragmentTokens int     `mapstructure:"min_fragment_tokens" toml:"min_fragment_tokens"`
	MinFragmentLines  int     `mapstructure:"min_fragment_lines" toml:"min_fragment_lines"`
	WindowStatements  int     `mapstructure:"window_statements" toml:"window_statements"`
	ShingleSize       int     `mapstructure:"shingle_size" toml:"shingle_size"`
	MaxWorkers        int     `mapstructure:"max_workers" toml:"max_workers"`
	IncludeContent    bool    `mapstructure:"include_content" toml:"include_content"`
}

// InputSection holds file selection settings.
type InputSection struct {
	Paths           []string `mapstructure:"paths" toml:"paths"`
	Recursive       *bool    `mapstructure:"recursive" toml:"recursive"` // pointer to detect unset
	IncludePatterns []string `mapstructure:"include_patterns" toml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns"`
}

// OutputSection holds report output settings.
type OutputSection struct {
	Format      string `mapstructure:"format" toml:"format"`
	ShowDetails *bool  `mapstructure:"show_details" toml:"show_details"` // pointer to detect unset
}

// DefaultFileConfig returns the file representation of the default
// request, used by config file generation.
func DefaultFileConfig() *FileConfig {
	req := domain.DefaultCloneRequest()
	recursive := req.Recursive
	showDetails := req.ShowDetails
	return &FileConfig{
		Detection: DetectionSection{
			Threshold:         req.Config.Threshold,
			Sensitivity:       req.Config.Sensitivity,
			MinFragmentTokens: req.Config.MinFragmentTokens,
			MinFragmentLines:  req.Config.MinFragmentLines,
			WindowStatements:  req.Config.WindowStatements,
			ShingleSize:       req.Config.ShingleSize,
			MaxWorkers:        req.Config.MaxWorkers,
			IncludeContent:    req.Config.IncludeContent,
		},
		Input: InputSection{
			Paths:           req.Paths,
			Recursive:       &recursive,
			IncludePatterns: req.IncludePatterns,
			ExcludePatterns: req.ExcludePatterns,
		},
		Output: OutputSection{
			Format:      string(req.OutputFormat),
			ShowDetails: &showDetails,
		},
	}
}

// ApplyTo merges the file settings over a request. Zero values for
// scalar settings mean "unset" and leave the request untouched.
func (fc *FileConfig) ApplyTo(req *domain.CloneRequest) {
	if fc.Detection.Threshold > 0 {
		req.Config.Threshold = fc.Detection.Threshold
	}
	if fc.Detection.Sensitivity > 0 {
		req.Config.Sensitivity = fc.Detection.Sensitivity
	}
	if fc.Detection.MinFragmentTokens > 0 {
		req.Config.MinFragmentTokens = fc.Detection.MinFragmentTokens
	}
	if fc.Detection.MinFragmentLines > 0 {
		req.Config.MinFragmentLines = fc.Detection.MinFragmentLines
	}
	if fc.Detection.WindowStatements > 0 {
		req.Config.WindowStatements = fc.Detection.WindowStatements
	}
	if fc.Detection.ShingleSize > 0 {
		req.Config.ShingleSize = fc.Detection.ShingleSize
	}
	if fc.Detection.MaxWorkers > 0 {
		req.Config.MaxWorkers = fc.Detection.MaxWorkers
	}
	if fc.Detection.IncludeContent {
		req.Config.IncludeContent = true
	}

	if len(fc.Input.Paths) > 0 {
		req.Paths = fc.Input.Paths
	}
	if fc.Input.Recursive != nil {
		req.Recursive = *fc.Input.Recursive
	}
	if len(fc.Input.IncludePatterns) > 0 {
		req.IncludePatterns = fc.Input.IncludePatterns
	}
	if len(fc.Input.ExcludePatterns) > 0 {
		req.ExcludePatterns = fc.Input.ExcludePatterns
	}

	if fc.Output.Format != "" {
		req.OutputFormat = domain.OutputFormat(fc.Output.Format)
	}
	if fc.Output.ShowDetails != nil {
		req.ShowDetails = *fc.Output.ShowDetails
	}
}
