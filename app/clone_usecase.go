// Package app wires the use case layer: request validation,
// configuration merging and the detect-format-write flow.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dupscan/dupscan/domain"
)

// CloneUseCase orchestrates clone detection operations.
type CloneUseCase struct {
	service      domain.CloneService
	fileReader   domain.FileReader
	formatter    domain.CloneOutputFormatter
	configLoader domain.CloneConfigurationLoader
	writer       domain.ReportWriter
}

// NewCloneUseCase creates a new clone use case with the given dependencies.
func NewCloneUseCase(
	service domain.CloneService,
	fileReader domain.FileReader,
	formatter domain.CloneOutputFormatter,
	configLoader domain.CloneConfigurationLoader,
	writer domain.ReportWriter,
) *CloneUseCase {
	return &CloneUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		writer:       writer,
	}
}

// Execute runs the clone detection use case end to end: load and merge
// configuration, detect, format and write the report.
func (uc *CloneUseCase) Execute(ctx context.Context, req domain.CloneRequest) error {
	configReq, err := uc.configLoader.LoadCloneConfig(req.ConfigPath)
	if err != nil {
		return err
	}
	req = uc.mergeConfiguration(*configReq, req)

	if err := req.Validate(); err != nil {
		return err
	}

	response, err := uc.service.DetectClones(ctx, &req)
	if err != nil {
		return err
	}

	return uc.output(response, &req)
}

// ExecuteWithFiles runs clone detection on an explicit file list.
func (uc *CloneUseCase) ExecuteWithFiles(ctx context.Context, filePaths []string, req domain.CloneRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if len(filePaths) == 0 {
		return domain.NewInvalidInputError("no files provided", nil)
	}

	response, err := uc.service.DetectClonesInFiles(ctx, filePaths, &req)
	if err != nil {
		return err
	}

	return uc.output(response, &req)
}

// SaveConfiguration writes the request's settings to a config file.
func (uc *CloneUseCase) SaveConfiguration(req domain.CloneRequest, configPath string) error {
	return uc.configLoader.SaveCloneConfig(&req, configPath)
}

func (uc *CloneUseCase) output(response *domain.CloneResponse, req *domain.CloneRequest) error {
	if !req.HasValidOutputWriter() && req.OutputPath == "" {
		return domain.NewOutputError("no output writer or path specified", nil)
	}

	return uc.writer.Write(req.OutputWriter, req.OutputPath, func(w io.Writer) error {
		return uc.formatter.FormatCloneResponse(response, req.OutputFormat, w)
	})
}

// mergeConfiguration merges the configuration file request with the
// CLI request. CLI parameters take precedence over file values when
// they differ from the defaults.
func (uc *CloneUseCase) mergeConfiguration(configReq, requestReq domain.CloneRequest) domain.CloneRequest {
	merged := configReq
	defaultReq := domain.DefaultCloneRequest()

	if len(requestReq.Paths) > 0 {
		merged.Paths = requestReq.Paths
	}
	if len(requestReq.IncludePatterns) > 0 {
		merged.IncludePatterns = requestReq.IncludePatterns
	}
	if len(requestReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = requestReq.ExcludePatterns
	}

	// Boolean flags come straight from the command line.
	merged.Recursive = requestReq.Recursive
	merged.ShowDetails = requestReq.ShowDetails
	merged.NoProgress = requestReq.NoProgress

	if requestReq.Config != nil {
		if merged.Config == nil {
			merged.Config = domain.DefaultDetectionConfig()
		}
		mergeDetectionConfig(merged.Config, requestReq.Config, defaultReq.Config)
	}

	// Output settings always come from the command line.
	merged.OutputFormat = requestReq.OutputFormat
	merged.OutputWriter = requestReq.OutputWriter
	merged.OutputPath = requestReq.OutputPath
	merged.ConfigPath = requestReq.ConfigPath

	return merged
}

func mergeDetectionConfig(dst, src, defaults *domain.DetectionConfig) {
	if src.Threshold != defaults.Threshold {
		dst.Threshold = src.Threshold
	}
	if src.Sensitivity != defaults.Sensitivity {
		dst.Sensitivity = src.Sensitivity
	}
	if src.MinFragmentTokens != defaults.MinFragmentTokens {
		dst.MinFragmentTokens = src.MinFragmentTokens
	}
	if src.MinFragmentLines != defaults.MinFragmentLines {
		dst.MinFragmentLines = src.MinFragmentLines
	}
	if src.WindowStatements != defaults.WindowStatements {
		dst.WindowStatements = src.WindowStatements
	}
	if src.ShingleSize != defaults.ShingleSize {
		dst.ShingleSize = src.ShingleSize
	}
	if src.MaxWorkers != defaults.MaxWorkers {
		dst.MaxWorkers = src.MaxWorkers
	}
	if src.IncludeContent != defaults.IncludeContent {
		dst.IncludeContent = src.IncludeContent
	}
}

// CloneUseCaseBuilder helps build CloneUseCase with dependencies.
type CloneUseCaseBuilder struct {
	service      domain.CloneService
	fileReader   domain.FileReader
	formatter    domain.CloneOutputFormatter
	configLoader domain.CloneConfigurationLoader
	writer       domain.ReportWriter
}

// NewCloneUseCaseBuilder creates a new builder for CloneUseCase.
func NewCloneUseCaseBuilder() *CloneUseCaseBuilder {
	return &CloneUseCaseBuilder{}
}

// WithService sets the clone service.
func (b *CloneUseCaseBuilder) WithService(service domain.CloneService) *CloneUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader.
func (b *CloneUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *CloneUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter.
func (b *CloneUseCaseBuilder) WithFormatter(formatter domain.CloneOutputFormatter) *CloneUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader.
func (b *CloneUseCaseBuilder) WithConfigLoader(configLoader domain.CloneConfigurationLoader) *CloneUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithReportWriter sets the report writer.
func (b *CloneUseCaseBuilder) WithReportWriter(writer domain.ReportWriter) *CloneUseCaseBuilder {
	b.writer = writer
	return b
}

// Build creates the CloneUseCase with the configured dependencies.
func (b *CloneUseCaseBuilder) Build() (*CloneUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("clone service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.configLoader == nil {
		return nil, fmt.Errorf("configuration loader is required")
	}
	if b.writer == nil {
		return nil, fmt.Errorf("report writer is required")
	}

	return NewCloneUseCase(b.service, b.fileReader, b.formatter, b.configLoader, b.writer), nil
}
