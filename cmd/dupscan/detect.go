package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dupscan/dupscan/app"
	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/config"
	"github.com/dupscan/dupscan/internal/constants"
	"github.com/dupscan/dupscan/service"
)

// DetectCommand handles the clone detection CLI command.
type DetectCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Detection configuration
	threshold         float64
	sensitivity       int
	minFragmentTokens int
	minFragmentLines  int
	windowStatements  int
	shingleSize       int
	maxWorkers        int

	// Output options
	format      string
	outputPath  string
	showDetails bool
	showContent bool
	noProgress  bool
}

// NewDetectCommand creates a new detect command with defaults.
func NewDetectCommand() *DetectCommand {
	defaults := domain.DefaultDetectionConfig()
	return &DetectCommand{
		recursive:         true,
		threshold:         defaults.Threshold,
		sensitivity:       defaults.Sensitivity,
		minFragmentTokens: defaults.MinFragmentTokens,
		minFragmentLines:  defaults.MinFragmentLines,
		windowStatements:  defaults.WindowStatements,
		shingleSize:       defaults.ShingleSize,
		maxWorkers:        defaults.MaxWorkers,
		format:            string(domain.OutputFormatText),
	}
}

// CreateCobraCommand creates the Cobra command for clone detection.
func (c *DetectCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [paths...]",
		Short: "Detect code clones in Python and Java sources",
		Long: `Detect duplicated and near-duplicated code fragments.

Fragments are whole functions plus sliding windows of consecutive
statements. Detected clones are grouped into classes:

- Type-1: Identical code (except whitespace and comments)
- Type-2: Identical structure with consistently renamed identifiers
- Type-3: Near-miss clones above the similarity threshold

Examples:
  # Detect clones in the current directory
  dupscan detect .

  # Lower the Type-3 threshold to 60%
  dupscan detect --threshold 60 src/

  # Lower the sensitivity to surface weaker near-miss clones
  dupscan detect --sensitivity 5 src/

  # Write a CSV report to a file
  dupscan detect --format csv -o clones.csv src/`,
		RunE: c.runDetection,
	}

	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively analyze directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"File patterns to exclude")

	cmd.Flags().Float64VarP(&c.threshold, "threshold", "t", c.threshold,
		fmt.Sprintf("Minimum similarity percentage for Type-3 clones (0-100; Type-1/2/3 presets are %.0f/%.0f/%.0f)",
			constants.Type1ThresholdPercent, constants.Type2ThresholdPercent, constants.Type3ThresholdPercent))
	cmd.Flags().IntVarP(&c.sensitivity, "sensitivity", "s", c.sensitivity,
		"Detection sensitivity 1-10 (lower relaxes thresholds and reports more clones)")
	cmd.Flags().IntVar(&c.minFragmentTokens, "min-tokens", c.minFragmentTokens,
		"Minimum token count for clone candidates")
	cmd.Flags().IntVar(&c.minFragmentLines, "min-lines", c.minFragmentLines,
		"Minimum line count for clone candidates")
	cmd.Flags().IntVar(&c.windowStatements, "window", c.windowStatements,
		"Statements per sliding window fragment")
	cmd.Flags().IntVar(&c.shingleSize, "shingle-size", c.shingleSize,
		"Tokens per shingle for near-miss candidate search")
	cmd.Flags().IntVar(&c.maxWorkers, "workers", c.maxWorkers,
		"Maximum worker goroutines (0 = number of CPUs)")

	cmd.Flags().StringVarP(&c.format, "format", "f", c.format,
		"Output format: text, json, yaml, csv")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", c.outputPath,
		"Write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&c.showDetails, "details", "d", c.showDetails,
		"Show detailed clone information")
	cmd.Flags().BoolVar(&c.showContent, "show-content", c.showContent,
		"Include fragment source text in the report")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", c.noProgress,
		"Disable progress output")

	_ = cmd.Flags().MarkHidden("window")
	_ = cmd.Flags().MarkHidden("shingle-size")

	return cmd
}

// runDetection executes the detect command.
func (c *DetectCommand) runDetection(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request := c.createCloneRequest(cmd, args)

	useCase, err := c.createCloneUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to create clone use case: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := useCase.Execute(ctx, *request); err != nil {
		return fmt.Errorf("clone detection failed: %w", err)
	}
	return nil
}

// createCloneRequest creates a clone request from command line flags.
func (c *DetectCommand) createCloneRequest(cmd *cobra.Command, paths []string) *domain.CloneRequest {
	request := domain.DefaultCloneRequest()
	request.Paths = paths
	request.Recursive = c.recursive
	request.IncludePatterns = c.includePatterns
	request.ExcludePatterns = c.excludePatterns
	request.OutputFormat = domain.OutputFormat(c.format)
	request.OutputWriter = cmd.OutOrStdout()
	request.OutputPath = c.outputPath
	request.ShowDetails = c.showDetails
	request.NoProgress = c.noProgress
	request.ConfigPath = c.configFile

	request.Config.Threshold = c.threshold
	request.Config.Sensitivity = c.sensitivity
	request.Config.MinFragmentTokens = c.minFragmentTokens
	request.Config.MinFragmentLines = c.minFragmentLines
	request.Config.WindowStatements = c.windowStatements
	request.Config.ShingleSize = c.shingleSize
	request.Config.MaxWorkers = c.maxWorkers
	request.Config.IncludeContent = c.showContent || c.showDetails

	return request
}

// createCloneUseCase creates a clone use case with all dependencies.
func (c *DetectCommand) createCloneUseCase(cmd *cobra.Command) (*app.CloneUseCase, error) {
	cloneService := service.NewCloneService()
	cloneService.SetProgressReporter(service.NewProgressManager(c.noProgress))

	return app.NewCloneUseCaseBuilder().
		WithService(cloneService).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewCloneOutputFormatter(c.showDetails)).
		WithConfigLoader(config.NewLoader()).
		WithReportWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// NewDetectCmd creates and returns the detect cobra command.
func NewDetectCmd() *cobra.Command {
	return NewDetectCommand().CreateCobraCommand()
}
