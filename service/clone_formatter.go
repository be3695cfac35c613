package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dupscan/dupscan/domain"
)

// CloneOutputFormatter implements the domain.CloneOutputFormatter interface.
type CloneOutputFormatter struct {
	showDetails bool
}

// NewCloneOutputFormatter creates a new clone output formatter.
func NewCloneOutputFormatter(showDetails bool) *CloneOutputFormatter {
	return &CloneOutputFormatter{showDetails: showDetails}
}

// FormatCloneResponse formats a clone response according to the specified format.
func (f *CloneOutputFormatter) FormatCloneResponse(response *domain.CloneResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatAsText formats the response as human-readable text.
func (f *CloneOutputFormatter) formatAsText(response *domain.CloneResponse, writer io.Writer) error {
	if !response.Success {
		fmt.Fprintf(writer, "Clone detection failed: %s\n", response.Error)
		return nil
	}

	report := response.Report

	fmt.Fprintf(writer, "Clone Detection Results\n")
	fmt.Fprintf(writer, "=======================\n\n")

	if report.Metrics != nil {
		m := report.Metrics
		fmt.Fprintf(writer, "Summary:\n")
		fmt.Fprintf(writer, "  Files analyzed: %d\n", m.FilesAnalyzed)
		if m.FilesSkipped > 0 {
			fmt.Fprintf(writer, "  Files skipped: %d\n", m.FilesSkipped)
		}
		fmt.Fprintf(writer, "  Lines analyzed: %d\n", m.LinesAnalyzed)
		fmt.Fprintf(writer, "  Fragments analyzed: %d\n", m.FragmentsAnalyzed)
		fmt.Fprintf(writer, "  Clone classes found: %d\n", m.TotalCloneClasses)
		fmt.Fprintf(writer, "  Duplication: %.1f%% (%d lines)\n", m.DuplicationPercent, m.ClonedLines)
		fmt.Fprintf(writer, "  Analysis duration: %dms\n\n", response.Duration)

		if len(m.ClassesByType) > 0 {
			fmt.Fprintf(writer, "Clone Types:\n")
			types := make([]string, 0, len(m.ClassesByType))
			for cloneType := range m.ClassesByType {
				types = append(types, cloneType)
			}
			sort.Strings(types)
			for _, cloneType := range types {
				fmt.Fprintf(writer, "  %s: %d classes\n", cloneType, m.ClassesByType[cloneType])
			}
			fmt.Fprintf(writer, "\n")
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(writer, "Warnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(writer, "  %s\n", warning.String())
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Classes) == 0 {
		fmt.Fprintf(writer, "No clones detected.\n")
		return nil
	}

	fmt.Fprintf(writer, "Clone Classes:\n")
	fmt.Fprintf(writer, "==============\n\n")

	for _, class := range report.Classes {
		fmt.Fprintf(writer, "Class %d (%s, %d members, similarity: %.3f):\n",
			class.ID, class.Type.String(), len(class.Members), class.Similarity)

		for i, member := range class.Members {
			fmt.Fprintf(writer, "  %d. %s (%d lines, %d tokens)\n",
				i+1, member.Location.String(), member.LineCount, member.TokenCount)

			if f.showDetails && member.Content != "" {
				lines := strings.Split(member.Content, "\n")
				for j, line := range lines {
					if j >= 5 {
						fmt.Fprintf(writer, "     ...\n")
						break
					}
					fmt.Fprintf(writer, "     %s\n", line)
				}
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

// formatAsCSV writes one row per clone class member.
func (f *CloneOutputFormatter) formatAsCSV(response *domain.CloneResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{
		"class_id", "clone_type", "similarity",
		"file", "start_line", "end_line", "tokens", "lines",
	}
	if err := csvWriter.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, class := range response.Report.Classes {
		for _, member := range class.Members {
			record := []string{
				fmt.Sprintf("%d", class.ID),
				class.Type.String(),
				fmt.Sprintf("%.6f", class.Similarity),
				member.Location.FilePath,
				fmt.Sprintf("%d", member.Location.StartLine),
				fmt.Sprintf("%d", member.Location.EndLine),
				fmt.Sprintf("%d", member.TokenCount),
				fmt.Sprintf("%d", member.LineCount),
			}
			if err := csvWriter.Write(record); err != nil {
				return domain.NewOutputError("failed to write CSV record", err)
			}
		}
	}

	return nil
}
