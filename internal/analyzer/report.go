package analyzer

import (
	"sort"
	"strings"

	"github.com/dupscan/dupscan/domain"
)

// RunTotals carries the per-run counters the report builder needs.
type RunTotals struct {
	FilesAnalyzed int
	FilesSkipped  int
	LinesAnalyzed int
	Fragments     int
}

// BuildReport assembles the externally consumed report structure from
// the clustered classes. Pure transformation: no detection logic, no
// side effects.
func BuildReport(classes []*RawClass, totals RunTotals, warnings []*domain.Warning, includeContent bool) *domain.CloneReport {
	report := &domain.CloneReport{
		Classes: make([]*domain.CloneClass, 0, len(classes)),
		Metrics: &domain.CloneMetrics{
			FilesAnalyzed:     totals.FilesAnalyzed,
			FilesSkipped:      totals.FilesSkipped,
			LinesAnalyzed:     totals.LinesAnalyzed,
			FragmentsAnalyzed: totals.Fragments,
			ClassesByType:     make(map[string]int),
		},
	}

	clonedLines := 0
	for i, raw := range classes {
		class := &domain.CloneClass{
			ID:         i + 1,
			Type:       raw.Type,
			Similarity: raw.Similarity,
			Members:    make([]*domain.CloneMember, 0, len(raw.Members)),
		}
		for _, entry := range raw.Members {
			member := &domain.CloneMember{
				Location:   entry.Fragment.Location(),
				TokenCount: len(entry.Fragment.Tokens),
				LineCount:  entry.Fragment.LineCount,
			}
			if includeContent {
				member.Content = fragmentContent(entry.Fragment)
			}
			class.Members = append(class.Members, member)
		}
		report.Classes = append(report.Classes, class)
		report.Metrics.ClassesByType[raw.Type.String()]++

		// Each class's duplicated lines count once, regardless of how
		// many members repeat them.
		clonedLines += largestMemberLines(raw.Members)
	}

	report.Metrics.TotalCloneClasses = len(report.Classes)
	report.Metrics.ClonedLines = clonedLines
	report.Metrics.DuplicationPercent = duplicationPercent(clonedLines, totals.LinesAnalyzed)

	report.Warnings = sortedWarnings(warnings)
	return report
}

func largestMemberLines(members []*FragmentEntry) int {
	largest := 0
	for _, entry := range members {
		if entry.Fragment.LineCount > largest {
			largest = entry.Fragment.LineCount
		}
	}
	return largest
}

func duplicationPercent(clonedLines, totalLines int) float64 {
	if clonedLines == 0 || totalLines == 0 {
		return 0
	}
	percent := float64(clonedLines) / float64(totalLines) * 100.0
	if percent > 100 {
		percent = 100
	}
	return percent
}

// fragmentContent reconstructs the source text of a fragment from its
// unit's line table.
func fragmentContent(frag *Fragment) string {
	var lines []string
	for line := frag.Span.StartLine; line <= frag.Span.EndLine; line++ {
		lines = append(lines, frag.Unit.Line(line))
	}
	return strings.Join(lines, "\n")
}

func sortedWarnings(warnings []*domain.Warning) []*domain.Warning {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]*domain.Warning, len(warnings))
	copy(out, warnings)
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Code < out[j].Code
	})
	return out
}
