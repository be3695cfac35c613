package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/parser"
)

func TestBuildReport_Empty(t *testing.T) {
	totals := RunTotals{FilesAnalyzed: 3, LinesAnalyzed: 120}

	report := BuildReport(nil, totals, nil, false)
	require.NotNil(t, report)
	assert.Empty(t, report.Classes)
	assert.Equal(t, 3, report.Metrics.FilesAnalyzed)
	assert.Equal(t, 120, report.Metrics.LinesAnalyzed)
	assert.Equal(t, 0, report.Metrics.TotalCloneClasses)
	assert.Equal(t, 0.0, report.Metrics.DuplicationPercent, "No clones means zero duplication")
	assert.Nil(t, report.Warnings)
}

func TestBuildReport_Metrics(t *testing.T) {
	classes := []*RawClass{
		{
			Type:       domain.Type1Clone,
			Similarity: 1.0,
			Members: []*FragmentEntry{
				entryFor(0, "a.py", 1, 10, identTokens("a", "b")),
				entryFor(1, "b.py", 1, 10, identTokens("a", "b")),
			},
		},
		{
			Type:       domain.Type3Clone,
			Similarity: 0.8,
			Members: []*FragmentEntry{
				entryFor(2, "a.py", 20, 24, identTokens("c", "d")),
				entryFor(3, "b.py", 20, 26, identTokens("c", "d")),
			},
		},
	}
	totals := RunTotals{FilesAnalyzed: 2, LinesAnalyzed: 100, Fragments: 4}

	report := BuildReport(classes, totals, nil, false)

	require.Len(t, report.Classes, 2)
	assert.Equal(t, 1, report.Classes[0].ID, "Class ids are sequential from 1")
	assert.Equal(t, 2, report.Classes[1].ID)
	assert.Equal(t, 2, report.Metrics.TotalCloneClasses)
	assert.Equal(t, map[string]int{"Type-1": 1, "Type-3": 1}, report.Metrics.ClassesByType)

	// 10 lines for the first class + 7 for the second, counted once per class.
	assert.Equal(t, 17, report.Metrics.ClonedLines)
	assert.InDelta(t, 17.0, report.Metrics.DuplicationPercent, 1e-9)
}

func TestBuildReport_DuplicationPercentCapped(t *testing.T) {
	classes := []*RawClass{
		{
			Type:       domain.Type1Clone,
			Similarity: 1.0,
			Members: []*FragmentEntry{
				entryFor(0, "a.py", 1, 50, identTokens("a")),
				entryFor(1, "b.py", 1, 50, identTokens("a")),
			},
		},
		{
			Type:       domain.Type1Clone,
			Similarity: 1.0,
			Members: []*FragmentEntry{
				entryFor(2, "a.py", 1, 60, identTokens("b")),
				entryFor(3, "b.py", 1, 60, identTokens("b")),
			},
		},
	}
	totals := RunTotals{FilesAnalyzed: 2, LinesAnalyzed: 100}

	report := BuildReport(classes, totals, nil, false)
	assert.Equal(t, 110, report.Metrics.ClonedLines)
	assert.Equal(t, 100.0, report.Metrics.DuplicationPercent, "Overlapping classes cap at 100%")
}

func TestBuildReport_IncludeContent(t *testing.T) {
	unit := domain.NewSourceUnit("a.py", domain.LanguagePython, []byte("line one\nline two\nline three\n"))
	frag := &Fragment{
		ID:        0,
		Unit:      unit,
		Span:      parser.Span{StartLine: 1, EndLine: 2},
		Tokens:    identTokens("a", "b"),
		LineCount: 2,
	}
	entry := &FragmentEntry{Fragment: frag, Forms: NormalizeAll(frag)}
	peer := entryFor(1, "b.py", 1, 2, identTokens("a", "b"))

	classes := []*RawClass{{Type: domain.Type1Clone, Similarity: 1.0, Members: []*FragmentEntry{entry, peer}}}

	withContent := BuildReport(classes, RunTotals{LinesAnalyzed: 10}, nil, true)
	assert.Equal(t, "line one\nline two", withContent.Classes[0].Members[0].Content)

	withoutContent := BuildReport(classes, RunTotals{LinesAnalyzed: 10}, nil, false)
	assert.Empty(t, withoutContent.Classes[0].Members[0].Content)
}

func TestBuildReport_WarningsSorted(t *testing.T) {
	warnings := []*domain.Warning{
		{Code: domain.WarningParseError, FilePath: "z.py", Message: "bad"},
		{Code: domain.WarningUnsupportedLanguage, FilePath: "a.rb", Message: "unsupported"},
		{Code: domain.WarningParseError, FilePath: "a.rb", Message: "bad"},
	}

	report := BuildReport(nil, RunTotals{}, warnings, false)
	require.Len(t, report.Warnings, 3)
	assert.Equal(t, "a.rb", report.Warnings[0].FilePath)
	assert.Equal(t, domain.WarningParseError, report.Warnings[0].Code)
	assert.Equal(t, domain.WarningUnsupportedLanguage, report.Warnings[1].Code)
	assert.Equal(t, "z.py", report.Warnings[2].FilePath)
}
