package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/parser"
)

const sumByPrice = `def compute_total(items):
    total = 0
    for item in items:
        total = total + item.price
        total = total - item.discount
    return total
`

// Same structure as sumByPrice with every identifier renamed
// consistently.
const sumByPriceRenamed = `def sum_values(entries):
    acc = 0
    for entry in entries:
        acc = acc + entry.price
        acc = acc - entry.discount
    return acc
`

// Near-miss variant: one statement replaced, identifiers renamed
// inconsistently.
const sumByPriceNearMiss = `def accumulate(entries):
    subtotal = 0
    for entry in entries:
        subtotal = subtotal + entry.price
        subtotal = subtotal * entry.weight
    return subtotal
`

const unrelatedFunction = `def render_header(writer, title):
    writer.emit("<!DOCTYPE html>")
    writer.emit("<html lang='en'>")
    writer.open_tag("head")
    writer.write_title(title)
    writer.close_tag("head")
`

func testDetector(t *testing.T, config *domain.DetectionConfig) *Detector {
	t.Helper()
	detector, err := NewDetector(parser.NewRegistry(), config)
	require.NoError(t, err)
	return detector
}

func testDetectionConfig() *domain.DetectionConfig {
	config := domain.DefaultDetectionConfig()
	config.MinFragmentTokens = 10
	config.MinFragmentLines = 3
	config.MaxWorkers = 2
	return config
}

func pythonUnits(sources map[string]string) []*domain.SourceUnit {
	units := make([]*domain.SourceUnit, 0, len(sources))
	for path, source := range sources {
		lang, _ := domain.LanguageForPath(path)
		units = append(units, domain.NewSourceUnit(path, lang, []byte(source)))
	}
	return units
}

func TestNewDetector_Validation(t *testing.T) {
	t.Run("nil registry", func(t *testing.T) {
		_, err := NewDetector(nil, domain.DefaultDetectionConfig())
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewDetector(parser.NewRegistry(), nil)
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalidConfig, domain.ErrorCode(err))
	})

	t.Run("invalid config", func(t *testing.T) {
		config := domain.DefaultDetectionConfig()
		config.Sensitivity = 0
		_, err := NewDetector(parser.NewRegistry(), config)
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalidConfig, domain.ErrorCode(err))
	})
}

func TestDetect_IdenticalCopies(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{
		"billing.py": sumByPrice,
		"orders.py":  sumByPrice,
		"web.py":     unrelatedFunction,
	})

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err)

	require.Len(t, report.Classes, 1)
	class := report.Classes[0]
	assert.Equal(t, domain.Type1Clone, class.Type)
	assert.Equal(t, 1.0, class.Similarity)
	require.Len(t, class.Members, 2)
	assert.Equal(t, "billing.py", class.Members[0].Location.FilePath)
	assert.Equal(t, "orders.py", class.Members[1].Location.FilePath)
	assert.Equal(t, 3, report.Metrics.FilesAnalyzed)
	assert.Empty(t, report.Warnings)
}

func TestDetect_ConsistentRenaming(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{
		"billing.py": sumByPrice,
		"totals.py":  sumByPriceRenamed,
	})

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err)

	require.Len(t, report.Classes, 1)
	assert.Equal(t, domain.Type2Clone, report.Classes[0].Type,
		"Consistently renamed copies classify as Type-2")
	assert.Equal(t, 1.0, report.Classes[0].Similarity)
}

func TestDetect_NearMiss(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{
		"billing.py": sumByPrice,
		"weights.py": sumByPriceNearMiss,
	})

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err)

	require.Len(t, report.Classes, 1)
	class := report.Classes[0]
	assert.Equal(t, domain.Type3Clone, class.Type)
	assert.Greater(t, class.Similarity, 0.7)
	assert.Less(t, class.Similarity, 1.0)
}

func TestDetect_TransitiveClass(t *testing.T) {
	// The renamed copy matches both the original (Type-2) and the
	// near-miss variant (Type-3): all three belong to one class whose
	// type is the strongest edge.
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{
		"billing.py": sumByPrice,
		"totals.py":  sumByPriceRenamed,
		"weights.py": sumByPriceNearMiss,
	})

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err)

	require.Len(t, report.Classes, 1, "Transitive closure merges all variants")
	class := report.Classes[0]
	assert.Len(t, class.Members, 3)
	assert.Equal(t, domain.Type2Clone, class.Type)
	assert.Less(t, class.Similarity, 1.0, "Class similarity is its weakest edge")
}

func TestDetect_ParseErrorBecomesWarning(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{
		"billing.py": sumByPrice,
		"orders.py":  sumByPrice,
		"broken.py":  "def broken(:\n",
	})

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err, "A file that fails to parse must not abort the run")

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, domain.WarningParseError, report.Warnings[0].Code)
	assert.Equal(t, "broken.py", report.Warnings[0].FilePath)
	assert.Greater(t, report.Warnings[0].Line, 0)

	assert.Equal(t, 2, report.Metrics.FilesAnalyzed)
	assert.Equal(t, 1, report.Metrics.FilesSkipped)
	require.Len(t, report.Classes, 1, "Remaining files are still analyzed")
}

func TestDetect_UnsupportedLanguageBecomesWarning(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{
		"billing.py": sumByPrice,
		"orders.py":  sumByPrice,
	})
	units = append(units, domain.NewSourceUnit("notes.txt", domain.Language(""), []byte("plain text")))

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, domain.WarningUnsupportedLanguage, report.Warnings[0].Code)
	assert.Equal(t, "notes.txt", report.Warnings[0].FilePath)
}

func TestDetect_CrossLanguage(t *testing.T) {
	javaSource := `class Calc {
    int add(int first, int second) {
        int result = first + second;
        result = result * 2;
        return result;
    }
}
`
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{"calc.py": sumByPrice})
	units = append(units, domain.NewSourceUnit("Calc.java", domain.LanguageJava, []byte(javaSource)))

	report, err := detector.Detect(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Metrics.FilesAnalyzed)
	assert.Empty(t, report.Warnings)
}

func TestDetect_Deterministic(t *testing.T) {
	config := testDetectionConfig()
	sources := map[string]string{
		"billing.py": sumByPrice,
		"totals.py":  sumByPriceRenamed,
		"weights.py": sumByPriceNearMiss,
		"web.py":     unrelatedFunction,
		"broken.py":  "def broken(:\n",
	}

	first, err := testDetector(t, config).Detect(context.Background(), pythonUnits(sources))
	require.NoError(t, err)

	// Reversed unit order and a different worker count must not change
	// the report.
	config2 := testDetectionConfig()
	config2.MaxWorkers = 1
	units := pythonUnits(sources)
	for i, j := 0, len(units)-1; i < j; i, j = i+1, j-1 {
		units[i], units[j] = units[j], units[i]
	}
	second, err := testDetector(t, config2).Detect(context.Background(), units)
	require.NoError(t, err)

	assert.Equal(t, first, second, "Identical inputs must produce identical reports")
}

func TestDetect_SensitivityScalesThreshold(t *testing.T) {
	sources := map[string]string{
		"billing.py": sumByPrice,
		"weights.py": sumByPriceNearMiss,
	}

	strict := testDetectionConfig()
	strict.Threshold = 98

	report, err := testDetector(t, strict).Detect(context.Background(), pythonUnits(sources))
	require.NoError(t, err)
	assert.Empty(t, report.Classes, "A 98% threshold rejects the near-miss pair")

	relaxed := testDetectionConfig()
	relaxed.Threshold = 98
	relaxed.Sensitivity = 8

	report, err = testDetector(t, relaxed).Detect(context.Background(), pythonUnits(sources))
	require.NoError(t, err)
	assert.NotEmpty(t, report.Classes, "Lower sensitivity scales the cutoff down")
}

func TestDetect_Cancellation(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())
	units := pythonUnits(map[string]string{"billing.py": sumByPrice})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := detector.Detect(ctx, units)
	require.Error(t, err)
	assert.Nil(t, report, "A cancelled run returns no partial report")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetect_NoInput(t *testing.T) {
	detector := testDetector(t, testDetectionConfig())

	report, err := detector.Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Classes)
	assert.Equal(t, 0, report.Metrics.FilesAnalyzed)
}
