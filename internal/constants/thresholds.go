// Package constants defines the named detection presets and the tuning
// defaults of the clone detection pipeline.
package constants

// Named similarity presets, as percentages. These are the classic
// clone-type boundaries: identical, renamed, near-miss.
const (
	// Type1ThresholdPercent is the boundary for Type-1 clones: identical
	// code fragments except for whitespace, layout and comments.
	Type1ThresholdPercent = 100.0

	// Type2ThresholdPercent is the boundary for Type-2 clones:
	// syntactically identical fragments under consistent identifier
	// renaming.
	Type2ThresholdPercent = 90.0

	// Type3ThresholdPercent is the boundary for Type-3 clones: copied
	// fragments with further modifications such as changed, added or
	// removed statements.
	Type3ThresholdPercent = 70.0
)

// DefaultSensitivity is the default detection sensitivity dial (1-10).
// Thresholds are scaled by sensitivity/10, so 10 leaves the presets
// unchanged.
const DefaultSensitivity = 10

// Fragment extraction defaults.
const (
	// DefaultMinFragmentTokens filters out fragments with fewer
	// normalized tokens, suppressing trivial one-liner matches.
	DefaultMinFragmentTokens = 20

	// DefaultMinFragmentLines filters out fragments spanning fewer
	// source lines.
	DefaultMinFragmentLines = 3

	// DefaultWindowStatements is the number of consecutive statements
	// per sliding window fragment emitted inside blocks.
	DefaultWindowStatements = 5
)

// DefaultShingleSize is the number of tokens per shingle used for
// near-miss candidate bucketing in the fingerprint index.
const DefaultShingleSize = 8

// CloneTypeDescriptions provides detailed descriptions for each clone type
var CloneTypeDescriptions = map[int]string{
	1: "Identical code fragments except for whitespace, layout and comments",
	2: "Syntactically identical except for consistently renamed identifiers",
	3: "Similar fragments with small modifications, within the configured threshold",
}
