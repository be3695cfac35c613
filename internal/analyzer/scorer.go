package analyzer

import (
	"fmt"

	"github.com/dupscan/dupscan/domain"
)

// FragmentEntry pairs a fragment with its precomputed normalized forms.
type FragmentEntry struct {
	Fragment *Fragment
	Forms    *FragmentForms
}

// PairResult is a scored relationship between two fragments, identified
// by their dense ids with A < B.
type PairResult struct {
	A          int
	B          int
	Similarity float64
	Type       domain.CloneType
}

// String returns string representation of PairResult
func (p *PairResult) String() string {
	return fmt.Sprintf("%s pair %d<->%d (similarity: %.3f)", p.Type, p.A, p.B, p.Similarity)
}

// Scorer classifies candidate pairs by clone type. Type-1 and Type-2
// are exact fingerprint matches at their abstraction levels; Type-3 is
// a token-sequence similarity over the abstract form against the
// configured threshold.
type Scorer struct {
	threshold float64
}

// NewScorer creates a scorer with the given effective Type-3 threshold.
func NewScorer(threshold float64) *Scorer {
	return &Scorer{threshold: threshold}
}

// Score returns the classification for a candidate pair, or nil when
// the pair is excluded or falls below the minimum threshold.
//
// Self-pairs and overlapping fragments from the same file (a function
// and its own statement windows) are excluded so nesting never inflates
// results.
func (s *Scorer) Score(a, b *FragmentEntry) *PairResult {
	if a.Fragment.ID == b.Fragment.ID {
		return nil
	}
	if a.Fragment.Unit.Path == b.Fragment.Unit.Path && a.Fragment.Span.Overlaps(b.Fragment.Span) {
		return nil
	}

	lo, hi := a, b
	if lo.Fragment.ID > hi.Fragment.ID {
		lo, hi = hi, lo
	}

	// A pair matching both exact rules reports once as Type-1: the more
	// specific classification wins.
	if a.Forms.Exact.Fingerprint == b.Forms.Exact.Fingerprint {
		return &PairResult{A: lo.Fragment.ID, B: hi.Fragment.ID, Similarity: 1.0, Type: domain.Type1Clone}
	}
	if a.Forms.Renamed.Fingerprint == b.Forms.Renamed.Fingerprint {
		return &PairResult{A: lo.Fragment.ID, B: hi.Fragment.ID, Similarity: 1.0, Type: domain.Type2Clone}
	}

	left := a.Forms.Abstract.Tokens
	right := b.Forms.Abstract.Tokens
	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	// The LCS ratio is bounded by min/max length; skip the quadratic
	// computation when the size gap alone rules the pair out.
	shorter, longer := len(left), len(right)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < s.threshold {
		return nil
	}

	similarity := lcsSimilarity(left, right)
	if similarity < s.threshold {
		return nil
	}
	return &PairResult{A: lo.Fragment.ID, B: hi.Fragment.ID, Similarity: similarity, Type: domain.Type3Clone}
}

// lcsSimilarity computes the longest common subsequence length of two
// token sequences normalized by the longer length, yielding a score in
// [0,1]. Two-row dynamic programming keeps memory linear.
func lcsSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return float64(prev[len(b)]) / float64(longest)
}
