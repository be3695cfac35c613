package analyzer

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/dupscan/dupscan/domain"
)

// FingerprintIndex buckets fragments for fast candidate discovery.
// Exact buckets keyed by full-sequence fingerprints give O(1) Type-1/2
// candidates; shingle buckets over the abstract form bound the Type-3
// candidate set to near-linear size instead of the full cross product.
//
// A run uses the index in two phases: concurrent Add calls, a Seal
// barrier, then concurrent Candidates lookups. Interleaving the phases
// is an internal invariant violation.
type FingerprintIndex struct {
	mu     sync.RWMutex
	sealed bool

	shingleSize int
	exact       map[string][]int
	renamed     map[string][]int
	shingles    map[uint64][]int
}

// NewFingerprintIndex creates an empty index with the given shingle size.
func NewFingerprintIndex(shingleSize int) *FingerprintIndex {
	return &FingerprintIndex{
		shingleSize: shingleSize,
		exact:       make(map[string][]int),
		renamed:     make(map[string][]int),
		shingles:    make(map[uint64][]int),
	}
}

// Add inserts a fragment's forms under its id. Safe for concurrent use
// during the write phase; fails once the index is sealed.
func (idx *FingerprintIndex) Add(id int, forms *FragmentForms) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.sealed {
		return domain.NewInvariantViolationError("fingerprint index insert after seal")
	}

	idx.exact[forms.Exact.Fingerprint] = append(idx.exact[forms.Exact.Fingerprint], id)
	idx.renamed[forms.Renamed.Fingerprint] = append(idx.renamed[forms.Renamed.Fingerprint], id)
	for _, h := range shingleHashes(forms.Abstract.Tokens, idx.shingleSize) {
		idx.shingles[h] = append(idx.shingles[h], id)
	}
	return nil
}

// Seal ends the write phase. Lookups observe a consistent snapshot
// afterwards; further Adds fail.
func (idx *FingerprintIndex) Seal() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.sealed = true

	// Sorted buckets make candidate enumeration deterministic.
	for _, bucket := range idx.exact {
		sort.Ints(bucket)
	}
	for _, bucket := range idx.renamed {
		sort.Ints(bucket)
	}
	for _, bucket := range idx.shingles {
		sort.Ints(bucket)
	}
}

// Size returns the number of exact buckets in the index.
func (idx *FingerprintIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.exact)
}

// Candidates returns the ids sharing a full fingerprint or at least one
// shingle hash with the given forms, sorted, excluding id itself.
// Must only be called after Seal.
func (idx *FingerprintIndex) Candidates(id int, forms *FragmentForms) ([]int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.sealed {
		return nil, domain.NewInvariantViolationError("fingerprint index lookup before seal")
	}

	seen := make(map[int]bool)
	collect := func(bucket []int) {
		for _, other := range bucket {
			if other != id {
				seen[other] = true
			}
		}
	}

	collect(idx.exact[forms.Exact.Fingerprint])
	collect(idx.renamed[forms.Renamed.Fingerprint])
	for _, h := range shingleHashes(forms.Abstract.Tokens, idx.shingleSize) {
		collect(idx.shingles[h])
	}

	candidates := make([]int, 0, len(seen))
	for other := range seen {
		candidates = append(candidates, other)
	}
	sort.Ints(candidates)
	return candidates, nil
}

// shingleHashes hashes every k-gram of the token sequence with FNV-64a.
// Sequences shorter than k produce a single hash of the whole sequence.
func shingleHashes(tokens []string, k int) []uint64 {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) < k {
		k = len(tokens)
	}

	seen := make(map[uint64]bool)
	hashes := make([]uint64, 0, len(tokens)-k+1)
	for start := 0; start+k <= len(tokens); start++ {
		h := fnv.New64a()
		for _, tok := range tokens[start : start+k] {
			h.Write([]byte(tok))
			h.Write([]byte{0x1f})
		}
		sum := h.Sum64()
		if !seen[sum] {
			seen[sum] = true
			hashes = append(hashes, sum)
		}
	}
	return hashes
}
