package analyzer

import (
	"sort"

	"github.com/dupscan/dupscan/domain"
)

// UnionFind is a disjoint-set forest over dense integer ids with path
// compression and union by rank. Merges are allocation-free, which
// keeps the one sequential pipeline step cheap at scale.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind creates n singleton sets.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]int, n),
	}
}

// Find returns the representative of x's set.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing a and b.
func (uf *UnionFind) Union(a, b int) {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}

// RawClass is a clone class before report conversion: its surviving
// members, the strongest clone type among its internal edges, and the
// minimum pairwise similarity observed (a class is only as similar as
// its least similar pair).
type RawClass struct {
	Members    []*FragmentEntry
	Type       domain.CloneType
	Similarity float64
}

// BuildClasses merges qualifying pairs into disjoint clone classes via
// transitive closure. Overlapping members are deduplicated by
// preferring the enclosing fragment; classes reduced below two members
// are dropped. Output ordering is deterministic.
func BuildClasses(entries []*FragmentEntry, pairs []*PairResult) []*RawClass {
	if len(pairs) == 0 {
		return nil
	}

	uf := NewUnionFind(len(entries))
	// Fragments untouched by any edge stay singletons and never become
	// class members.
	touched := make(map[int]bool, len(pairs)*2)
	for _, pair := range pairs {
		uf.Union(pair.A, pair.B)
		touched[pair.A] = true
		touched[pair.B] = true
	}

	memberSets := make(map[int][]*FragmentEntry)
	for _, entry := range entries {
		if touched[entry.Fragment.ID] {
			root := uf.Find(entry.Fragment.ID)
			memberSets[root] = append(memberSets[root], entry)
		}
	}

	// Dedup first so a class is described only by edges between
	// fragments it actually reports.
	survivorSets := make(map[int][]*FragmentEntry, len(memberSets))
	surviving := make(map[int]bool, len(entries))
	for root, members := range memberSets {
		survivors := dedupeContained(members)
		if len(survivors) < 2 {
			continue
		}
		survivorSets[root] = survivors
		for _, entry := range survivors {
			surviving[entry.Fragment.ID] = true
		}
	}

	// Aggregate over surviving edges; keep whole-component aggregates
	// as a fallback for survivors linked only through dropped members.
	classTypes := make(map[int]domain.CloneType)
	classSims := make(map[int]float64)
	fallbackTypes := make(map[int]domain.CloneType)
	fallbackSims := make(map[int]float64)
	for _, pair := range pairs {
		root := uf.Find(pair.A)
		mergeEdge(fallbackTypes, fallbackSims, root, pair)
		if surviving[pair.A] && surviving[pair.B] {
			mergeEdge(classTypes, classSims, root, pair)
		}
	}

	var classes []*RawClass
	for root, survivors := range survivorSets {
		cloneType, ok := classTypes[root]
		similarity := classSims[root]
		if !ok {
			cloneType = fallbackTypes[root]
			similarity = fallbackSims[root]
		}
		sortMembers(survivors)
		classes = append(classes, &RawClass{
			Members:    survivors,
			Type:       cloneType,
			Similarity: similarity,
		})
	}

	sort.Slice(classes, func(i, j int) bool {
		return memberLess(classes[i].Members[0], classes[j].Members[0])
	})
	return classes
}

// mergeEdge folds one edge into a class aggregate: the strongest clone
// type wins and the minimum pairwise similarity is kept.
func mergeEdge(types map[int]domain.CloneType, sims map[int]float64, root int, pair *PairResult) {
	if existing, ok := types[root]; !ok || pair.Type.StrongerThan(existing) {
		types[root] = pair.Type
	}
	if existing, ok := sims[root]; !ok || pair.Similarity < existing {
		sims[root] = pair.Similarity
	}
}

// dedupeContained drops members whose span is fully contained in
// another member of the same class and file, preferring the larger
// enclosing fragment.
func dedupeContained(members []*FragmentEntry) []*FragmentEntry {
	// Larger fragments first so containers are kept before containees.
	ordered := make([]*FragmentEntry, len(members))
	copy(ordered, members)
	sort.Slice(ordered, func(i, j int) bool {
		li := len(ordered[i].Fragment.Tokens)
		lj := len(ordered[j].Fragment.Tokens)
		if li != lj {
			return li > lj
		}
		return memberLess(ordered[i], ordered[j])
	})

	var survivors []*FragmentEntry
	for _, candidate := range ordered {
		contained := false
		for _, kept := range survivors {
			if kept.Fragment.Unit.Path == candidate.Fragment.Unit.Path &&
				kept.Fragment.Span.Contains(candidate.Fragment.Span) {
				contained = true
				break
			}
		}
		if !contained {
			survivors = append(survivors, candidate)
		}
	}
	return survivors
}

func sortMembers(members []*FragmentEntry) {
	sort.Slice(members, func(i, j int) bool {
		return memberLess(members[i], members[j])
	})
}

func memberLess(a, b *FragmentEntry) bool {
	fa, fb := a.Fragment, b.Fragment
	if fa.Unit.Path != fb.Unit.Path {
		return fa.Unit.Path < fb.Unit.Path
	}
	if fa.Span.StartLine != fb.Span.StartLine {
		return fa.Span.StartLine < fb.Span.StartLine
	}
	if fa.Span.EndLine != fb.Span.EndLine {
		return fa.Span.EndLine > fb.Span.EndLine
	}
	return fa.ID < fb.ID
}
