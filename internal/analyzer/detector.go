package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/parser"
)

// scoreBatchSize is the number of fragments scored per worker batch;
// cancellation is checked between batches.
const scoreBatchSize = 256

// Detector runs the full clone detection pipeline over a set of source
// units: parse, extract, normalize, index, score, cluster, report.
// A Detector is safe for concurrent runs; all state is per-run.
type Detector struct {
	registry *parser.Registry
	config   *domain.DetectionConfig
}

// NewDetector creates a detector, failing fast on invalid configuration
// before any processing begins.
func NewDetector(registry *parser.Registry, config *domain.DetectionConfig) (*Detector, error) {
	if registry == nil {
		return nil, domain.NewInvalidInputError("frontend registry cannot be nil", nil)
	}
	if config == nil {
		return nil, domain.NewInvalidConfigError("detection config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Detector{registry: registry, config: config}, nil
}

// unitResult is the worker-local output of processing one source unit.
// Workers never share mutable state; results are merged after the
// parse phase completes.
type unitResult struct {
	entries []*FragmentEntry
	warning *domain.Warning
	lines   int
}

// Detect runs one detection over the given units and returns a complete
// report, or an error with no partial report. Per-file problems become
// report warnings; only configuration and internal invariant failures
// abort the run.
func (d *Detector) Detect(ctx context.Context, units []*domain.SourceUnit) (*domain.CloneReport, error) {
	// Deterministic unit order regardless of caller ordering.
	ordered := make([]*domain.SourceUnit, len(units))
	copy(ordered, units)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	results, err := d.parsePhase(ctx, ordered)
	if err != nil {
		return nil, err
	}

	entries, warnings, totals := mergeResults(results)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("detection cancelled: %w", err)
	}

	index, err := d.indexPhase(ctx, entries)
	if err != nil {
		return nil, err
	}

	pairs, err := d.scorePhase(ctx, index, entries)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("detection cancelled: %w", err)
	}

	classes := BuildClasses(entries, pairs)
	return BuildReport(classes, totals, warnings, d.config.IncludeContent), nil
}

// parsePhase parses, extracts and normalizes every unit in parallel,
// writing into per-unit slots so workers share nothing.
func (d *Detector) parsePhase(ctx context.Context, units []*domain.SourceUnit) ([]unitResult, error) {
	results := make([]unitResult, len(units))
	extractor := NewExtractor(d.config)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())
	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.processUnit(gctx, extractor, unit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("detection cancelled: %w", err)
	}
	return results, nil
}

// processUnit handles one file end to end: front end lookup, parse,
// fragment extraction, normalization. Failures produce warnings, not
// run errors.
func (d *Detector) processUnit(ctx context.Context, extractor *Extractor, unit *domain.SourceUnit) unitResult {
	frontend, ok := d.registry.Lookup(unit.Language)
	if !ok {
		return unitResult{warning: &domain.Warning{
			Code:     domain.WarningUnsupportedLanguage,
			FilePath: unit.Path,
			Message:  fmt.Sprintf("no front end registered for language %q", unit.Language),
		}}
	}

	root, err := frontend.Parse(ctx, unit)
	if err != nil {
		warning := &domain.Warning{
			Code:     domain.WarningParseError,
			FilePath: unit.Path,
			Message:  err.Error(),
		}
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			warning.Line = parseErr.Line
			warning.Col = parseErr.Col
		}
		return unitResult{warning: warning}
	}

	fragments := extractor.Extract(unit, root)
	entries := make([]*FragmentEntry, 0, len(fragments))
	for _, frag := range fragments {
		entries = append(entries, &FragmentEntry{
			Fragment: frag,
			Forms:    NormalizeAll(frag),
		})
	}
	return unitResult{entries: entries, lines: unit.LineCount()}
}

// mergeResults assigns dense fragment ids in unit order and collects
// warnings and counters.
func mergeResults(results []unitResult) ([]*FragmentEntry, []*domain.Warning, RunTotals) {
	var entries []*FragmentEntry
	var warnings []*domain.Warning
	totals := RunTotals{}

	for _, result := range results {
		if result.warning != nil {
			warnings = append(warnings, result.warning)
			totals.FilesSkipped++
			continue
		}
		totals.FilesAnalyzed++
		totals.LinesAnalyzed += result.lines
		for _, entry := range result.entries {
			entry.Fragment.ID = len(entries)
			entries = append(entries, entry)
		}
	}
	totals.Fragments = len(entries)
	return entries, warnings, totals
}

// indexPhase inserts all fragments concurrently, then seals the index
// so the scoring phase observes a consistent snapshot.
func (d *Detector) indexPhase(ctx context.Context, entries []*FragmentEntry) (*FingerprintIndex, error) {
	index := NewFingerprintIndex(d.config.ShingleSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())
	for start := 0; start < len(entries); start += scoreBatchSize {
		end := min(start+scoreBatchSize, len(entries))
		batch := entries[start:end]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, entry := range batch {
				if err := index.Add(entry.Fragment.ID, entry.Forms); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if domain.ErrorCode(err) == domain.ErrCodeInvariantViolation {
			return nil, err
		}
		return nil, fmt.Errorf("detection cancelled: %w", err)
	}

	index.Seal()
	return index, nil
}

// scorePhase discovers candidate pairs from the sealed index and scores
// them in parallel batches. Each pair is scored exactly once: the
// higher id of the pair owns it.
func (d *Detector) scorePhase(ctx context.Context, index *FingerprintIndex, entries []*FragmentEntry) ([]*PairResult, error) {
	batchCount := (len(entries) + scoreBatchSize - 1) / scoreBatchSize
	batchPairs := make([][]*PairResult, batchCount)
	scorer := NewScorer(d.config.EffectiveThreshold())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())
	for batch := 0; batch < batchCount; batch++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := batch * scoreBatchSize
			end := min(start+scoreBatchSize, len(entries))

			var pairs []*PairResult
			for id := start; id < end; id++ {
				candidates, err := index.Candidates(id, entries[id].Forms)
				if err != nil {
					return err
				}
				for _, peer := range candidates {
					if peer >= id {
						break
					}
					if pair := scorer.Score(entries[peer], entries[id]); pair != nil {
						pairs = append(pairs, pair)
					}
				}
			}
			batchPairs[batch] = pairs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if domain.ErrorCode(err) == domain.ErrCodeInvariantViolation {
			return nil, err
		}
		return nil, fmt.Errorf("detection cancelled: %w", err)
	}

	var pairs []*PairResult
	for _, batch := range batchPairs {
		pairs = append(pairs, batch...)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}

func (d *Detector) workers() int {
	if d.config.MaxWorkers > 0 {
		return d.config.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}
