// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the second pass over first-pass results: scoring,
// merging, link division and catalog matching, then the per-result
// evidence, inclusion decision and assembly, and finally the results,
// diff and new-entry outputs. Per-result stages run in parallel; the merge
// and everything after it run in result order so the outputs are
// deterministic.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/toolscout/internal/assemble"
	"github.com/pdiddy/toolscout/internal/catalog"
	"github.com/pdiddy/toolscout/internal/decide"
	"github.com/pdiddy/toolscout/internal/evidence"
	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/links"
	"github.com/pdiddy/toolscout/internal/merge"
	"github.com/pdiddy/toolscout/internal/rarity"
	"github.com/pdiddy/toolscout/internal/report"
	"github.com/pdiddy/toolscout/internal/scoring"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/pkg/types"
)

// Inputs are the loaded collaborators of a run.
type Inputs struct {
	Records []types.FirstPassRecord
	Catalog *catalog.Catalog
	Rarity  scoring.Rarity
	Cache   fetchcache.Lookup
	Terms   *terms.Set
}

// Outputs are what Process computed, in result order.
type Outputs struct {
	Rows    []report.Row
	Diffs   []*types.Diff
	Records []*types.NewToolRecord
}

// Summary counts what a run produced.
type Summary struct {
	Input    int
	Results  int
	Included int
	Existing int
	Diffs    int
	New      int
	Duration time.Duration
}

// Pipeline holds the settings of a run. Progress lines go to Out; nil
// discards them.
type Pipeline struct {
	Config types.RunConfig
	Out    io.Writer
	Logger *zap.Logger
}

// New returns a Pipeline with cfg's defaults filled in.
func New(cfg types.RunConfig, out io.Writer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{Config: WithDefaults(cfg), Out: out, Logger: logger}
}

func (p *Pipeline) printf(format string, args ...any) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, format, args...)
	}
}

// Run loads the inputs named by the config, processes them and writes the
// three outputs. Any load failure or unwritable output aborts the run
// before an output file is replaced.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	cfg := p.Config

	outs, err := createOutputs(cfg.ResultsFile, cfg.DiffFile, cfg.NewFile)
	if err != nil {
		return Summary{}, err
	}
	committed := false
	defer func() {
		if !committed {
			for _, o := range outs {
				o.abort()
			}
		}
	}()

	in, closeCache, err := p.Load()
	if err != nil {
		return Summary{}, err
	}
	defer closeCache()

	res, err := p.Process(ctx, in)
	if err != nil {
		return Summary{}, err
	}

	w := &report.Writer{
		Catalog:     in.Catalog,
		Cache:       in.Cache,
		Bands:       cfg.Confidence,
		DocsBaseURL: cfg.DocsBaseURL,
	}
	if err := w.WriteResults(outs[0].f, res.Rows); err != nil {
		return Summary{}, err
	}
	if err := w.WriteDiffs(outs[1].f, res.Diffs); err != nil {
		return Summary{}, err
	}
	if err := report.WriteNew(outs[2].f, res.Records); err != nil {
		return Summary{}, err
	}
	for _, o := range outs {
		if err := o.commit(); err != nil {
			return Summary{}, err
		}
	}
	committed = true

	sum := summarize(len(in.Records), res)
	sum.Duration = time.Since(start)
	p.Logger.Info("pipeline: run complete",
		zap.Int("input", sum.Input),
		zap.Int("results", sum.Results),
		zap.Int("included", sum.Included),
		zap.Int("diffs", sum.Diffs),
		zap.Int("new", sum.New),
		zap.Duration("duration", sum.Duration))
	return sum, nil
}

// Load reads the first-pass input, catalog and rarity table, and opens the
// cache read-only. The returned func closes the cache.
func (p *Pipeline) Load() (Inputs, func(), error) {
	cfg := p.Config
	noop := func() {}

	records, err := LoadPass1(cfg.Pass1File)
	if err != nil {
		return Inputs{}, noop, err
	}
	p.printf("Loaded %d first-pass records from %s\n", len(records), cfg.Pass1File)

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return Inputs{}, noop, err
	}
	if n := cat.UnusablePublications(); n > 0 {
		p.Logger.Warn("pipeline: catalog publications without identifiers skipped for matching", zap.Int("count", n))
	}
	p.printf("Loaded %d catalog entries from %s\n", cat.Len(), cfg.CatalogFile)

	idf, err := rarity.Load(cfg.IDFFile)
	if err != nil {
		return Inputs{}, noop, err
	}

	set, err := terms.Default()
	if err != nil {
		return Inputs{}, noop, err
	}

	store, err := fetchcache.Open(types.CacheConfig{Path: cfg.Cache.Path, ReadOnly: true})
	if err != nil {
		return Inputs{}, noop, err
	}
	store.OnLookupError(func(url string, err error) {
		p.Logger.Warn("pipeline: cache lookup failed, treating as miss", zap.String("url", url), zap.Error(err))
	})

	in := Inputs{Records: records, Catalog: cat, Rarity: idf, Cache: store, Terms: set}
	return in, func() { store.Close() }, nil
}

// Process runs every stage over in and returns the rows, diffs and new
// records in result order. Records are converted afresh on each call, so
// in may be processed more than once.
func (p *Pipeline) Process(ctx context.Context, in Inputs) (*Outputs, error) {
	cfg := p.Config
	log := p.Logger

	results := make([]*types.Result, len(in.Records))
	for i, rec := range in.Records {
		results[i] = rec.ToResult()
	}

	stage := func(name string, started time.Time) {
		log.Debug("pipeline: stage done", zap.String("stage", name), zap.Duration("took", time.Since(started)))
	}

	t := time.Now()
	scorer := &scoring.Scorer{Cache: in.Cache, Rarity: in.Rarity, Workers: cfg.Workers}
	prog := newProgress(p.Out, "score", len(results))
	if err := scorer.ScoreAll(ctx, results, prog.step); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	stage("score", t)

	t = time.Now()
	before := len(results)
	results = merge.Merge(results, cfg.Confidence)
	results = merge.ApplySeed(results, cfg.Seed)
	merge.FillSameSuggestions(results)
	p.printf("Merged %d results into %d\n", before, len(results))
	stage("merge", t)

	t = time.Now()
	divider := &links.Divider{Cache: in.Cache, Logger: log, Workers: cfg.Workers}
	if err := divider.DivideAll(ctx, results); err != nil {
		return nil, fmt.Errorf("dividing links: %w", err)
	}
	stage("divide", t)

	t = time.Now()
	prog = newProgress(p.Out, "match", len(results))
	if err := in.Catalog.MatchAll(ctx, results, cfg.Workers, prog.step); err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}
	stage("match", t)

	t = time.Now()
	gatherer := &evidence.Gatherer{Cache: in.Cache, Terms: in.Terms}
	decider := decide.New(cfg.Confidence, cfg.Inclusion, in.Terms)
	builder := &assemble.Builder{
		Catalog:    in.Catalog,
		Cache:      in.Cache,
		Bands:      cfg.Confidence,
		IncludeAll: cfg.IncludeAll,
		Logger:     log,
	}
	rows := make([]report.Row, 0, len(results))
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sg := r.Top()
		ev := gatherer.Gather(r, sg)
		include := decider.Include(r, sg, ev)
		rows = append(rows, report.Row{
			Result:   r,
			Include:  include,
			Evidence: ev,
			Outcome:  builder.Add(r, include, ev),
		})
	}
	stage("assemble", t)

	return &Outputs{Rows: rows, Diffs: builder.Diffs(), Records: builder.Records()}, nil
}

func summarize(input int, res *Outputs) Summary {
	sum := Summary{Input: input, Results: len(res.Rows), Diffs: len(res.Diffs), New: len(res.Records)}
	for _, row := range res.Rows {
		if row.Include {
			sum.Included++
		}
		if len(row.Outcome.Existing) > 0 {
			sum.Existing++
		}
	}
	return sum
}

// outputFile is an output written to a temporary file beside its final
// path and renamed into place once complete.
type outputFile struct {
	path string
	f    *os.File
}

func createOutputs(paths ...string) ([]*outputFile, error) {
	var outs []*outputFile
	for _, path := range paths {
		f, err := os.CreateTemp(filepath.Dir(path), ".toolscout-*.tmp")
		if err != nil {
			for _, o := range outs {
				o.abort()
			}
			return nil, fmt.Errorf("creating output %s: %w", path, err)
		}
		outs = append(outs, &outputFile{path: path, f: f})
	}
	return outs, nil
}

func (o *outputFile) commit() error {
	tmp := o.f.Name()
	if err := o.f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", o.path, err)
	}
	if err := os.Rename(tmp, o.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", o.path, err)
	}
	return nil
}

func (o *outputFile) abort() {
	o.f.Close()
	os.Remove(o.f.Name())
}
