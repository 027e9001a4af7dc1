package linkcheck

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/doclinks/internal/docfs"
	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/headings"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
)

// Validator runs the resolver over every markdown document under a root.
type Validator struct {
	fsys      docfs.FS
	root      string
	workers   int
	skipCode  bool
	cacheSize int
	resolver  []ResolverOption
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithWorkers resolves up to n documents concurrently. n <= 1 runs sequentially.
func WithWorkers(n int) Option {
	return func(v *Validator) { v.workers = n }
}

// WithSkipCodeBlocks ignores links and headings inside code blocks.
func WithSkipCodeBlocks(skip bool) Option {
	return func(v *Validator) { v.skipCode = skip }
}

// WithCacheSize bounds the per-run heading index cache; 0 disables it.
func WithCacheSize(n int) Option {
	return func(v *Validator) { v.cacheSize = n }
}

// WithResolverOptions passes extra options to the per-run Resolver.
func WithResolverOptions(opts ...ResolverOption) Option {
	return func(v *Validator) { v.resolver = append(v.resolver, opts...) }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(v *Validator) {
		if r != nil {
			v.recorder = r
		}
	}
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewValidator creates a Validator for the documentation tree at root.
func NewValidator(fsys docfs.FS, root string, opts ...Option) *Validator {
	v := &Validator{
		fsys:      fsys,
		root:      root,
		workers:   1,
		cacheSize: 256,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// newResolver builds a fresh Resolver so heading caches never outlive a run.
func (v *Validator) newResolver() (*Resolver, error) {
	opts := []ResolverOption{WithHeadingCache(v.cacheSize)}
	if v.skipCode {
		opts = append(opts,
			WithLineMask(markdown.CodeLines),
			WithIndexer(headings.NewIndexer(headings.WithLineMask(markdown.CodeLines))),
		)
	}
	opts = append(opts, v.resolver...)
	return NewResolver(v.fsys, v.root, opts...)
}

// Run discovers every document and classifies all of its links. Any fatal
// error aborts the run and no report is returned.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()

	report, err := v.run(ctx, runID)
	elapsed := time.Since(start)
	v.recorder.ObserveRunDuration(elapsed)

	if err != nil {
		v.recorder.IncRunOutcome(metrics.OutcomeError)
		v.logger.Error("Link validation aborted", logfields.RunID(runID), logfields.Error(err))
		return nil, err
	}
	report.Duration = elapsed

	counts := report.Counts()
	v.recorder.SetFilesScanned(report.FilesScanned)
	v.recorder.AddLinkOutcomes(string(StatusOK), counts.OK)
	v.recorder.AddLinkOutcomes(string(StatusExternal), counts.External)
	v.recorder.AddLinkOutcomes(string(StatusBroken), counts.Broken)
	if counts.Broken > 0 {
		v.recorder.IncRunOutcome(metrics.OutcomeFailed)
	} else {
		v.recorder.IncRunOutcome(metrics.OutcomePassed)
	}

	for _, occ := range report.Broken() {
		v.logger.Debug("Broken link",
			logfields.File(occ.File),
			logfields.Line(occ.Line),
			logfields.Link(occ.Link),
			logfields.Target(occ.Target))
	}
	v.logger.Info("Link validation completed",
		logfields.RunID(runID),
		logfields.Files(report.FilesScanned),
		slog.Int("ok", counts.OK),
		slog.Int("external", counts.External),
		slog.Int("broken", counts.Broken),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))

	return report, nil
}

func (v *Validator) run(ctx context.Context, runID string) (*Report, error) {
	resolver, err := v.newResolver()
	if err != nil {
		return nil, err
	}

	files, err := v.fsys.ListMarkdownFiles(resolver.Root())
	if err != nil {
		return nil, err
	}
	v.logger.Debug("Discovered markdown files",
		logfields.RunID(runID),
		logfields.Root(resolver.Root()),
		logfields.Files(len(files)),
		logfields.Workers(v.workers))

	// One slot per document in discovery order; completion order never matters.
	slots := make([][]LinkOccurrence, len(files))

	if v.workers <= 1 {
		for i, rel := range files {
			if err := ctx.Err(); err != nil {
				return nil, canceled(err)
			}
			occ, err := resolver.ResolveDocument(rel)
			if err != nil {
				return nil, err
			}
			slots[i] = occ
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(v.workers)
		for i, rel := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return canceled(err)
				}
				occ, err := resolver.ResolveDocument(rel)
				if err != nil {
					return err
				}
				slots[i] = occ
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var occurrences []LinkOccurrence
	for _, s := range slots {
		occurrences = append(occurrences, s...)
	}

	return &Report{
		RunID:        runID,
		Root:         resolver.Root(),
		FilesScanned: len(files),
		Occurrences:  occurrences,
	}, nil
}

func canceled(err error) error {
	return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "link validation canceled").Build()
}
