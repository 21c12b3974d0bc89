package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/fsutil"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/posts"
	"git.home.luguber.info/inful/folio/internal/retry"
	"git.home.luguber.info/inful/folio/internal/snapshot"
)

// Target selects a generator for Generate.
type Target string

const (
	TargetRSS     Target = "rss"
	TargetSitemap Target = "sitemap"
	TargetRobots  Target = "robots"
	TargetOG      Target = "og"
)

// Builder runs pipelines for one configuration.
type Builder struct {
	cfg      *config.Config
	writer   *fsutil.Writer
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock replaces the wall clock used for generatedAt, lastBuildDate and
// fallback post dates.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(b *Builder) {
		if rec != nil {
			b.recorder = rec
		}
	}
}

// WithWriter replaces the artifact writer.
func WithWriter(w *fsutil.Writer) Option {
	return func(b *Builder) {
		if w != nil {
			b.writer = w
		}
	}
}

// NewBuilder returns a Builder whose writes retry build.io_retries times.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.Build.IORetries
	b := &Builder{
		cfg:      cfg,
		writer:   &fsutil.Writer{Policy: policy, Perm: fsutil.DefaultPerm},
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration the builder runs with.
func (b *Builder) Config() *config.Config { return b.cfg }

// BuildOptions tunes a full build.
type BuildOptions struct {
	// ForceImages regenerates every OG image regardless of modification times.
	ForceImages bool
}

// Build runs the whole pipeline: load, snapshot, then every enabled
// generator. The report is returned even when the build fails.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*BuildReport, error) {
	cfg := b.cfg
	p := NewPipeline().
		Add(StageLoadContent, stageLoadContent).
		Add(StageWriteSnapshot, stageWriteSnapshot)
	b.addGenerators(p, nil)

	report, err := b.run(ctx, p, opts.ForceImages)
	if cfg.Output.Report {
		if perr := report.Persist(ctx, b.writer, cfg.ReportPath()); perr != nil {
			slog.Error("Failed to write build report", logfields.Output(cfg.ReportPath()), logfields.Error(perr))
			if err == nil {
				err = classify(perr)
			}
		}
	}
	return report, err
}

// Metadata loads content and writes posts.json only.
func (b *Builder) Metadata(ctx context.Context) (*BuildReport, error) {
	p := NewPipeline().
		Add(StageLoadContent, stageLoadContent).
		Add(StageWriteSnapshot, stageWriteSnapshot)
	return b.run(ctx, p, false)
}

// Generate runs the selected generators from the existing posts.json, which
// must have been written by a previous Metadata or Build. Targets disabled in
// the configuration still run when named explicitly. robots.txt depends on
// configuration only, so the snapshot is not read when it is the sole target.
func (b *Builder) Generate(ctx context.Context, force bool, targets ...Target) (*BuildReport, error) {
	robotsOnly := len(targets) == 1 && targets[0] == TargetRobots
	p := NewPipeline().AddIf(!robotsOnly, StageReadSnapshot, stageReadSnapshot)
	b.addGenerators(p, targets)
	return b.run(ctx, p, force)
}

func (b *Builder) addGenerators(p *Pipeline, targets []Target) {
	feedsCfg := b.cfg.Feeds
	want := func(t Target, enabled bool) bool {
		if targets == nil {
			return enabled
		}
		for _, x := range targets {
			if x == t {
				return true
			}
		}
		return false
	}
	p.AddIndependentIf(want(TargetRSS, feedsCfg.RSS.Enabled), StageGenerateRSS, stageGenerateRSS).
		AddIndependentIf(want(TargetSitemap, feedsCfg.Sitemap.Enabled), StageGenerateSitemap, stageGenerateSitemap).
		AddIndependentIf(want(TargetRobots, feedsCfg.Robots.Enabled), StageWriteRobots, stageWriteRobots).
		AddIndependentIf(want(TargetOG, b.cfg.OG.Enabled), StageGenerateOG, stageGenerateOG)
}

func (b *Builder) run(ctx context.Context, p *Pipeline, forceImages bool) (*BuildReport, error) {
	report := NewBuildReport(b.now())
	bs := &BuildState{
		Config:      b.cfg,
		Writer:      b.writer,
		Recorder:    b.recorder,
		Report:      report,
		Now:         b.now,
		ForceImages: forceImages,
	}
	slog.Info("Build started", logfields.BuildID(report.ID), logfields.Output(b.cfg.OutputDir()))

	t0 := time.Now()
	err := RunStages(ctx, bs, p.Build(), b.cfg.Build.Parallel)
	report.Finish(b.now())
	b.recorder.ObserveBuildDuration(time.Since(t0))
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))

	if err != nil {
		slog.Error("Build failed", logfields.BuildID(report.ID), logfields.Error(err))
		return report, classify(err)
	}
	slog.Info("Build complete", logfields.BuildID(report.ID), slog.String("summary", report.Summary()))
	return report, nil
}

// Repository loads content and returns the post repository, for lookups
// such as the schema command.
func (b *Builder) Repository(ctx context.Context) (*posts.Repository, error) {
	list, err := NewLoader(b.cfg, b.now).Load(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return posts.NewRepository(list, posts.WithDrafts(b.cfg.Content.IncludeDrafts)), nil
}

// Validate compares posts.json with the documents on disk. A missing
// content directory, a missing snapshot or any disagreement is an error;
// stale fingerprints only warn.
func (b *Builder) Validate(ctx context.Context) (*snapshot.SyncResult, error) {
	if info, err := os.Stat(b.cfg.ContentDir()); err != nil || !info.IsDir() {
		return nil, ferrors.ValidationError("content directory not found").
			WithContext("path", b.cfg.ContentDir()).
			Build()
	}
	repo, err := b.Repository(ctx)
	if err != nil {
		return nil, err
	}
	path := b.cfg.SnapshotPath()
	snap, err := snapshot.Read(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "snapshot could not be read").
			WithContext("path", path).
			Build()
	}

	res := snapshot.Validate(snap, repo.ListAll())
	if err := res.Err(); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryValidation, "content is out of sync with the snapshot").
			WithContext("path", path).
			Build()
	}
	slog.Info("Snapshot in sync", logfields.Path(path), logfields.Count(res.Expected), slog.Int("stale", len(res.Stale)))
	return res, nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	switch {
	case errors.Is(err, posts.ErrMalformedDocument), errors.Is(err, posts.ErrDuplicateSlug), errors.Is(err, posts.ErrEmptySlug):
		return ferrors.WrapError(err, ferrors.CategoryContent, "content could not be loaded").Build()
	case errors.Is(err, ErrSnapshotMissing):
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "snapshot missing").Build()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "build canceled").Build()
	}
	var se *StageError
	if errors.As(err, &se) {
		switch se.Stage {
		case StageLoadContent, StageReadSnapshot, StageWriteSnapshot:
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, fmt.Sprintf("stage %s failed", se.Stage)).Build()
		default:
			return ferrors.WrapError(err, ferrors.CategoryRender, "one or more generators failed").Build()
		}
	}
	return ferrors.WrapError(err, ferrors.CategoryBuild, "build failed").Build()
}
