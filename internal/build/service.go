package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpipe/internal/config"
	"git.home.luguber.info/inful/docpipe/internal/content"
	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/docpipe/internal/logfields"
	"git.home.luguber.info/inful/docpipe/internal/markdown"
	"git.home.luguber.info/inful/docpipe/internal/metrics"
	"git.home.luguber.info/inful/docpipe/internal/navigation"
	"git.home.luguber.info/inful/docpipe/internal/observability"
)

// Builder runs documentation builds for one configuration.
type Builder struct {
	cfg      *config.Config
	cache    *content.Cache
	pipeline *markdown.Pipeline
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithCache shares a document cache, e.g. with a file watcher that
// invalidates changed paths between runs.
func WithCache(c *content.Cache) Option {
	return func(b *Builder) { b.cache = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cache == nil && cfg != nil {
		cache, err := content.NewCache(cfg.Build.CacheSize)
		if err != nil {
			slog.Warn("Document cache disabled", logfields.Error(err))
		}
		b.cache = cache
	}
	if cfg != nil {
		b.pipeline = markdown.New(markdown.WithRawHTML(cfg.Build.RawHTMLEnabled()))
	}
	return b
}

// Cache returns the document cache used across runs.
func (b *Builder) Cache() *content.Cache { return b.cache }

// Run builds every scope. Per-document problems are reported in the Report
// and never abort the run; an error is returned only for configuration,
// filesystem or cancellation failures.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := b.now()
	report := &Report{
		RunID:     uuid.NewString(),
		StartTime: start,
		Scopes:    []ScopeReport{},
	}
	ctx = observability.WithRunID(ctx, report.RunID)

	finish := func(status Status) {
		report.Status = status
		report.EndTime = b.now()
		report.Duration = report.EndTime.Sub(start)
		b.recorder.IncBuildOutcome(outcomeLabel(status))
		b.recorder.ObserveBuildDuration(report.Duration)
	}

	if b.cfg == nil {
		finish(StatusFailed)
		return report, errors.ConfigError("config required").Build()
	}
	report.OutputPath = b.cfg.Output.Directory

	scopes, err := DiscoverScopes(b.cfg.Content)
	if err != nil {
		finish(StatusFailed)
		return report, errors.WrapError(err, errors.CategoryFileSystem, "failed to discover content scopes").
			WithContext("path", b.cfg.Content.Root).
			Build()
	}
	if len(scopes) == 0 {
		observability.WarnContext(ctx, "No content scopes found", logfields.Path(b.cfg.Content.Root))
	}

	if err := b.prepareOutput(); err != nil {
		finish(StatusFailed)
		return report, err
	}

	observability.InfoContext(ctx, "Starting build", logfields.Count(len(scopes)), logfields.Path(b.cfg.Content.Root))
	for _, scope := range scopes {
		if err := ctx.Err(); err != nil {
			finish(StatusCanceled)
			return report, err
		}
		sr, err := b.buildScope(observability.WithScope(ctx, scope.Locale, scope.Version), report.RunID, scope)
		report.Scopes = append(report.Scopes, sr)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				finish(StatusCanceled)
				return report, err
			}
			finish(StatusFailed)
			return report, err
		}
	}

	status := StatusSuccess
	if _, excluded, linkErrors, failed := report.Totals(); excluded+linkErrors+failed > 0 {
		status = StatusWarning
	}
	finish(status)

	documents, excluded, linkErrors, failed := report.Totals()
	observability.InfoContext(ctx, "Build complete",
		slog.String("status", string(report.Status)),
		slog.Int("documents", documents),
		slog.Int("excluded", excluded),
		slog.Int("link_errors", linkErrors),
		slog.Int("failed", failed),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (b *Builder) prepareOutput() error {
	out := b.cfg.Output.Directory
	if b.cfg.Output.Clean {
		if err := os.RemoveAll(out); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", out).
				Build()
		}
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", out).
			Build()
	}
	return nil
}

// buildScope runs load, transform, navigation and manifest for one scope.
func (b *Builder) buildScope(ctx context.Context, runID string, scope Scope) (ScopeReport, error) {
	sr := ScopeReport{
		Locale:     scope.Locale,
		Version:    scope.Version,
		Excluded:   []content.Excluded{},
		LinkErrors: []DocumentIssue{},
		Failed:     []DocumentIssue{},
	}
	outDir := filepath.Join(b.cfg.Output.Directory, scope.Locale, scope.Version)
	loader := content.NewLoader(b.cfg.Content.Root,
		content.WithCache(b.cache),
		content.WithLogger(observability.Logger(ctx)))

	// Phase 1: the slug index must be complete before any link is checked.
	stageCtx := observability.WithStage(ctx, "load")
	stageStart := b.now()
	set, err := loader.LoadAll(scope.Locale, scope.Version)
	b.recorder.ObserveStageDuration("load", b.now().Sub(stageStart))
	if err != nil {
		b.recorder.IncStageResult("load", metrics.ResultFatal)
		observability.ErrorContext(stageCtx, "Failed to load scope", logfields.Error(err))
		return sr, err
	}
	sr.Excluded = append(sr.Excluded, set.Excluded...)
	b.recorder.AddDocuments(metrics.DocumentLoaded, len(set.Documents))
	b.recorder.AddDocuments(metrics.DocumentExcluded, len(set.Excluded))
	b.recorder.IncStageResult("load", stageResult(len(set.Excluded) > 0))
	observability.InfoContext(stageCtx, "Loaded documents",
		logfields.Count(len(set.Documents)),
		slog.Int("excluded", len(set.Excluded)))

	// Phase 2: transform and write each document against the frozen index.
	stageCtx = observability.WithStage(ctx, "transform")
	stageStart = b.now()
	index := set.Index()
	results := runOrdered(stageCtx, set.Documents, b.cfg.Build.Concurrency,
		func(ctx context.Context, doc *content.Document) (ManifestEntry, error) {
			return b.renderDocument(ctx, scope, doc, index, outDir)
		})

	entries := make([]ManifestEntry, 0, len(results))
	linkErrorCount := 0
	for i, res := range results {
		doc := set.Documents[i]
		if res.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				b.recorder.IncStageResult("transform", metrics.ResultCanceled)
				return sr, ctxErr
			}
			sr.Failed = append(sr.Failed, DocumentIssue{Slug: doc.Slug, Path: doc.FilePath, Messages: []string{res.Err.Error()}})
			continue
		}
		entries = append(entries, res.Value)
		if errs := res.Value.LinkErrors; len(errs) > 0 {
			sr.LinkErrors = append(sr.LinkErrors, DocumentIssue{Slug: doc.Slug, Path: doc.FilePath, Messages: errs})
			linkErrorCount += len(errs)
		}
	}
	sr.Documents = len(entries)
	b.recorder.ObserveStageDuration("transform", b.now().Sub(stageStart))
	b.recorder.AddDocuments(metrics.DocumentTransformed, len(entries))
	b.recorder.AddDocuments(metrics.DocumentFailed, len(sr.Failed))
	b.recorder.AddLinkErrors(linkErrorCount)
	b.recorder.IncStageResult("transform", stageResult(len(sr.Failed)+linkErrorCount > 0))

	stageCtx = observability.WithStage(ctx, "navigation")
	stageStart = b.now()
	tree, err := navigation.NewBuilder(b.cfg.Content.Root,
		navigation.WithLoader(loader),
		navigation.WithLogger(observability.Logger(stageCtx))).
		Build(scope.Locale, scope.Version)
	b.recorder.ObserveStageDuration("navigation", b.now().Sub(stageStart))
	if err != nil {
		b.recorder.IncStageResult("navigation", metrics.ResultFatal)
		return sr, err
	}
	sr.Navigation = navigation.ComputeStats(tree.Items)
	sr.Diagnostics = append(append([]string{}, tree.Diagnostics...), navigation.Validate(tree.Items)...)
	b.recorder.IncStageResult("navigation", stageResult(len(sr.Diagnostics) > 0))
	if err := writeJSON(outDir, "navigation.json", tree); err != nil {
		return sr, writeError(err, outDir, "navigation.json")
	}

	manifest := Manifest{
		RunID:       runID,
		Locale:      scope.Locale,
		Version:     scope.Version,
		GeneratedAt: b.now().UTC(),
		Documents:   entries,
		Excluded:    sr.Excluded,
		Diagnostics: sr.Diagnostics,
	}
	if err := writeJSON(outDir, "manifest.json", manifest); err != nil {
		return sr, writeError(err, outDir, "manifest.json")
	}

	observability.InfoContext(ctx, "Scope built",
		logfields.Count(sr.Documents),
		slog.Int("link_errors", linkErrorCount),
		slog.Int("failed", len(sr.Failed)))
	return sr, nil
}

func (b *Builder) renderDocument(ctx context.Context, scope Scope, doc *content.Document, index content.SlugIndex, outDir string) (ManifestEntry, error) {
	res := b.pipeline.Transform([]byte(doc.Body), markdown.Context{
		Locale:   scope.Locale,
		Version:  scope.Version,
		FilePath: doc.FilePath,
		Index:    index,
	})
	for _, msg := range res.LinkErrors {
		observability.WarnContext(ctx, "Link error", logfields.Path(doc.FilePath), slog.String("detail", msg))
	}

	htmlRel, tocRel := artifactPaths(doc.Slug)
	if err := writeFile(outDir, htmlRel, []byte(res.HTML)); err != nil {
		return ManifestEntry{}, writeError(err, outDir, htmlRel)
	}
	if err := writeJSON(outDir, tocRel, res.TOC); err != nil {
		return ManifestEntry{}, writeError(err, outDir, tocRel)
	}

	return ManifestEntry{
		Slug:        doc.Slug,
		Title:       doc.Frontmatter.Title,
		Source:      doc.FilePath,
		Output:      htmlRel,
		TOC:         tocRel,
		Fingerprint: doc.Fingerprint,
		LinkErrors:  res.LinkErrors,
	}, nil
}

func writeError(err error, dir, rel string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, fmt.Sprintf("failed to write %s", rel)).
		WithContext("path", filepath.Join(dir, filepath.FromSlash(rel))).
		Build()
}

func stageResult(warn bool) metrics.ResultLabel {
	if warn {
		return metrics.ResultWarning
	}
	return metrics.ResultSuccess
}

func outcomeLabel(s Status) metrics.BuildOutcomeLabel {
	switch s {
	case StatusSuccess:
		return metrics.BuildOutcomeSuccess
	case StatusWarning:
		return metrics.BuildOutcomeWarning
	case StatusCanceled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}
