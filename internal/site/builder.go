package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/page"
	"git.home.luguber.info/inful/docsite/internal/search"
)

// HighlightCSSFile is the chroma stylesheet written below the assets directory.
const HighlightCSSFile = "highlight.css"

// Result describes a finished build.
type Result struct {
	OutputDir string
	Manifest  *manifest.Manifest
	// Changes compares the pages against the previous build in the same output directory.
	Changes manifest.Changes
}

// Builder renders every page of the configured docs tree into the output directory.
type Builder struct {
	cfg      *config.Config
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build generates the whole site. Any failing page fails the build; all
// page errors are reported together and no manifest is written.
func (b *Builder) Build(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.BuildOutcomeSuccess
		switch {
		case ctx.Err() != nil:
			outcome = metrics.BuildOutcomeCanceled
		case err != nil:
			outcome = metrics.BuildOutcomeFailed
		}
		b.recorder.ObserveBuildDuration(time.Since(start))
		b.recorder.IncBuildOutcome(outcome)
	}()

	outDir := b.cfg.Output.Directory
	man := manifest.New(b.cfg.Snapshot(), start)
	buildID := man.ID

	prev, perr := readManifest(outDir)
	if perr != nil {
		b.logger.Warn("Ignoring unreadable previous manifest", logfields.Path(outDir), logfields.Error(perr))
	}

	pipeline, err := NewPipeline(b.cfg, b.recorder, b.logger)
	if err != nil {
		return nil, err
	}
	if b.cfg.Output.Clean {
		if err := cleanOutput(outDir); err != nil {
			return nil, err
		}
	}

	slugs, err := pipeline.Slugs(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Building site",
		logfields.BuildID(buildID),
		logfields.Count(len(slugs)),
		logfields.Path(b.cfg.DocsRoot()))

	concurrency := b.cfg.Build.Concurrency
	b.recorder.SetBuildConcurrency(concurrency)
	index := search.NewIndex()
	results := runOrdered(ctx, slugs, concurrency, func(ctx context.Context, slug content.Slug) (manifest.Page, error) {
		return b.buildPage(ctx, pipeline, index, slug)
	})

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ferrors.WrapError(ctxErr, ferrors.CategoryRuntime, "build canceled").
			WithContext("build_id", buildID).
			Build()
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		man.Pages = append(man.Pages, r.Value)
	}
	if len(errs) > 0 {
		return nil, joinPageErrors(errs, len(slugs))
	}

	if err := b.writeSiteFiles(pipeline, index, outDir); err != nil {
		return nil, err
	}

	man.Finish(manifest.StatusSuccess, time.Now())
	data, err := man.ToJSON()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "encode manifest").Build()
	}
	if err := writeFile(outDir, manifest.FileName, data); err != nil {
		return nil, err
	}

	changes := man.Diff(prev)
	b.logger.Info("Build complete",
		logfields.BuildID(buildID),
		logfields.Count(len(man.Pages)),
		slog.Int("added", len(changes.Added)),
		slog.Int("changed", len(changes.Changed)),
		slog.Int("removed", len(changes.Removed)),
		logfields.DurationMS(float64(man.Duration)))
	return &Result{OutputDir: outDir, Manifest: man, Changes: changes}, nil
}

func (b *Builder) buildPage(ctx context.Context, pipeline *Pipeline, index *search.Index, slug content.Slug) (manifest.Page, error) {
	start := time.Now()
	p, err := b.renderPage(ctx, pipeline, index, slug)
	b.recorder.ObservePageDuration(time.Since(start))
	b.recorder.IncPageResult(metrics.ResultFor(err, errors.Is(err, context.Canceled)))
	if err != nil {
		b.logger.Warn("Page failed", logfields.Slug(slug.String()), logfields.Error(err))
	}
	return p, err
}

func (b *Builder) renderPage(ctx context.Context, pipeline *Pipeline, index *search.Index, slug content.Slug) (manifest.Page, error) {
	pg, err := pipeline.Render(ctx, slug)
	if err != nil {
		return manifest.Page{}, err
	}
	category := b.cfg.Site.Category
	outDir := b.cfg.Output.Directory

	if err := writeFile(outDir, pagePath(category, slug), pg.Document); err != nil {
		return manifest.Page{}, err
	}
	props, err := json.Marshal(pg.Props)
	if err != nil {
		return manifest.Page{}, ferrors.WrapError(err, ferrors.CategoryInternal, "encode page props").
			WithContext("slug", slug.String()).
			Build()
	}
	if err := writeFile(outDir, dataPath(category, slug), props); err != nil {
		return manifest.Page{}, err
	}
	if err := index.Add(pg.Props.URL, pg.Props.Title(), pg.Props.Description(), string(pg.Content)); err != nil {
		return manifest.Page{}, ferrors.WrapError(err, ferrors.CategoryRender, "index page for search").
			WithContext("slug", slug.String()).
			Build()
	}

	return manifest.Page{
		Slug:        slug.String(),
		URL:         pg.Props.URL,
		Source:      pg.Props.SourcePath,
		Fingerprint: pg.Props.Fingerprint,
	}, nil
}

func (b *Builder) writeSiteFiles(pipeline *Pipeline, index *search.Index, outDir string) error {
	data, err := json.Marshal(index)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode search index").Build()
	}
	if err := writeFile(outDir, search.FileName, data); err != nil {
		return err
	}
	if err := copyAssets(outDir, page.Assets()); err != nil {
		return err
	}
	css, err := pipeline.HighlightCSS()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "generate highlight stylesheet").Build()
	}
	return writeFile(outDir, AssetsDir+"/"+HighlightCSSFile, []byte(css))
}

// joinPageErrors reports every page failure. The result carries the
// category of the first failure so the exit code reflects it.
func joinPageErrors(errs []error, total int) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return ferrors.NewError(ferrors.GetCategory(errs[0]), fmt.Sprintf("%d of %d pages failed", len(errs), total)).
		WithCause(errors.Join(errs...)).
		Build()
}
