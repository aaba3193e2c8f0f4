package page

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/sidenav"
	"git.home.luguber.info/inful/docsite/internal/sourcelink"
)

// Stage names recorded per page.
const (
	StageResolve = "resolve"
	StageParse   = "parse"
	StageRender  = "render"
	StageSidenav = "sidenav"
)

// NavSource yields the sidebar shared by all pages of a category.
type NavSource interface {
	Entries(ctx context.Context) ([]sidenav.Entry, error)
}

// Generator turns a slug into page Props.
type Generator struct {
	category string
	resolver *content.Resolver
	renderer *markdown.Renderer
	links    *sourcelink.Linker
	nav      NavSource
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator wires the page pipeline for category.
func NewGenerator(category string, resolver *content.Resolver, renderer *markdown.Renderer,
	links *sourcelink.Linker, nav NavSource, opts ...Option,
) *Generator {
	g := &Generator{
		category: category,
		resolver: resolver,
		renderer: renderer,
		links:    links,
		nav:      nav,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate resolves, parses and renders the page at slug. Rendering and
// the sidebar scan run concurrently; either failing fails the page.
func (g *Generator) Generate(ctx context.Context, slug content.Slug) (*Props, error) {
	start := time.Now()
	props, err := g.generate(ctx, slug)
	if err != nil {
		return nil, annotate(err, slug)
	}
	g.logger.Debug("Generated page",
		logfields.Slug(slug.String()),
		logfields.URL(props.URL),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return props, nil
}

func (g *Generator) generate(ctx context.Context, slug content.Slug) (*Props, error) {
	var doc *content.Document
	if err := metrics.TimeStage(g.recorder, StageResolve, func() error {
		var err error
		doc, err = g.resolver.Resolve(ctx, slug)
		return err
	}); err != nil {
		return nil, err
	}

	var (
		fm   frontmatter.FrontMatter
		body []byte
	)
	if err := metrics.TimeStage(g.recorder, StageParse, func() error {
		var err error
		fm, body, err = frontmatter.Parse(doc.Raw)
		if err != nil {
			return ferrors.ContentError("invalid front matter").
				WithCause(err).
				WithContext("path", doc.SourcePath).
				Build()
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var (
		rendered markdown.RenderedContent
		entries  []sidenav.Entry
	)
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return metrics.TimeStage(g.recorder, StageRender, func() error {
			var err error
			rendered, err = g.renderer.Render(gctx, body)
			return err
		})
	})
	grp.Go(func() error {
		return metrics.TimeStage(g.recorder, StageSidenav, func() error {
			var err error
			entries, err = g.nav.Entries(gctx)
			return err
		})
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	fingerprint, err := manifest.Fingerprint(fm, body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "fingerprint page").Build()
	}

	return &Props{
		RenderedContent: rendered,
		FrontMatter:     fm,
		ResourceURL:     g.links.URL(doc.SourcePath),
		URL:             slug.URL(g.category),
		Sidenav:         entries,
		Slug:            slug,
		SourcePath:      doc.SourcePath,
		Fingerprint:     fingerprint,
	}, nil
}

// annotate adds the slug to classified errors and classifies the rest.
func annotate(err error, slug content.Slug) error {
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.WithContext("slug", slug.String())
	}
	return ferrors.WrapError(err, ferrors.CategoryRuntime, "generate page").
		WithContext("slug", slug.String()).
		Build()
}
