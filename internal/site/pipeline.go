// Package site builds the complete static documentation site: every page,
// its props, the search index and the build manifest.
package site

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/components"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/page"
	"git.home.luguber.info/inful/docsite/internal/sidenav"
	"git.home.luguber.info/inful/docsite/internal/sourcelink"
)

// Page is one fully rendered page.
type Page struct {
	Props    *page.Props
	Content  template.HTML
	Document []byte
}

// Pipeline holds everything needed to render pages of one build. The
// sidebar is computed once per Pipeline, so create one per build.
type Pipeline struct {
	cfg       *config.Config
	renderer  *markdown.Renderer
	generator *page.Generator
	registry  *components.Registry
	template  *page.Template
	logger    *slog.Logger
}

// NewPipeline wires resolver, renderer, sidebar, source links, components
// and the page template from cfg.
func NewPipeline(cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	renderer, err := markdown.NewRenderer(markdown.Options{
		PartialsDir:    cfg.PartialsRoot(),
		HighlightStyle: cfg.Render.HighlightStyle,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	links, err := sourcelink.FromOptions(sourcelink.Options{
		Host:         cfg.Source.Host,
		Repo:         cfg.Source.Repo,
		Branch:       cfg.Source.Branch,
		Prefix:       cfg.Source.Prefix,
		DetectBranch: cfg.Source.DetectBranch,
		Dir:          cfg.Content.Root,
	}, logger)
	if err != nil {
		return nil, err
	}

	order, err := sidenav.LoadOrder(cfg.OrderPath())
	if err != nil {
		return nil, err
	}

	tpl, err := page.NewTemplate(page.Site{
		Product:  cfg.Site.Product,
		SiteName: cfg.Site.SiteName,
		Category: cfg.Site.Category,
	})
	if err != nil {
		return nil, err
	}

	resolver := content.NewResolver(cfg.Content.Root, filepath.ToSlash(cfg.Content.Dir), cfg.Site.Category, logger)
	nav := sidenav.NewIndex(cfg.DocsRoot(), cfg.Site.Category, order, logger)
	generator := page.NewGenerator(cfg.Site.Category, resolver, renderer, links, nav,
		page.WithRecorder(recorder), page.WithLogger(logger))

	return &Pipeline{
		cfg:       cfg,
		renderer:  renderer,
		generator: generator,
		registry:  components.Default(cfg.Site.Product),
		template:  tpl,
		logger:    logger,
	}, nil
}

// Slugs enumerates every page of the docs root.
func (p *Pipeline) Slugs(ctx context.Context) ([]content.Slug, error) {
	return content.EnumerateSlugs(ctx, p.cfg.DocsRoot(), p.logger)
}

// Render generates, hydrates and templates the page at slug.
func (p *Pipeline) Render(ctx context.Context, slug content.Slug) (*Page, error) {
	props, err := p.generator.Generate(ctx, slug)
	if err != nil {
		return nil, err
	}
	hydrated, err := p.registry.Hydrate(props.RenderedContent)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("slug", slug.String())
		}
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.template.Render(&buf, props, hydrated); err != nil {
		return nil, err
	}
	return &Page{Props: props, Content: hydrated, Document: buf.Bytes()}, nil
}

// HighlightCSS is the stylesheet for the configured highlight style.
func (p *Pipeline) HighlightCSS() (string, error) {
	return p.renderer.HighlightCSS()
}
