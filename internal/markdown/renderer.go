// Package markdown turns MDX page bodies into HTML with the documentation
// site's fixed transform pipeline.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Stage names one step of the render pipeline.
type Stage string

const (
	StageIncludePartials Stage = "include-partials"
	StageComponents      Stage = "components"
	StageAnchorLinks     Stage = "anchor-links"
	StageParagraphAlerts Stage = "paragraph-alerts"
	StageTypography      Stage = "typography"
	StageHighlight       Stage = "highlight"
)

// Pipeline lists the stages in the order they apply.
func Pipeline() []Stage {
	return []Stage{
		StageIncludePartials,
		StageComponents,
		StageAnchorLinks,
		StageParagraphAlerts,
		StageTypography,
		StageHighlight,
	}
}

// DefaultHighlightStyle is used when Options.HighlightStyle is empty.
const DefaultHighlightStyle = "github"

// Options configures a Renderer.
type Options struct {
	// PartialsDir is the only directory @include names resolve against.
	PartialsDir    string
	HighlightStyle string
	Logger         *slog.Logger
}

// Renderer converts page bodies to RenderedContent. It holds no per-call
// state and may be shared between goroutines.
type Renderer struct {
	includes includer
	style    string
	logger   *slog.Logger
}

// NewRenderer validates opts and returns a Renderer.
func NewRenderer(opts Options) (*Renderer, error) {
	style := strings.ToLower(strings.TrimSpace(opts.HighlightStyle))
	if style == "" {
		style = DefaultHighlightStyle
	}
	if _, ok := styles.Registry[style]; !ok {
		return nil, ferrors.ConfigError(fmt.Sprintf("unknown highlight style %q", opts.HighlightStyle)).
			WithContext("style", opts.HighlightStyle).
			Build()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		includes: includer{root: opts.PartialsDir},
		style:    style,
		logger:   logger,
	}, nil
}

// Render runs the pipeline over body. Identical input yields identical output.
func (r *Renderer) Render(ctx context.Context, body []byte) (RenderedContent, error) {
	if err := ctx.Err(); err != nil {
		return RenderedContent{}, err
	}

	expanded, err := r.includes.expand(body)
	if err != nil {
		return RenderedContent{}, stageError(ferrors.CategoryContent, StageIncludePartials, err)
	}
	source, err := extractComponents(expanded)
	if err != nil {
		return RenderedContent{}, stageError(ferrors.CategoryContent, StageComponents, err)
	}

	var buf bytes.Buffer
	if err := r.engine().Convert(source, &buf); err != nil {
		return RenderedContent{}, stageError(ferrors.CategoryRender, StageHighlight, err)
	}
	r.logger.Debug("Rendered markdown",
		slog.Int("input_bytes", len(body)),
		slog.Int("output_bytes", buf.Len()))
	return RenderedContent{output: buf.String()}, nil
}

// engine is built per call; goldmark parsers keep block state while parsing.
func (r *Renderer) engine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(r.style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(anchorTransformer{}, 100),
				util.Prioritized(alertTransformer{}, 200),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{}, 500)),
		),
	)
}

// HighlightCSS returns the stylesheet for the chroma classes emitted by the highlight stage.
func (r *Renderer) HighlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(r.style)); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "write highlight stylesheet").Build()
	}
	return buf.String(), nil
}

func stageError(category ferrors.ErrorCategory, stage Stage, err error) error {
	return ferrors.WrapError(err, category, "render "+string(stage)).
		WithContext("stage", string(stage)).
		Build()
}
