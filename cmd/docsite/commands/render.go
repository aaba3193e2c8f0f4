package commands

import (
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Slug   string `arg:"" optional:"" help:"Page slug, e.g. job-specification/update; empty for the docs root"`
	Format string `short:"f" enum:"html,props,content" default:"html" help:"What to print: the full page, its props JSON or the hydrated body"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	slug, err := content.ParseSlug(r.Slug)
	if err != nil {
		return ferrors.ValidationError("invalid slug").
			WithCause(err).
			WithContext("slug", r.Slug).
			Build()
	}

	pipeline, err := site.NewPipeline(cfg, nil, slog.Default())
	if err != nil {
		return err
	}
	pg, err := pipeline.Render(g.ctx(), slug)
	if err != nil {
		return err
	}

	var out []byte
	switch r.Format {
	case "props":
		out, err = json.MarshalIndent(pg.Props, "", "  ")
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "encode page props").Build()
		}
		out = append(out, '\n')
	case "content":
		out = []byte(pg.Content)
	default:
		out = pg.Document
	}
	if _, err := g.stdout().Write(out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output").Build()
	}
	return nil
}
