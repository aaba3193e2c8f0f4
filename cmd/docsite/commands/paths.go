package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// PathsCmd implements the 'paths' command.
type PathsCmd struct {
	JSON bool `help:"Print {paths: [{params: {slug: [...]}}], fallback: false}"`
}

type staticPath struct {
	Params struct {
		Slug content.Slug `json:"slug"`
	} `json:"params"`
}

type staticPaths struct {
	Paths    []staticPath `json:"paths"`
	Fallback bool         `json:"fallback"`
}

func (p *PathsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	slugs, err := content.EnumerateSlugs(g.ctx(), cfg.DocsRoot(), slog.Default())
	if err != nil {
		return err
	}

	out := g.stdout()
	if !p.JSON {
		for _, s := range slugs {
			_, _ = fmt.Fprintln(out, s.URL(cfg.Site.Category))
		}
		return nil
	}

	doc := staticPaths{Paths: make([]staticPath, len(slugs))}
	for i, s := range slugs {
		doc.Paths[i].Params.Slug = s
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode paths").Build()
	}
	return nil
}
