package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override output.directory"`
	Clean       bool   `help:"Empty the output directory first" xor:"clean"`
	NoClean     bool   `name:"no-clean" help:"Keep existing files in the output directory" xor:"clean"`
	Concurrency int    `short:"j" help:"Override build.concurrency"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	switch {
	case b.Clean:
		cfg.Output.Clean = true
	case b.NoClean:
		cfg.Output.Clean = false
	}
	if b.Concurrency > 0 {
		cfg.Build.Concurrency = b.Concurrency
	}

	res, err := site.NewBuilder(cfg, site.WithLogger(slog.Default())).Build(g.ctx())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.stdout(), "Built %d pages into %s (build %s)\n",
		len(res.Manifest.Pages), res.OutputDir, res.Manifest.ID)
	return nil
}
