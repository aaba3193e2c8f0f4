package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/preview"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port      int    `short:"p" help:"Override serve.port"`
	Host      string `default:"localhost" help:"Interface to listen on"`
	NoMetrics bool   `name:"no-metrics" help:"Do not expose /metrics"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	if s.Port > 0 {
		cfg.Serve.Port = s.Port
	}

	logger := slog.Default()
	builderOpts := []site.Option{site.WithLogger(logger)}
	serverOpts := []preview.Option{preview.WithLogger(logger)}
	if cfg.Serve.Metrics && !s.NoMetrics {
		reg := metrics.NewRegistry()
		builderOpts = append(builderOpts, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		serverOpts = append(serverOpts, preview.WithMetrics(reg))
	}

	srv := preview.New(cfg, site.NewBuilder(cfg, builderOpts...), serverOpts...)
	return srv.Run(g.ctx(), fmt.Sprintf("%s:%d", s.Host, cfg.Serve.Port))
}
