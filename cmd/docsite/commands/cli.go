package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// LogLevelEnv overrides the configured log level; --verbose wins over it.
const LogLevelEnv = "DOCSITE_LOG_LEVEL"

// Global carries process-wide state into every command.
type Global struct {
	Context context.Context
	Stdout  io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build every documentation page into the output directory"`
	Render RenderCmd `cmd:"" help:"Render a single page to stdout"`
	Paths  PathsCmd  `cmd:"" help:"List the slug of every page"`
	Serve  ServeCmd  `cmd:"" help:"Serve the site locally and rebuild on content changes"`
	Init   InitCmd   `cmd:"" help:"Write a commented default configuration file"`

	cfg    *config.Config
	cfgErr error
	stderr io.Writer
}

// AfterApply loads the configuration and sets up logging once. A broken
// configuration is reported by the command that needs it, not here.
func (c *CLI) AfterApply() error {
	cfg, _, err := config.LoadOrDefault(c.Config)
	if err != nil {
		c.cfgErr = ferrors.WrapError(err, ferrors.CategoryConfig, "load configuration").
			WithContext("path", c.Config).
			Build()
		cfg = config.Default()
	}
	c.cfg = cfg
	slog.SetDefault(c.newLogger(cfg.Logging))
	return nil
}

// LoadedConfig returns the configuration read by AfterApply.
func (c *CLI) LoadedConfig() (*config.Config, error) {
	if c.cfgErr != nil {
		return nil, c.cfgErr
	}
	if c.cfg == nil {
		return config.Default(), nil
	}
	return c.cfg, nil
}

func (c *CLI) newLogger(lc config.LoggingConfig) *slog.Logger {
	level := lc.Level.SlogLevel()
	if raw := os.Getenv(LogLevelEnv); raw != "" {
		level = config.NormalizeLogLevel(raw).SlogLevel()
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	out := c.stderr
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}
