package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("docsite"),
		kong.Description("Build static documentation pages from an MDX content tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Stdout: os.Stdout}, &cli)
	stop()

	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err))
}
