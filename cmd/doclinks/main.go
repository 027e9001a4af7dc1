package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclinks/cmd/doclinks/commands"
	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], commands.NewGlobal())
	stop()
	os.Exit(code)
}

// run parses args, executes the selected command and returns the exit code.
func run(ctx context.Context, args []string, global *commands.Global) int {
	var cli commands.CLI
	parser, err := kong.New(&cli,
		kong.Name("doclinks"),
		kong.Description("Check markdown cross-links and heading anchors in a documentation tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Writers(global.Stdout, global.Stderr),
		kong.Bind(global),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		_, _ = fmt.Fprintf(global.Stderr, "doclinks: %v\n", err)
		return foundationerrors.ExitInternal
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(global.Stderr, "doclinks: %v\n", err)
		return foundationerrors.ExitUsage
	}

	return exitCode(kctx.Run(), cli.Verbose, global)
}

func exitCode(err error, verbose bool, global *commands.Global) int {
	switch {
	case err == nil:
		return foundationerrors.ExitOK
	case errors.Is(err, commands.ErrBrokenLinks):
		return foundationerrors.ExitBrokenLinks
	default:
		return foundationerrors.NewCLIErrorAdapter(verbose, slog.Default()).Report(global.Stderr, err)
	}
}
