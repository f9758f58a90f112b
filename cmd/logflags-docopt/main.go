// Binary logflags-docopt
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/idr0id/logflags/internal/app"
	"github.com/idr0id/logflags/logflags"
)

const usage = `logflags-docopt - log one message per level, configured from the command line.

Usage:
  logflags-docopt [options] [<logger>...]

Options:
  -m --message <text>     Message to log at every level.
                           [default: sample message]
  -h --help               Show this help.
`

var version = "[dev-build]"

func main() {
	var (
		doc        = usage + logflags.DocoptOptions()
		args       = parseArgs(doc)
		names, _   = args["<logger>"].([]string)
		message, _ = args["--message"].(string)
	)

	conf, logger, err := setupLogger(args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		_, _ = fmt.Fprint(os.Stderr, doc)
		os.Exit(2)
	}

	a := app.New(conf, message)
	a.Summary(logger)
	if err := a.Run(context.Background(), names); err != nil {
		logger.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseArgs(doc string) docopt.Opts {
	args, err := docopt.ParseArgs(doc, nil, version)
	if err != nil {
		docopt.PrintHelpAndExit(err, doc)
	}

	return args
}
