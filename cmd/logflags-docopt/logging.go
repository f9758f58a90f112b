package main

import (
	"log/slog"

	"github.com/docopt/docopt-go"
	"github.com/idr0id/logflags/logflags"
	"github.com/idr0id/logflags/logging"
)

func setupLogger(args docopt.Opts) (*logging.Config, *slog.Logger, error) {
	conf := logging.Default()
	if err := logflags.ApplyDocopt(args, conf); err != nil {
		return nil, nil, err
	}
	conf.Install()

	return conf, conf.Logger("logflags-docopt"), nil
}
