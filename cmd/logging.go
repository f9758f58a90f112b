package cmd

import (
	"log/slog"

	"github.com/idr0id/logflags/logging"
)

const loggerName = "logflags"

// setupLogger routes slog.Default through conf and returns the command's own logger.
func setupLogger(conf *logging.Config) *slog.Logger {
	conf.Install()

	return conf.Logger(loggerName)
}
