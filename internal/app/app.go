package app

import (
	"context"
	"log/slog"

	"github.com/idr0id/logflags/logging"
)

// App writes one message per severity level to each requested logger, which
// makes the effect of the level and format flags visible.
type App struct {
	conf    *logging.Config
	message string
}

func New(conf *logging.Config, message string) *App {
	return &App{conf: conf, message: message}
}

// Run emits on the named loggers; no names means the root logger.
func (a *App) Run(ctx context.Context, names []string) error {
	if len(names) == 0 {
		names = []string{""}
	}

	for _, name := range names {
		logger := a.conf.Logger(name)
		for _, level := range emitLevels() {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Log(ctx, level.Slog(), a.message)
		}
	}

	return nil
}

// emitLevels skips FATAL, which shares its rank with CRITICAL.
func emitLevels() []logging.Level {
	var levels []logging.Level
	for _, level := range logging.Levels() {
		if len(levels) > 0 && levels[len(levels)-1] == level {
			continue
		}
		levels = append(levels, level)
	}
	return levels
}

// Summary logs where records are going; it is only visible at DEBUG.
func (a *App) Summary(logger *slog.Logger) {
	logger.Debug(
		"logging configured",
		slog.String("level", logging.LevelName(a.conf.Level())),
		slog.String("format", a.conf.Format()),
		slog.Int("sinks", len(a.conf.Sinks())),
	)
}
