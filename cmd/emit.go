package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	application "github.com/idr0id/logflags/internal/app"
	"github.com/idr0id/logflags/logging"
	"github.com/spf13/cobra"
)

func newEmitCommand(conf *logging.Config) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "emit [logger...]",
		Short: "Logs one message per level on each named logger (root by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := conf.Logger(loggerName)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app := application.New(conf, message)
			app.Summary(logger)
			if err := app.Run(ctx, args); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("emit failed", slog.Any("error", err))
				return errSilent
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "sample message", "Message to log at every level")

	return cmd
}

