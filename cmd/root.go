package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/idr0id/logflags/logflags"
	"github.com/idr0id/logflags/logging"
	"github.com/spf13/cobra"
)

var (
	errSilent = errors.New("SilentErr")
	errUsage  = errors.New("UsageErr")
)

func Execute() {
	rootCmd, err := newRootCommand(logging.Default())
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) && !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

func newRootCommand(conf *logging.Config) (*cobra.Command, error) {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "logflags",
		Short: "logflags shows how --log-level and --log-format reconfigure logging.",
		Long: `logflags is a demo of the logflags library: the --log-level and --log-format
    		flags reconfigure every logger of the process as soon as they are parsed,
    		optionally starting from defaults read from a TOML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(err)
		cmd.PrintErrln(cmd.UsageString())
		return errUsage
	})

	flags, err := logflags.BindCommand(rootCmd, conf)
	if err != nil {
		return nil, err
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML file with [log] defaults")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger := setupLogger(conf)
		if configPath == "" {
			return nil
		}

		file, err := logflags.ParseConfig(configPath)
		if err != nil {
			logger.Error("configuration error", slog.Any("error", err))
			return errSilent
		}
		if err := flags.ApplyDefaults(file.Log); err != nil {
			logger.Error("configuration error", slog.Any("error", err))
			return errSilent
		}
		return nil
	}

	rootCmd.AddCommand(newEmitCommand(conf))
	rootCmd.AddCommand(newLevelsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd, nil
}
