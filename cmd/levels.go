package cmd

import (
	"fmt"

	"github.com/idr0id/logflags/logging"
	"github.com/spf13/cobra"
)

func newLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Lists the accepted --log-level values and their ranks",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range logging.LevelNames() {
				level, _ := logging.ParseLevel(name)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d\n", name, int(level.Slog()))
			}
		},
	}
}
