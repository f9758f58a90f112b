package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "[dev-build]"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Displays the current version of logflags",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logflags version %s\n", version)
		},
	}
}
