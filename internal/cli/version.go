package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd builds the `version` command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sqlight %s (commit %s, built %s)\n",
				Version, GitCommit, BuildDate)
		},
	}
}
