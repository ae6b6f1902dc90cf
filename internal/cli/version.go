package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/config"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of agora",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agora version %s (commit %s, built %s)\n", config.Version, config.Commit, config.Date)
		},
	}
}
