package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "subtrack",
		Short:   "Subscription detection over bank-transaction exports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDetectCommand())
	rootCmd.AddCommand(newListCommand())

	return rootCmd
}
