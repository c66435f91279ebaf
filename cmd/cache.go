package cmd

import (
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command group.
var cacheCmd = newCacheCmd()

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analysis result cache",
	}

	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached analysis result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Clearing ignores --no-cache: the configured store is always opened.
			workflow, release, err := newWorkflow(cmd, true)
			defer release()

			if err != nil {
				return err
			}

			return workflow.ClearCache(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
