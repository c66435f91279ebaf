package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"narrow.dev/pkg/narrow/internal/domain"
)

var fixDryRunFlag bool
var fixBackupFlag bool
var fixDefaultFlag string

// fixCmd represents the fix command.
var fixCmd = newFixCmd()

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Rewrite any annotations with their proposed replacements",
		Long:  fixLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Rewrites always rescan, so the cache is never consulted.
			workflow, release, err := newWorkflow(cmd, false)
			defer release()

			if err != nil {
				return err
			}

			return workflow.Fix(cmd.Context(), domain.FixArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Batch: batchOptions(domain.FixOptions{
					ReplacementDefault: fixDefaultFlag,
					DryRun:             fixDryRunFlag,
					Backup:             viper.GetBool(fixBackupKey),
				}),
			})
		},
	}

	configureFixFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func configureFixFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&fixDryRunFlag, dryRunFlagName, false, "show the diff without writing any file")
	cmd.Flags().BoolVar(&fixBackupFlag, backupFlagName, viper.GetBool(fixBackupKey), "write a timestamped .bak copy before rewriting")
	bindFlagToConfig(cmd.Flags().Lookup(backupFlagName), fixBackupKey)
	cmd.Flags().StringVar(&fixDefaultFlag, defaultFlagName, "", "replacement for annotations nothing else resolves (default from analysis.default_type)")
}
