package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"narrow.dev/pkg/narrow/internal/domain"
)

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Report any annotations and their proposed replacements",
		Long:  analyzeLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, release, err := newWorkflow(cmd, useCache())
			defer release()

			if err != nil {
				return err
			}

			return workflow.Analyze(cmd.Context(), domain.AnalyzeArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Batch:   batchOptions(domain.FixOptions{}),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
