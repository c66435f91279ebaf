package cmd

import (
	"github.com/spf13/cobra"

	"narrow.dev/pkg/narrow/internal/domain"
	m "narrow.dev/pkg/narrow/internal/model"
)

// interfaceCmd represents the interface command.
var interfaceCmd = newInterfaceCmd()

func newInterfaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interface <file> <component>",
		Short: "Generate a props interface for a React component",
		Long: `Reconstruct the props interface of a component from its declared props type,
destructuring patterns, default values and how props are used in its body.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, release, err := newWorkflow(cmd, false)
			defer release()

			if err != nil {
				return err
			}

			return workflow.Interface(cmd.Context(), domain.InterfaceArgs{
				Path:      m.Path(args[0]),
				Component: args[1],
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(interfaceCmd)
}
