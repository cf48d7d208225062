package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xo/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the output directory and build state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetBool("output")
			state, _ := cmd.Flags().GetBool("state")

			opts := app.CleanOptions{}
			switch {
			case output && !state:
				opts.Output = true
			case state && !output:
				opts.State = true
			default:
				opts.Output = true
				opts.State = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("output", "o", false, "Only remove the output directory")
	cmd.Flags().BoolP("state", "s", false, "Only remove the build cache and dependency graph")

	return cmd
}
