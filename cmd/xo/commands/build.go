package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xo/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every page that changed since the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clean, _ := cmd.Flags().GetBool("clean")
			force, _ := cmd.Flags().GetBool("force")

			_, err := c.app.Build(cmd.Context(), app.BuildOptions{
				Clean: clean,
				Force: force,
			})
			return err
		},
	}
	cmd.Flags().BoolP("clean", "c", false, "Remove the output directory and build state first")
	cmd.Flags().BoolP("force", "f", false, "Rebuild every page regardless of the cache")
	return cmd
}
