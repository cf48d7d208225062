package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a sample site",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			files, err := c.app.Init(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, file := range files {
				_, _ = fmt.Fprintln(out, file)
			}
			return nil
		},
	}
}
