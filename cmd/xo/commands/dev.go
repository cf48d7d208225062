package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xo/internal/app"
)

func (c *CLI) newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Serve the site and rebuild it on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port, _ := cmd.Flags().GetInt("port")
			backend, _ := cmd.Flags().GetString("backend")
			synchronous, _ := cmd.Flags().GetBool("sync")

			return c.app.Dev(cmd.Context(), app.DevOptions{
				Port:    port,
				Backend: backend,
				Sync:    synchronous,
			})
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Port to serve on (defaults to the configured port)")
	cmd.Flags().StringP("backend", "b", "", "Watch backend: auto, inotify, or fsnotify")
	cmd.Flags().Bool("sync", false, "Rebuild on the watcher thread instead of a queue")
	return cmd
}
