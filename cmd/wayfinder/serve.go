package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the tree and survey JSON API, Server-Sent Events at /events and
Prometheus metrics at /metrics. Sessions live in the configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		watch, _ := cmd.Flags().GetBool("watch")

		app := openApp(cmd, false)
		defer app.Close()

		return cli.Serve(cmd.Context(), app, cli.ServeOptions{Addr: addr, Watch: watch})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload content on change and stream changes at /events")
}
