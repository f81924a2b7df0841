package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Wayfinder as an MCP server over Standard Input/Output.
AI agents can list and validate graphs and drive sessions with tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := openApp(cmd, false)
		defer app.Close()

		// Stdout carries JSON-RPC.
		log.SetOutput(os.Stderr)

		srv := mcp.NewServer(app.Engine.Sessions(), app.Engine.Graphs(),
			mcp.WithVersion(wayfinder.Version),
			mcp.WithLogger(app.Logger),
		)
		app.Logger.Info("Starting Wayfinder MCP Server (Stdio)...")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
