package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph-id]",
	Short: "Export the decision graph as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the graph. With --session, the nodes
visited by that session, its current node and its chosen edges are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		app := openApp(cmd, true)
		defer app.Close()
		ctx := cmd.Context()

		graphID := content.PermitGraphID
		if len(args) > 0 {
			graphID = args[0]
		}

		var overlay *graph.Overlay
		if sessionID != "" {
			state, err := app.Store.Load(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("load session %q: %w", sessionID, err)
			}
			if len(args) == 0 && state.GraphID != "" {
				graphID = state.GraphID
			}
			overlay = graph.OverlayFromState(state)
		}

		g, err := app.Engine.Graphs().Graph(ctx, graphID)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Session id whose progress is overlaid")
}
