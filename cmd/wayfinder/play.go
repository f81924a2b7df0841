package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/internal/metrics"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/pkg/session"
)

var playCmd = &cobra.Command{
	Use:   "play [graph-id]",
	Short: "Walk a decision graph in the terminal",
	Long: `Starts an interactive traversal. Progress is saved after every step, so an
interrupted session resumes where it stopped. Type a number to choose an option,
b to go back, r to restart and q to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		slot, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")

		app := openApp(cmd, true)
		defer app.Close()
		ctx := cmd.Context()

		graphID := content.PermitGraphID
		if len(args) > 0 {
			graphID = args[0]
		}
		g, err := app.Engine.Graphs().Graph(ctx, graphID)
		if err != nil {
			return err
		}

		machine := session.NewMachine(g,
			session.WithMachineLogger(app.Logger),
			session.WithHooks(metrics.TreeHooks()),
		)
		tracker := session.NewTracker(machine, app.Store,
			session.WithSlot(slot),
			session.WithTrackerLogger(app.Logger),
		)

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), wayfinder.Version)
		}
		return cli.Play(ctx, tracker, cli.PlayOptions{
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
			Render:   tui.NewRenderer(),
			UserName: name,
			Fresh:    fresh,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("name", "", "Your name, used in the questions")
	playCmd.Flags().String("session", session.DefaultSlot, "Storage slot of the session")
	playCmd.Flags().Bool("fresh", false, "Discard the saved session and start over")
}
