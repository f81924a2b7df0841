package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph-id|path]",
	Short: "Check graphs for consistency",
	Long: `Reports missing start nodes, dangling edges, duplicate option keys, dead-end
questions and unreachable nodes. With no argument every graph is checked; a directory
argument checks the content it holds; a file argument checks that artifact alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
			if info, err := os.Stat(target); err == nil && info.IsDir() {
				if err := cmd.Flags().Set("content", target); err != nil {
					return err
				}
				target = ""
			}
		}

		app := openApp(cmd, false)
		defer app.Close()

		ok, err := cli.Validate(cmd.Context(), cmd.OutOrStdout(), app.Engine.Graphs(), target)
		if err != nil {
			return err
		}
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
