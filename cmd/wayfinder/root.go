package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "wayfinder",
	Short: "Wayfinder is a guided decision engine for branching questionnaires",
	Long: `Wayfinder walks users through a decision tree, one question per screen,
until it reaches an outcome. It also runs linear surveys with conditional questions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (default wayfinder.yaml)")
	rootCmd.PersistentFlags().StringP("content", "d", "", "Content directory (YAML/JSON catalog or Markdown tree); bundled content when empty")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// openApp wires the app from the global flags. Durable apps never use the memory store.
func openApp(cmd *cobra.Command, durable bool) *cli.App {
	configPath, _ := cmd.Flags().GetString("config")
	contentDir, _ := cmd.Flags().GetString("content")
	debug, _ := cmd.Flags().GetBool("debug")

	app, err := cli.NewApp(cmd.Context(), cli.Options{
		ConfigPath: configPath,
		ContentDir: contentDir,
		Debug:      debug,
		Durable:    durable,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing wayfinder: %v\n", err)
		os.Exit(1)
	}
	return app
}
