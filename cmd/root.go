// Package cmd wires the funai command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asdevv/funai/config"
	"github.com/asdevv/funai/logger"
)

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "funai",
	Short: "A minimal chat front end for large language models",
	Long: `funai sends each prompt to an LLM provider as a single-turn request
and shows the reply in a browser page or in the terminal.

Run 'funai onboard' once to store an API key, then 'funai serve'.`,
	SilenceUsage:      true,
	PersistentPreRunE: applyConfigDir,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.funai)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// applyConfigDir switches to the --config-dir directory and re-initializes
// the logger from the config found there.
func applyConfigDir(_ *cobra.Command, _ []string) error {
	if configDirFlag == "" {
		return nil
	}
	config.SetConfigDir(configDirFlag)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.BuildLoggerConfig(), configDirFlag); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}
