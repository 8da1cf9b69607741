package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - grammar-driven field parsing service",
	Long: `Callisto is a grammar-driven field parsing service for structured text.

It compiles declarative YAML grammars into regex-backed process trees and
parses free-form values into their component parts, providing:
  - Composable parsing strategies (decomposition, cascade, extraction)
  - An HTTP service with hot-reloaded grammar directories
  - A privacy-conscious audit trail of parse operations
  - Prometheus metrics for parse traffic

For more information, visit: https://github.com/mercator-hq/callisto`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
