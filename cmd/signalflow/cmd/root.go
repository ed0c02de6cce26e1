package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signalflow",
	Short: "An incremental dataflow engine for streaming numeric signals",
	Long: `Signalflow derives streaming signals (moving averages, variance,
oscillators, trading strategies) from raw value streams, re-evaluating only
the dependent computations on each new input.

It provides tools for:
  - Wiring indicator dependency graphs from a YAML pipeline file
  - Streaming per-tick records to stdout, CSV or SQLite journals
  - Incremental sliding-window statistics in O(1)/O(log n) per tick`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
