package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the signalflow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("signalflow", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
