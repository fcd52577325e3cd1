package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd groups config-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate sitegate configuration",
}

func init() {
	rootCmd.AddCommand(configCmd)
}
