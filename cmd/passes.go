package cmd

import (
	"github.com/spf13/cobra"
)

// passesCmd groups gate-pass subcommands
var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "Issue and inspect signed gate passes",
}

func init() {
	rootCmd.AddCommand(passesCmd)
}
