package cmd

import (
	"github.com/spf13/cobra"
)

// tasksCmd groups background-task subcommands
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage background tasks of a running server",
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
