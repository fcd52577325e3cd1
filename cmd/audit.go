package cmd

import (
	"github.com/spf13/cobra"
)

// auditCmd groups audit-related subcommands
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail of a running server",
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
