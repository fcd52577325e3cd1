package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// auditPassesCmd represents the audit passes command
var auditPassesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List the gate passes currently active on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching active passes...")
		active, correlation, err := cli.ListActivePasses(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to fetch active passes")
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Person", "Fingerprint", "Issued", "Expires"})

		for _, p := range active {
			t.AppendRow(table.Row{
				p.PersonID,
				p.Fingerprint,
				p.IssuedAt.Format(time.RFC3339),
				p.ExpiresAt.Format(time.RFC3339),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditPassesCmd)
}
