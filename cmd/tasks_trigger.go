package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tasksTriggerCmd = &cobra.Command{
	Use:   "trigger TASK-NAME",
	Short: "Trigger a background task manually",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cli, err := getClient()
		if err != nil {
			return err
		}

		correlation, err := cli.TriggerTask(cmd.Context(), name)
		if err != nil {
			return logError(err, correlation, "failed to trigger task")
		}

		log.Info().Msgf("Task '%s' triggered", name)
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksTriggerCmd)
}
