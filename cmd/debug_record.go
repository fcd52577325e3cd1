package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var debugRecordPerson string

var debugRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Dump a person record as the engine sees it",
	Long: `Loads the dataset and dumps the fully joined person record,
	including attached certificates. Useful to verify that the file layout
	and the certificate join do what you expect.`,
	Example: `  sitegate debug record -f sitegate.yaml --person P-1042`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		dataset, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}

		person, ok := dataset.FindPerson(debugRecordPerson)
		if !ok {
			return fmt.Errorf("person '%s' not found in dataset", debugRecordPerson)
		}

		log.Info().Msg(spew.Sdump(person))

		var training int
		for _, tr := range dataset.Training {
			if tr.PersonID == person.ID {
				training++
			}
		}
		log.Info().Msgf("%d training records reference this person", training)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(debugRecordCmd)

	bindConfigFlag(debugRecordCmd.Flags())
	debugRecordCmd.Flags().StringVarP(&debugRecordPerson, "person", "p", "", "ID of the person to dump")

	_ = debugRecordCmd.MarkFlagRequired("config")
	_ = debugRecordCmd.MarkFlagRequired("person")
}
