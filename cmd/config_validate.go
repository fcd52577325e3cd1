package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Parses the configuration file, applies threshold defaults and
	compiles all custom rule expressions without evaluating anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return err
		}
		log.Info().
			Int("training_requirements", len(cfg.Ruleset.Training)).
			Int("certificate_requirements", len(cfg.Ruleset.Certificates)).
			Int("custom_rules", len(cfg.Ruleset.CustomRules)).
			Msg("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)

	bindConfigFlag(configValidateCmd.Flags())
	_ = configValidateCmd.MarkFlagRequired("config")
}
