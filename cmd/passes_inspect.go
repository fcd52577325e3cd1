package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var passesInspectCmd = &cobra.Command{
	Use:   "inspect PASS-TOKEN",
	Short: "Print the claims of a gate pass",
	Long: `Decodes a gate pass and displays its claims. It does not verify the
	signature, it simply shows what the pass carries.`,
	Example: `  sitegate passes inspect <pass token>`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenInput := args[0]
		if tokenInput == "" {
			return fmt.Errorf("pass token cannot be empty")
		}

		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(tokenInput, jwt.MapClaims{})
		if err != nil {
			return fmt.Errorf("parsing pass: %w", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fmt.Errorf("invalid pass claims")
		}

		log.Info().Msg("Pass Claims:")
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(claims); err != nil {
			log.Warn().Err(err).Msg("failed to pretty-print claims")
		}

		if sub, ok := claims["sub"]; ok {
			log.Info().Msgf("Person (sub): %v", sub)
		} else {
			log.Warn().Msg("Pass does not contain 'sub' claim")
		}

		if verdict, ok := claims["verdict"]; ok {
			log.Info().Msgf("Verdict at issue time: %v", verdict)
		}

		// print & parse expiration if present and print remaining
		if expRaw, ok := claims["exp"]; ok {
			if expFloat, ok := expRaw.(float64); ok {
				expInt := int64(expFloat)
				expTime := time.Unix(expInt, 0)
				remaining := time.Until(expTime)
				log.Info().Msgf("Expiration (exp): %v (in %v)", expTime, remaining)
			}
		}

		return nil
	},
}

func init() {
	passesCmd.AddCommand(passesInspectCmd)
}
