package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/sitegate/internal/audit"
	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/passes"
)

var passIssuePerson string

var passesIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed gate pass for an admissible person",
	Long: `Checks the person against the configured ruleset and, if they are
	admissible (PASS or ALERT), mints a signed gate pass. The pass never
	outlives the person's earliest certificate expiry.`,
	Example: `  sitegate passes issue -f sitegate.yaml --person P-1042`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if !cfg.Passes.Enabled {
			return fmt.Errorf("pass issuing is not enabled in the config")
		}

		dataset, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}

		person, ok := dataset.FindPerson(passIssuePerson)
		if !ok {
			return fmt.Errorf("person '%s' not found in dataset", passIssuePerson)
		}

		eng, err := buildEngine(cmd.Context(), cfg, dataset)
		if err != nil {
			return err
		}

		result, err := eng.CheckWithTraining(person, dataset.Training, core.Today())
		if err != nil {
			return fmt.Errorf("checking person: %w", err)
		}

		issuer, err := passes.NewIssuer(cfg.Passes)
		if err != nil {
			return fmt.Errorf("building pass issuer: %w", err)
		}

		pass, err := issuer.Issue(person, result)
		if err != nil {
			if errors.Is(err, passes.ErrNotEligible) {
				fmt.Printf("\n%s %s is not admissible (%s): %v\n\n",
					redCross, person.ID, result.Verdict, result.ReasonCodes())
				return err
			}
			return fmt.Errorf("issuing pass: %w", err)
		}

		if err := auditPassIssue(cfg, person, result, pass); err != nil {
			log.Warn().Err(err).Msg("failed to write pass audit entry")
		}

		fmt.Printf("\n%s Pass issued for %s (%s), valid until %s\n",
			greenCheck, bold(person.ID), person.Name, pass.ExpiresAt.Format(time.RFC3339))
		fmt.Printf("  %s: %s\n\n", faint("Fingerprint"), pass.Fingerprint)
		fmt.Println(pass.Token)
		return nil
	},
}

func auditPassIssue(cfg *config.Config, person core.PersonRecord, result core.CheckResult, pass *passes.Pass) error {
	auditor, err := audit.Build(cfg.Audit)
	if err != nil {
		return err
	}
	defer func() {
		_ = auditor.Close()
	}()

	return auditor.Log(core.AuditEntry{
		ID:              xid.New().String(),
		Time:            time.Now(),
		Action:          core.ActionPassIssue,
		AsOf:            result.AsOf,
		PersonID:        person.ID,
		Verdict:         result.Verdict,
		Reasons:         result.ReasonCodes(),
		PassFingerprint: pass.Fingerprint,
	})
}

func init() {
	passesCmd.AddCommand(passesIssueCmd)

	bindConfigFlag(passesIssueCmd.Flags())
	passesIssueCmd.Flags().StringVarP(&passIssuePerson, "person", "p", "", "ID of the person to issue a pass for")

	_ = passesIssueCmd.MarkFlagRequired("config")
	_ = passesIssueCmd.MarkFlagRequired("person")
}
