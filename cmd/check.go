package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/sitegate/internal/audit"
	"github.com/darmiel/sitegate/internal/batch"
	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
)

var (
	checkAsOf    string
	checkOut     string
	checkWorkers int
	checkAll     bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a compliance check over the whole person collection",
	Long: `Loads the configured dataset, evaluates every person against the
	ruleset and prints the verdict summary. Results keep the input order.`,
	Example: `  # Check everyone as of today
  sitegate check -f sitegate.yaml

  # Check against a future date and export the full results
  sitegate check -f sitegate.yaml --as-of 2026-10-01 --out results.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		dataset, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}

		eng, err := buildEngine(cmd.Context(), cfg, dataset)
		if err != nil {
			return err
		}

		asOf := core.Today()
		if checkAsOf != "" {
			if asOf, err = core.ParseDate(checkAsOf); err != nil {
				return fmt.Errorf("parsing --as-of: %w", err)
			}
		}

		workers := cfg.Workers
		if checkWorkers > 0 {
			workers = checkWorkers
		}

		processor := batch.New(eng, workers)
		run, err := processor.Run(cmd.Context(), dataset.People, asOf)
		if err != nil {
			return fmt.Errorf("batch run failed: %w", err)
		}

		if err := auditBatchRun(cfg, asOf, run); err != nil {
			log.Warn().Err(err).Msg("failed to write batch audit entry")
		}

		printSummary(asOf, &run.Summary)
		printResults(run.Results)

		if checkOut != "" {
			if err := writeResults(checkOut, run); err != nil {
				return fmt.Errorf("writing results: %w", err)
			}
			log.Info().Msgf("Wrote %d results to %s", len(run.Results), checkOut)
		}
		return nil
	},
}

// auditBatchRun records the run summary plus one entry per failed person,
// grouped under a shared run ID.
func auditBatchRun(cfg *config.Config, asOf core.Date, run *batch.Result) error {
	auditor, err := audit.Build(cfg.Audit)
	if err != nil {
		return err
	}
	defer func() {
		_ = auditor.Close()
	}()

	for _, entry := range run.AuditEntries(asOf, time.Now()) {
		if err := auditor.Log(entry); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(asOf core.Date, summary *core.BatchSummary) {
	fmt.Printf("\n%s (as of %s)\n", bold("Check Summary"), asOf)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Verdict", "Count"})
	t.AppendRow(table.Row{color.GreenString("PASS"), summary.Verdicts[core.VerdictPass]})
	t.AppendRow(table.Row{color.YellowString("ALERT"), summary.Verdicts[core.VerdictAlert]})
	t.AppendRow(table.Row{color.RedString("FAIL"), summary.Verdicts[core.VerdictFail]})
	t.AppendFooter(table.Row{"Total", summary.Total})
	applyTableFormat(t)
	t.Render()

	if len(summary.Tiers) > 0 {
		fmt.Printf("\n%s\n", bold("Certificate Expiry Tiers"))
		tt := table.NewWriter()
		tt.SetOutputMirror(os.Stdout)
		tt.AppendHeader(table.Row{"Tier", "Persons"})
		for _, tier := range []core.Tier{core.TierExpired, core.TierCritical, core.TierWarning, core.TierNotice, core.TierValid} {
			if n, ok := summary.Tiers[tier]; ok {
				tt.AppendRow(table.Row{string(tier), n})
			}
		}
		applyTableFormat(tt)
		tt.Render()
	}
}

func printResults(results []core.CheckResult) {
	flagged := 0
	for _, r := range results {
		if r.Verdict != core.VerdictPass {
			flagged++
		}
	}
	if flagged == 0 && !checkAll {
		fmt.Printf("\n%s everyone is admissible\n\n", greenCheck)
		return
	}

	fmt.Printf("\n%s\n", bold("Flagged Persons"))
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Person", "Name", "Verdict", "Reasons"})

	for _, r := range results {
		if r.Verdict == core.VerdictPass && !checkAll {
			continue
		}
		t.AppendRow(table.Row{
			r.PersonID,
			truncate(r.Name, 30),
			colorVerdict(r.Verdict),
			truncate(strings.Join(r.ReasonCodes(), ", "), 60),
		})
	}
	applyTableFormat(t)
	t.Render()
	fmt.Println()
}

func colorVerdict(v core.Verdict) string {
	switch v {
	case core.VerdictPass:
		return color.GreenString(string(v))
	case core.VerdictAlert:
		return color.YellowString(string(v))
	default:
		return color.RedString(string(v))
	}
}

func writeResults(path string, run *batch.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func init() {
	rootCmd.AddCommand(checkCmd)

	bindConfigFlag(checkCmd.Flags())
	checkCmd.Flags().StringVar(&checkAsOf, "as-of", "", "Evaluation date (YYYY-MM-DD, default today)")
	checkCmd.Flags().StringVarP(&checkOut, "out", "o", "", "Write the full results as JSON to this file")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "Number of evaluation workers (overrides config)")
	checkCmd.Flags().BoolVarP(&checkAll, "all", "a", false, "List every person, not only flagged ones")

	_ = checkCmd.MarkFlagRequired("config")
}
