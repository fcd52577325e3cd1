package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/service"
)

var (
	explainPerson string
	explainAsOf   string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain why a person passes (or does not pass) the gate",
	Long: `Evaluates a single person and prints every check the engine ran,
	including the ones that passed. Useful to see why someone is being
	denied or which certificate is about to push them into ALERT.

With --server set, the dataset is still read locally but the evaluation
runs against the remote server's active ruleset.`,
	Example: `  # Why is P-1042 denied?
  sitegate explain -f sitegate.yaml --person P-1042

  # How does it look two weeks from now?
  sitegate explain -f sitegate.yaml --person P-1042 --as-of 2026-09-13`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		dataset, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}

		person, ok := dataset.FindPerson(explainPerson)
		if !ok {
			return fmt.Errorf("person '%s' not found in dataset", explainPerson)
		}

		var asOf *core.Date
		if explainAsOf != "" {
			parsed, err := core.ParseDate(explainAsOf)
			if err != nil {
				return fmt.Errorf("parsing --as-of: %w", err)
			}
			asOf = &parsed
		}

		var trace core.Trace
		if viper.GetString(ServerAddrKey) != "" {
			cli, err := getClient()
			if err != nil {
				return err
			}
			resp, correlation, err := cli.Explain(cmd.Context(), service.ExplainRequest{
				Person:   person,
				Training: dataset.Training,
				AsOf:     asOf,
			})
			if err != nil {
				return logError(err, correlation, "remote explain failed")
			}
			trace = resp.Trace
		} else {
			eng, err := buildEngine(cmd.Context(), cfg, dataset)
			if err != nil {
				return err
			}
			date := core.Today()
			if asOf != nil {
				date = *asOf
			}
			if trace, err = eng.ExplainWithTraining(person, dataset.Training, date); err != nil {
				return err
			}
		}

		printTrace(&trace)
		return nil
	},
}

func printTrace(trace *core.Trace) {
	fmt.Printf("\n%s for %s (%s)\n",
		bold("Evaluation Trace"),
		bold(trace.Result.PersonID),
		trace.Result.Name)

	fmt.Println(faint("---------------------------------------------------"))

	for _, step := range trace.Steps {
		icon := redCross
		if step.Passed {
			icon = greenCheck
		}
		fmt.Printf("%s %s\n", icon, bold(step.Name))
		if step.Detail != "" {
			detail := step.Detail
			if step.Passed {
				detail = faint(detail)
			}
			fmt.Printf("  ↳ %s\n", detail)
		}
	}

	fmt.Println(faint("---------------------------------------------------"))
	fmt.Printf("Verdict: %s", bold(colorVerdict(trace.Result.Verdict)))
	if codes := trace.Result.ReasonCodes(); len(codes) > 0 {
		fmt.Printf(" %s", faint(fmt.Sprintf("%v", codes)))
	}
	fmt.Println()
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(explainCmd)

	bindConfigFlag(explainCmd.Flags())
	explainCmd.Flags().StringVarP(&explainPerson, "person", "p", "", "ID of the person to explain")
	explainCmd.Flags().StringVar(&explainAsOf, "as-of", "", "Evaluation date (YYYY-MM-DD, default today)")

	_ = explainCmd.MarkFlagRequired("config")
	_ = explainCmd.MarkFlagRequired("person")
}
