package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/engine"
)

// Processor applies the check engine across a whole record collection.
// Per-person evaluation has no shared mutable state, so the input is
// partitioned across workers; each worker writes into its own disjoint
// index range of the result slice, which keeps the output in input order
// without a post-merge sort.
type Processor struct {
	engine  *engine.Engine
	workers int
}

// Result is one batch run: one CheckResult per input record, in input
// order, plus the summary tally.
type Result struct {
	Results []core.CheckResult `json:"results"`
	Summary core.BatchSummary  `json:"summary"`
}

// New creates a Processor. workers <= 0 means runtime.NumCPU().
func New(eng *engine.Engine, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Processor{engine: eng, workers: workers}
}

// Run evaluates all people as of the given date. A malformed record
// downgrades to FAIL/DATA_INVALID inside the engine and never halts the
// run; a ConfigurationMissingError aborts with no partial output.
func (p *Processor) Run(ctx context.Context, people []core.PersonRecord, asOf core.Date) (*Result, error) {
	if err := p.preflight(people); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]core.CheckResult, len(people))

	workers := p.workers
	if workers > len(people) {
		workers = len(people)
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(people) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(people))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := p.engine.Check(people[i], asOf)
				if err != nil {
					return fmt.Errorf("checking person '%s': %w", people[i].ID, err)
				}
				results[i] = result
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(results)

	log.Info().
		Int("total", summary.Total).
		Int("pass", summary.Verdicts[core.VerdictPass]).
		Int("fail", summary.Verdicts[core.VerdictFail]).
		Int("alert", summary.Verdicts[core.VerdictAlert]).
		Dur("duration", time.Since(start)).
		Msg("batch check completed")

	return &Result{Results: results, Summary: summary}, nil
}

// preflight verifies that the ruleset covers every (phase, category)
// combination in the input before any evaluation starts, so a
// configuration gap never produces partial output.
func (p *Processor) preflight(people []core.PersonRecord) error {
	rs := p.engine.Ruleset()
	seen := make(map[string]struct{})

	for _, person := range people {
		if !person.Phase.IsValid() || person.Category == "" {
			continue // downgraded to DATA_INVALID during evaluation
		}
		key := string(person.Phase) + "/" + string(person.Category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := rs.RequiredCourses(person.Phase, person.Category); !ok {
			return &core.ConfigurationMissingError{
				Table:    "training",
				Phase:    person.Phase,
				Category: person.Category,
			}
		}
		if _, ok := rs.RequiredCertificateTypes(person.Category); !ok {
			return &core.ConfigurationMissingError{
				Table:    "certificates",
				Category: person.Category,
			}
		}
	}
	return nil
}

// Summarize tallies verdicts, reason categories and worst-tier
// distribution over a result slice. The sums always match the slice.
func Summarize(results []core.CheckResult) core.BatchSummary {
	summary := core.BatchSummary{
		Total:            len(results),
		Verdicts:         make(map[core.Verdict]int),
		ReasonCategories: make(map[core.ReasonCode]int),
		Tiers:            make(map[core.Tier]int),
	}

	for _, result := range results {
		summary.Verdicts[result.Verdict]++
		if result.WorstTier != "" {
			summary.Tiers[result.WorstTier]++
		}

		seen := make(map[core.ReasonCode]struct{}, len(result.Reasons))
		for _, reason := range result.Reasons {
			if _, ok := seen[reason.Code]; ok {
				continue // count persons, not reasons
			}
			seen[reason.Code] = struct{}{}
			summary.ReasonCategories[reason.Code]++
		}
	}

	return summary
}
