package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/darmiel/sitegate/internal/blacklist"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/engine"
	"github.com/darmiel/sitegate/internal/validation"
)

func testEngine(t *testing.T, banned []core.BlacklistEntry, training []core.TrainingRecord) *engine.Engine {
	t.Helper()
	rs := &core.Ruleset{
		Training: []core.TrainingRequirement{
			{Phase: core.PhaseConstruction, Category: "welder", Courses: []string{"safety-basics"}},
		},
		Certificates: []core.CertificateRequirement{
			{Category: "welder", Types: []string{"welding"}},
		},
	}
	if err := validation.ValidateRuleset(rs); err != nil {
		t.Fatalf("ValidateRuleset() error: %v", err)
	}
	idx, err := blacklist.Build(banned, core.DuplicateWarn)
	if err != nil {
		t.Fatalf("blacklist.Build() error: %v", err)
	}
	return engine.New(rs, idx, training)
}

// makePeople builds n compliant welders with IDs P-0 .. P-(n-1).
func makePeople(n int, expiresAt core.Date) ([]core.PersonRecord, []core.TrainingRecord) {
	people := make([]core.PersonRecord, 0, n)
	training := make([]core.TrainingRecord, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("P-%d", i)
		expiry := expiresAt
		people = append(people, core.PersonRecord{
			ID: id, Name: "Person " + id, Phase: core.PhaseConstruction, Category: "welder",
			Certificates: []core.Certificate{
				{Type: "welding", Number: fmt.Sprintf("WB%08d", i), ExpiresAt: &expiry},
			},
		})
		training = append(training, core.TrainingRecord{
			PersonID: id, Course: "safety-basics", Phase: core.PhaseConstruction,
			CompletedAt: core.NewDate(2025, time.January, 1),
		})
	}
	return people, training
}

func TestProcessor_Run_OrderPreserved(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	people, training := makePeople(257, asOf.AddDays(200)) // deliberately not a multiple of the worker count

	p := New(testEngine(t, nil, training), 4)
	run, err := p.Run(context.Background(), people, asOf)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(run.Results) != len(people) {
		t.Fatalf("got %d results for %d people", len(run.Results), len(people))
	}
	for i, result := range run.Results {
		if result.PersonID != people[i].ID {
			t.Fatalf("result %d is for %s, want %s", i, result.PersonID, people[i].ID)
		}
	}
}

func TestProcessor_Run_SummaryMatchesResults(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	people, training := makePeople(50, asOf.AddDays(200))

	// ban a few, break one record
	banned := []core.BlacklistEntry{{PersonID: "P-3"}, {PersonID: "P-17"}}
	people[9].Phase = "retired"

	p := New(testEngine(t, banned, training), 8)
	run, err := p.Run(context.Background(), people, asOf)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	sum := 0
	for _, n := range run.Summary.Verdicts {
		sum += n
	}
	if sum != run.Summary.Total || run.Summary.Total != len(people) {
		t.Errorf("verdict counts sum to %d, total %d, people %d", sum, run.Summary.Total, len(people))
	}
	if run.Summary.Verdicts[core.VerdictFail] != 3 {
		t.Errorf("FAIL count = %d, want 3", run.Summary.Verdicts[core.VerdictFail])
	}
	if run.Summary.ReasonCategories[core.ReasonBlacklisted] != 2 {
		t.Errorf("BLACKLISTED persons = %d, want 2", run.Summary.ReasonCategories[core.ReasonBlacklisted])
	}
	if run.Summary.ReasonCategories[core.ReasonDataInvalid] != 1 {
		t.Errorf("DATA_INVALID persons = %d, want 1", run.Summary.ReasonCategories[core.ReasonDataInvalid])
	}
}

func TestProcessor_Run_MalformedRecordDoesNotHaltRun(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	people, training := makePeople(5, asOf.AddDays(200))
	people[2].Certificates[0].ExpiresAt = nil // malformed

	p := New(testEngine(t, nil, training), 2)
	run, err := p.Run(context.Background(), people, asOf)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if got := run.Results[2]; got.Verdict != core.VerdictFail || !got.HasReason(core.ReasonDataInvalid) {
		t.Errorf("result 2 = %s %v, want FAIL with DATA_INVALID", got.Verdict, got.ReasonCodes())
	}
	for _, i := range []int{0, 1, 3, 4} {
		if run.Results[i].Verdict != core.VerdictPass {
			t.Errorf("result %d = %s, want PASS", i, run.Results[i].Verdict)
		}
	}
}

func TestProcessor_Run_ConfigurationGapAbortsWithoutOutput(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	people, training := makePeople(10, asOf.AddDays(200))
	people[7].Category = "rigger" // not in either requirement table

	p := New(testEngine(t, nil, training), 4)
	run, err := p.Run(context.Background(), people, asOf)
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if run != nil {
		t.Errorf("expected no partial output, got %d results", len(run.Results))
	}

	var cfgErr *core.ConfigurationMissingError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationMissingError, got %v", err)
	}
	if cfgErr.Category != "rigger" {
		t.Errorf("Category = %s, want rigger", cfgErr.Category)
	}
}

func TestProcessor_Run_LargeRunDistribution(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	people, training := makePeople(3000, asOf.AddDays(200))

	// inject defects: every 16th person carries an expired certificate,
	// every i%6==3 person loses their training record (disjoint sets, the
	// first is even and the second odd)
	expired, untrained := 0, 0
	kept := make([]core.TrainingRecord, 0, len(training))
	for i := range people {
		switch {
		case i%16 == 0:
			exp := asOf.AddDays(-10)
			people[i].Certificates[0].ExpiresAt = &exp
			expired++
			kept = append(kept, training[i])
		case i%6 == 3:
			untrained++
		default:
			kept = append(kept, training[i])
		}
	}

	p := New(testEngine(t, nil, kept), 8)
	run, err := p.Run(context.Background(), people, asOf)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	sum := 0
	for _, n := range run.Summary.Verdicts {
		sum += n
	}
	if sum != run.Summary.Total || run.Summary.Total != len(people) {
		t.Fatalf("verdict counts sum to %d, total %d, people %d", sum, run.Summary.Total, len(people))
	}

	wantFail := expired + untrained
	if got := run.Summary.Verdicts[core.VerdictFail]; got != wantFail {
		t.Errorf("FAIL count = %d, want %d", got, wantFail)
	}
	if got := run.Summary.Verdicts[core.VerdictPass]; got != len(people)-wantFail {
		t.Errorf("PASS count = %d, want %d", got, len(people)-wantFail)
	}
	if got := run.Summary.ReasonCategories[core.ReasonCertExpired]; got != expired {
		t.Errorf("CERT_EXPIRED persons = %d, want %d", got, expired)
	}
	if got := run.Summary.ReasonCategories[core.ReasonTrainingIncomplete]; got != untrained {
		t.Errorf("TRAINING_INCOMPLETE persons = %d, want %d", got, untrained)
	}
	if got := run.Summary.Tiers[core.TierExpired]; got != expired {
		t.Errorf("EXPIRED tier = %d, want %d", got, expired)
	}
	if got := run.Summary.Tiers[core.TierValid]; got != len(people)-expired {
		t.Errorf("VALID tier = %d, want %d", got, len(people)-expired)
	}
}

func TestSummarize_TierDistribution(t *testing.T) {
	results := []core.CheckResult{
		{Verdict: core.VerdictPass, WorstTier: core.TierValid},
		{Verdict: core.VerdictAlert, WorstTier: core.TierCritical},
		{Verdict: core.VerdictAlert, WorstTier: core.TierCritical},
		{Verdict: core.VerdictFail, WorstTier: core.TierExpired},
		{Verdict: core.VerdictFail}, // blacklisted, no tier
	}

	summary := Summarize(results)
	if summary.Tiers[core.TierCritical] != 2 {
		t.Errorf("CRITICAL = %d, want 2", summary.Tiers[core.TierCritical])
	}
	if summary.Tiers[core.TierExpired] != 1 {
		t.Errorf("EXPIRED = %d, want 1", summary.Tiers[core.TierExpired])
	}
	if _, ok := summary.Tiers[""]; ok {
		t.Error("empty tier must not be counted")
	}
}
