package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/darmiel/sitegate/internal/blacklist"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/validation"
)

// testRuleset builds a validated ruleset covering welders and electricians
// in both phases.
func testRuleset(t *testing.T) *core.Ruleset {
	t.Helper()
	rs := &core.Ruleset{
		Training: []core.TrainingRequirement{
			{Phase: core.PhaseConstruction, Category: "welder", Courses: []string{"safety-basics", "hot-work"}},
			{Phase: core.PhaseConstruction, Category: "electrician", Courses: []string{"safety-basics"}},
			{Phase: core.PhaseOperation, Category: "welder", Courses: []string{"safety-refresher"}},
			{Phase: core.PhaseOperation, Category: "electrician", Courses: []string{"safety-refresher"}},
		},
		Certificates: []core.CertificateRequirement{
			{Category: "welder", Types: []string{"welding"}},
			{Category: "electrician", Types: []string{"electrical"}},
		},
	}
	if err := validation.ValidateRuleset(rs); err != nil {
		t.Fatalf("ValidateRuleset() error: %v", err)
	}
	return rs
}

func testEngine(t *testing.T, rs *core.Ruleset, banned []core.BlacklistEntry, training []core.TrainingRecord) *Engine {
	t.Helper()
	idx, err := blacklist.Build(banned, core.DuplicateWarn)
	if err != nil {
		t.Fatalf("blacklist.Build() error: %v", err)
	}
	return New(rs, idx, training)
}

func TestEngine_Check(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	completed := core.NewDate(2025, time.June, 1)

	soon := asOf.AddDays(5)       // CRITICAL
	expired := asOf.AddDays(-30)  // EXPIRED
	farAway := asOf.AddDays(300)  // VALID
	midRange := asOf.AddDays(45)  // NOTICE

	rs := testRuleset(t)

	compliantWelder := core.PersonRecord{
		ID: "P-100", Name: "Ayşe Demir", Phase: core.PhaseConstruction, Category: "welder",
		Certificates: []core.Certificate{
			{Type: "welding", Number: "WB12345678", ExpiresAt: &farAway},
		},
	}
	welderTraining := []core.TrainingRecord{
		{PersonID: "P-100", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
		{PersonID: "P-100", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed},
	}

	tests := []struct {
		name        string
		person      core.PersonRecord
		training    []core.TrainingRecord
		banned      []core.BlacklistEntry
		wantVerdict core.Verdict
		wantReasons []string
		wantTier    core.Tier
	}{
		{
			name:        "Fully Compliant",
			person:      compliantWelder,
			training:    welderTraining,
			wantVerdict: core.VerdictPass,
			wantTier:    core.TierValid,
		},
		{
			name: "Expiring Certificate Alerts",
			person: core.PersonRecord{
				ID: "P-101", Name: "Mehmet Kaya", Phase: core.PhaseConstruction, Category: "welder",
				Certificates: []core.Certificate{
					{Type: "welding", Number: "WB22334455", ExpiresAt: &soon},
				},
			},
			training: []core.TrainingRecord{
				{PersonID: "P-101", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
				{PersonID: "P-101", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed},
			},
			wantVerdict: core.VerdictAlert,
			wantReasons: []string{"CERT_EXPIRING:CRITICAL"},
			wantTier:    core.TierCritical,
		},
		{
			name:     "Blacklisted Short Circuits",
			person:   compliantWelder,
			training: welderTraining,
			banned: []core.BlacklistEntry{
				{PersonID: "P-100", Reason: "safety violation"},
			},
			wantVerdict: core.VerdictFail,
			wantReasons: []string{"BLACKLISTED"},
		},
		{
			name: "Blacklisted Via Composite Key",
			person: core.PersonRecord{
				ID: "P-102", Name: "Wei Chen", IDNumber: "E1234567", Phase: core.PhaseOperation, Category: "welder",
			},
			banned: []core.BlacklistEntry{
				{Name: "Wei Chen", IDNumber: "E1234567"},
			},
			wantVerdict: core.VerdictFail,
			wantReasons: []string{"BLACKLISTED"},
		},
		{
			name: "Electrician Without Certificate",
			person: core.PersonRecord{
				ID: "P-103", Name: "Fatma Yilmaz", Phase: core.PhaseConstruction, Category: "electrician",
			},
			training: []core.TrainingRecord{
				{PersonID: "P-103", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
			},
			wantVerdict: core.VerdictFail,
			wantReasons: []string{"CERT_EXPIRED", "QUALIFICATION_MISMATCH:{electrical}"},
			wantTier:    core.TierExpired,
		},
		{
			name: "Expired Certificate Plus Missing Training",
			person: core.PersonRecord{
				ID: "P-104", Name: "Ali Oz", Phase: core.PhaseConstruction, Category: "welder",
				Certificates: []core.Certificate{
					{Type: "welding", Number: "WB99887766", ExpiresAt: &expired},
				},
			},
			wantVerdict: core.VerdictFail,
			wantReasons: []string{"CERT_EXPIRED", "TRAINING_INCOMPLETE:{hot-work,safety-basics}"},
			wantTier:    core.TierExpired,
		},
		{
			name: "Malformed Record Downgrades To Data Invalid",
			person: core.PersonRecord{
				ID: "P-105", Name: "No Phase", Phase: "vacation", Category: "welder",
			},
			wantVerdict: core.VerdictFail,
			wantReasons: []string{"DATA_INVALID:{phase}"},
		},
		{
			name: "Bad Certificate Serial Alerts",
			person: core.PersonRecord{
				ID: "P-106", Name: "Serial Problem", Phase: core.PhaseConstruction, Category: "welder",
				Certificates: []core.Certificate{
					{Type: "welding", Number: "12345", ExpiresAt: &midRange},
				},
			},
			training: []core.TrainingRecord{
				{PersonID: "P-106", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
				{PersonID: "P-106", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed},
			},
			wantVerdict: core.VerdictAlert,
			wantReasons: []string{"CERT_EXPIRING:NOTICE", "CERT_FORMAT_INVALID:{12345}"},
			wantTier:    core.TierNotice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := testEngine(t, rs, tt.banned, tt.training)

			got, err := eng.Check(tt.person, asOf)
			if err != nil {
				t.Fatalf("Check() unexpected error: %v", err)
			}

			if got.Verdict != tt.wantVerdict {
				t.Errorf("Verdict = %s, want %s (reasons: %v)", got.Verdict, tt.wantVerdict, got.ReasonCodes())
			}
			if tt.wantReasons != nil && !reflect.DeepEqual(got.ReasonCodes(), tt.wantReasons) {
				t.Errorf("ReasonCodes = %v, want %v", got.ReasonCodes(), tt.wantReasons)
			}
			if tt.wantTier != "" && got.WorstTier != tt.wantTier {
				t.Errorf("WorstTier = %s, want %s", got.WorstTier, tt.wantTier)
			}
		})
	}
}

func TestEngine_Check_BlacklistHidesOtherFindings(t *testing.T) {
	// A blacklisted person with expired certificates and no training must
	// still report BLACKLISTED as the only reason.
	asOf := core.NewDate(2026, time.March, 1)
	expired := asOf.AddDays(-100)

	rs := testRuleset(t)
	person := core.PersonRecord{
		ID: "P-200", Name: "Banned Person", Phase: core.PhaseConstruction, Category: "welder",
		Certificates: []core.Certificate{
			{Type: "welding", Number: "WB00000000", ExpiresAt: &expired},
		},
	}
	eng := testEngine(t, rs, []core.BlacklistEntry{{PersonID: "P-200"}}, nil)

	got, err := eng.Check(person, asOf)
	if err != nil {
		t.Fatalf("Check() unexpected error: %v", err)
	}
	if len(got.Reasons) != 1 || got.Reasons[0].Code != core.ReasonBlacklisted {
		t.Errorf("expected exactly one BLACKLISTED reason, got %v", got.ReasonCodes())
	}
	if got.WorstTier != "" {
		t.Errorf("WorstTier must stay empty for blacklisted persons, got %s", got.WorstTier)
	}
}

func TestEngine_Check_ConfigurationGapIsFatal(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	rs := testRuleset(t)
	person := core.PersonRecord{
		ID: "P-300", Name: "Unknown Trade", Phase: core.PhaseConstruction, Category: "rigger",
	}
	eng := testEngine(t, rs, nil, nil)

	if _, err := eng.Check(person, asOf); err == nil {
		t.Fatal("expected a configuration error for the unknown category")
	}
}

func TestEngine_Check_CustomRule(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	farAway := asOf.AddDays(300)
	completed := core.NewDate(2025, time.June, 1)

	rs := testRuleset(t)
	rs.CustomRules = []core.CustomRule{
		{
			Name:     "operation-needs-certificates",
			Expr:     `phase == "operation" && len(person.Certificates) == 0`,
			Severity: core.SeverityAlert,
			Detail:   "operation-phase person without any certificates on file",
		},
	}
	if err := validation.ValidateRuleset(rs); err != nil {
		t.Fatalf("ValidateRuleset() error: %v", err)
	}

	person := core.PersonRecord{
		ID: "P-400", Name: "Op Person", Phase: core.PhaseConstruction, Category: "welder",
		Certificates: []core.Certificate{
			{Type: "welding", Number: "WB55667788", ExpiresAt: &farAway},
		},
	}
	training := []core.TrainingRecord{
		{PersonID: "P-400", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
		{PersonID: "P-400", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed},
	}

	eng := testEngine(t, rs, nil, training)
	got, err := eng.Check(person, asOf)
	if err != nil {
		t.Fatalf("Check() unexpected error: %v", err)
	}
	if got.HasReason(core.ReasonCustom) {
		t.Errorf("rule should not fire for construction phase, got %v", got.ReasonCodes())
	}

	// same person moved to operation, qualification table covers welders
	person.Phase = core.PhaseOperation
	person.Certificates = nil
	eng = testEngine(t, rs, nil, []core.TrainingRecord{
		{PersonID: "P-400", Course: "safety-refresher", Phase: core.PhaseOperation, CompletedAt: completed},
	})
	got, err = eng.Check(person, asOf)
	if err != nil {
		t.Fatalf("Check() unexpected error: %v", err)
	}
	if !got.HasReason(core.ReasonCustom) {
		t.Errorf("expected CUSTOM reason, got %v", got.ReasonCodes())
	}
}

func TestEngine_Check_Deterministic(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	expired := asOf.AddDays(-5)

	rs := testRuleset(t)
	person := core.PersonRecord{
		ID: "P-500", Name: "Repeat Me", Phase: core.PhaseConstruction, Category: "welder",
		Certificates: []core.Certificate{
			{Type: "welding", Number: "WB11223344", ExpiresAt: &expired},
		},
	}
	eng := testEngine(t, rs, nil, nil)

	first, err := eng.Check(person, asOf)
	if err != nil {
		t.Fatalf("Check() unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := eng.Check(person, asOf)
		if err != nil {
			t.Fatalf("Check() unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestEngine_Explain_CoversAllSteps(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	farAway := asOf.AddDays(300)
	completed := core.NewDate(2025, time.June, 1)

	rs := testRuleset(t)
	person := core.PersonRecord{
		ID: "P-600", Name: "Explained", Phase: core.PhaseConstruction, Category: "welder",
		Certificates: []core.Certificate{
			{Type: "welding", Number: "WB12121212", ExpiresAt: &farAway},
		},
	}
	training := []core.TrainingRecord{
		{PersonID: "P-600", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
		{PersonID: "P-600", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed},
	}

	eng := testEngine(t, rs, nil, training)
	trace, err := eng.Explain(person, asOf)
	if err != nil {
		t.Fatalf("Explain() unexpected error: %v", err)
	}

	wantSteps := []string{"blacklist", "record", "certificate expiry", "certificate format", "training", "qualification"}
	if len(trace.Steps) != len(wantSteps) {
		t.Fatalf("got %d steps, want %d: %+v", len(trace.Steps), len(wantSteps), trace.Steps)
	}
	for i, step := range trace.Steps {
		if step.Name != wantSteps[i] {
			t.Errorf("step %d = %s, want %s", i, step.Name, wantSteps[i])
		}
		if !step.Passed {
			t.Errorf("step %s should have passed: %s", step.Name, step.Detail)
		}
	}
	if trace.Result.Verdict != core.VerdictPass {
		t.Errorf("Verdict = %s, want PASS", trace.Result.Verdict)
	}
}

func TestEngine_Explain_StopsAfterBlacklist(t *testing.T) {
	asOf := core.NewDate(2026, time.March, 1)
	rs := testRuleset(t)
	person := core.PersonRecord{ID: "P-700", Name: "Banned", Phase: core.PhaseConstruction, Category: "welder"}

	eng := testEngine(t, rs, []core.BlacklistEntry{{PersonID: "P-700"}}, nil)
	trace, err := eng.Explain(person, asOf)
	if err != nil {
		t.Fatalf("Explain() unexpected error: %v", err)
	}
	if len(trace.Steps) != 1 || trace.Steps[0].Name != "blacklist" {
		t.Fatalf("expected a single blacklist step, got %+v", trace.Steps)
	}
	if trace.Steps[0].Passed {
		t.Error("blacklist step should be marked failed")
	}
}
