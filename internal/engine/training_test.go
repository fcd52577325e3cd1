package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/darmiel/sitegate/internal/core"
)

func intPtr(n int) *int { return &n }

func TestEvaluateTraining(t *testing.T) {
	rs := &core.Ruleset{
		MinTrainingScore: 80,
		Training: []core.TrainingRequirement{
			{Phase: core.PhaseConstruction, Category: "welder", Courses: []string{"safety-basics", "hot-work"}},
			{Phase: core.PhaseOperation, Category: "welder", Courses: []string{"safety-refresher"}},
		},
	}
	completed := core.NewDate(2025, time.June, 1)

	tests := []struct {
		name        string
		person      core.PersonRecord
		records     []core.TrainingRecord
		wantOK      bool
		wantMissing []string
	}{
		{
			name:   "All Courses Completed",
			person: core.PersonRecord{ID: "P1", Phase: core.PhaseConstruction, Category: "welder"},
			records: []core.TrainingRecord{
				{PersonID: "P1", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
				{PersonID: "P1", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed},
			},
			wantOK: true,
		},
		{
			name:   "Missing One Course",
			person: core.PersonRecord{ID: "P1", Phase: core.PhaseConstruction, Category: "welder"},
			records: []core.TrainingRecord{
				{PersonID: "P1", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed},
			},
			wantMissing: []string{"hot-work"},
		},
		{
			name:   "Wrong Phase Does Not Count",
			person: core.PersonRecord{ID: "P1", Phase: core.PhaseOperation, Category: "welder"},
			records: []core.TrainingRecord{
				// completed during construction, person now in operation
				{PersonID: "P1", Course: "safety-refresher", Phase: core.PhaseConstruction, CompletedAt: completed},
			},
			wantMissing: []string{"safety-refresher"},
		},
		{
			name:   "Score Below Minimum Does Not Count",
			person: core.PersonRecord{ID: "P1", Phase: core.PhaseConstruction, Category: "welder"},
			records: []core.TrainingRecord{
				{PersonID: "P1", Course: "safety-basics", Phase: core.PhaseConstruction, CompletedAt: completed, Score: intPtr(79)},
				{PersonID: "P1", Course: "hot-work", Phase: core.PhaseConstruction, CompletedAt: completed, Score: intPtr(80)},
			},
			wantMissing: []string{"safety-basics"},
		},
		{
			name:   "Unscored Course Counts",
			person: core.PersonRecord{ID: "P1", Phase: core.PhaseOperation, Category: "welder"},
			records: []core.TrainingRecord{
				{PersonID: "P1", Course: "safety-refresher", Phase: core.PhaseOperation, CompletedAt: completed},
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateTraining(tt.person, tt.records, rs)
			if err != nil {
				t.Fatalf("evaluateTraining() unexpected error: %v", err)
			}
			if got.Complete != tt.wantOK {
				t.Errorf("Complete = %v, want %v (missing: %v)", got.Complete, tt.wantOK, got.Missing)
			}
			if len(got.Missing) != len(tt.wantMissing) {
				t.Fatalf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
			for i := range tt.wantMissing {
				if got.Missing[i] != tt.wantMissing[i] {
					t.Errorf("Missing[%d] = %s, want %s", i, got.Missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}

func TestEvaluateTraining_MissingTableEntry(t *testing.T) {
	rs := &core.Ruleset{
		Training: []core.TrainingRequirement{
			{Phase: core.PhaseConstruction, Category: "welder", Courses: []string{"safety-basics"}},
		},
	}
	person := core.PersonRecord{ID: "P1", Phase: core.PhaseOperation, Category: "welder"}

	_, err := evaluateTraining(person, nil, rs)
	var cfgErr *core.ConfigurationMissingError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationMissingError, got %v", err)
	}
	if cfgErr.Table != "training" {
		t.Errorf("Table = %s, want training", cfgErr.Table)
	}
}
