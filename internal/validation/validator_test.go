package validation

import (
	"strings"
	"testing"

	"github.com/darmiel/sitegate/internal/core"
)

func TestValidateRuleset_AppliesDefaults(t *testing.T) {
	rs := &core.Ruleset{}
	if err := ValidateRuleset(rs); err != nil {
		t.Fatalf("ValidateRuleset() unexpected error: %v", err)
	}

	if rs.Thresholds != core.DefaultThresholds() {
		t.Errorf("Thresholds = %+v, want defaults", rs.Thresholds)
	}
	if rs.MinTrainingScore != 80 {
		t.Errorf("MinTrainingScore = %d, want 80", rs.MinTrainingScore)
	}
	if rs.BlacklistDuplicates != core.DuplicateWarn {
		t.Errorf("BlacklistDuplicates = %s, want warn", rs.BlacklistDuplicates)
	}
}

func TestValidateRuleset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rs      core.Ruleset
		wantErr string
	}{
		{
			name:    "Inverted Thresholds",
			rs:      core.Ruleset{Thresholds: core.Thresholds{Critical: 30, Warning: 7, Notice: 90}},
			wantErr: "thresholds.warning",
		},
		{
			name:    "Notice Below Warning",
			rs:      core.Ruleset{Thresholds: core.Thresholds{Critical: 7, Warning: 30, Notice: 30}},
			wantErr: "thresholds.notice",
		},
		{
			name:    "Unknown Duplicate Policy",
			rs:      core.Ruleset{BlacklistDuplicates: "panic"},
			wantErr: "blacklist_duplicates",
		},
		{
			name: "Duplicate Training Requirement",
			rs: core.Ruleset{
				Training: []core.TrainingRequirement{
					{Phase: core.PhaseConstruction, Category: "welder", Courses: []string{"a"}},
					{Phase: core.PhaseConstruction, Category: "welder", Courses: []string{"b"}},
				},
			},
			wantErr: "duplicate training requirement",
		},
		{
			name: "Duplicate Certificate Requirement",
			rs: core.Ruleset{
				Certificates: []core.CertificateRequirement{
					{Category: "welder", Types: []string{"welding"}},
					{Category: "welder", Types: []string{"safety"}},
				},
			},
			wantErr: "duplicate certificate requirement",
		},
		{
			name: "Training Requirement With Bad Phase",
			rs: core.Ruleset{
				Training: []core.TrainingRequirement{
					{Phase: "paused", Category: "welder"},
				},
			},
			wantErr: "invalid phase",
		},
		{
			name: "Custom Rule Without Name",
			rs: core.Ruleset{
				CustomRules: []core.CustomRule{{Expr: "true", Severity: core.SeverityAlert}},
			},
			wantErr: "missing name",
		},
		{
			name: "Custom Rule Name Collision",
			rs: core.Ruleset{
				CustomRules: []core.CustomRule{
					{Name: "r", Expr: "true", Severity: core.SeverityAlert},
					{Name: "r", Expr: "false", Severity: core.SeverityAlert},
				},
			},
			wantErr: "not unique",
		},
		{
			name: "Custom Rule Bad Severity",
			rs: core.Ruleset{
				CustomRules: []core.CustomRule{{Name: "r", Expr: "true", Severity: "fatal"}},
			},
			wantErr: "invalid severity",
		},
		{
			name: "Custom Rule Does Not Compile",
			rs: core.Ruleset{
				CustomRules: []core.CustomRule{{Name: "r", Expr: "((", Severity: core.SeverityFail}},
			},
			wantErr: "compiling expr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRuleset(&tt.rs)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRuleset_CompilesCustomRules(t *testing.T) {
	rs := &core.Ruleset{
		CustomRules: []core.CustomRule{
			{Name: "no-certs", Expr: "len(person.Certificates) == 0", Severity: core.SeverityAlert},
		},
	}
	if err := ValidateRuleset(rs); err != nil {
		t.Fatalf("ValidateRuleset() unexpected error: %v", err)
	}
	if rs.CustomRules[0].CompiledExpr == nil {
		t.Error("CompiledExpr should be set after validation")
	}
}
