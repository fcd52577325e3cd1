package core

import "testing"

func TestReason_String(t *testing.T) {
	tests := []struct {
		name   string
		reason Reason
		want   string
	}{
		{
			name:   "Plain Code",
			reason: Reason{Code: ReasonBlacklisted, Severity: SeverityFail},
			want:   "BLACKLISTED",
		},
		{
			name:   "Expiring With Tier",
			reason: Reason{Code: ReasonCertExpiring, Severity: SeverityAlert, Tier: TierCritical},
			want:   "CERT_EXPIRING:CRITICAL",
		},
		{
			name:   "Missing Qualifier",
			reason: Reason{Code: ReasonTrainingIncomplete, Severity: SeverityFail, Missing: []string{"fire-safety", "work-at-height"}},
			want:   "TRAINING_INCOMPLETE:{fire-safety,work-at-height}",
		},
		{
			name:   "Custom Rule Qualifier",
			reason: Reason{Code: ReasonCustom, Severity: SeverityAlert, Rule: "night-shift"},
			want:   "CUSTOM:night-shift",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reason.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		name    string
		reasons []Reason
		want    Verdict
	}{
		{"No Reasons", nil, VerdictPass},
		{"Only Alerts", []Reason{{Severity: SeverityAlert}, {Severity: SeverityAlert}}, VerdictAlert},
		{"Fail Wins Over Alert", []Reason{{Severity: SeverityAlert}, {Severity: SeverityFail}}, VerdictFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerdictFor(tt.reasons); got != tt.want {
				t.Errorf("VerdictFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTier_MoreUrgentThan(t *testing.T) {
	order := []Tier{TierExpired, TierCritical, TierWarning, TierNotice, TierValid}
	for i := 0; i < len(order)-1; i++ {
		if !order[i].MoreUrgentThan(order[i+1]) {
			t.Errorf("%s should be more urgent than %s", order[i], order[i+1])
		}
		if order[i+1].MoreUrgentThan(order[i]) {
			t.Errorf("%s should not be more urgent than %s", order[i+1], order[i])
		}
	}
	if TierCritical.MoreUrgentThan(TierCritical) {
		t.Error("a tier is not more urgent than itself")
	}
}
