package core

import (
	"fmt"
	"strings"
)

// Verdict is the final access classification for one person.
type Verdict string

const (
	VerdictPass  Verdict = "PASS"
	VerdictFail  Verdict = "FAIL"
	VerdictAlert Verdict = "ALERT"
)

// Severity says how a single reason contributes to the final verdict.
type Severity string

const (
	// SeverityFail forces the overall verdict to FAIL.
	SeverityFail Severity = "fail"
	// SeverityAlert keeps the person admissible but flags them.
	SeverityAlert Severity = "alert"
)

func (s Severity) IsValid() bool {
	return s == SeverityFail || s == SeverityAlert
}

// Tier is the urgency bucket for a certificate's time to expiry.
type Tier string

const (
	TierExpired  Tier = "EXPIRED"
	TierCritical Tier = "CRITICAL"
	TierWarning  Tier = "WARNING"
	TierNotice   Tier = "NOTICE"
	TierValid    Tier = "VALID"
)

// urgency ranks tiers, lower is more urgent.
func (t Tier) urgency() int {
	switch t {
	case TierExpired:
		return 0
	case TierCritical:
		return 1
	case TierWarning:
		return 2
	case TierNotice:
		return 3
	default:
		return 4
	}
}

// MoreUrgentThan reports whether t is a more urgent tier than other.
func (t Tier) MoreUrgentThan(other Tier) bool {
	return t.urgency() < other.urgency()
}

// ReasonCode is the structured tag explaining why a verdict was reached.
type ReasonCode string

const (
	ReasonBlacklisted           ReasonCode = "BLACKLISTED"
	ReasonDataInvalid           ReasonCode = "DATA_INVALID"
	ReasonCertExpired           ReasonCode = "CERT_EXPIRED"
	ReasonCertExpiring          ReasonCode = "CERT_EXPIRING"
	ReasonCertFormatInvalid     ReasonCode = "CERT_FORMAT_INVALID"
	ReasonTrainingIncomplete    ReasonCode = "TRAINING_INCOMPLETE"
	ReasonQualificationMismatch ReasonCode = "QUALIFICATION_MISMATCH"
	// ReasonCustom tags reasons produced by configured expression rules.
	// The rule's own reason string is carried in the qualifier.
	ReasonCustom ReasonCode = "CUSTOM"
)

// Reason is one finding from a single check, with enough detail for the
// reporting layer to render it without re-running anything.
type Reason struct {
	Code     ReasonCode `json:"code" yaml:"code"`
	Severity Severity   `json:"severity" yaml:"severity"`

	// Detail is the human-readable explanation.
	Detail string `json:"detail" yaml:"detail"`

	// Tier qualifies CERT_EXPIRING reasons.
	Tier Tier `json:"tier,omitempty" yaml:"tier,omitempty"`

	// Missing qualifies TRAINING_INCOMPLETE (course codes),
	// QUALIFICATION_MISMATCH (certificate types) and DATA_INVALID (fields).
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`

	// Rule is the name of the custom rule for CUSTOM reasons.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// String renders the qualified reason code, e.g. "CERT_EXPIRING:CRITICAL" or
// "TRAINING_INCOMPLETE:{fire-safety,work-at-height}".
func (r Reason) String() string {
	switch {
	case r.Code == ReasonCertExpiring && r.Tier != "":
		return fmt.Sprintf("%s:%s", r.Code, r.Tier)
	case r.Code == ReasonCustom && r.Rule != "":
		return fmt.Sprintf("%s:%s", r.Code, r.Rule)
	case len(r.Missing) > 0:
		return fmt.Sprintf("%s:{%s}", r.Code, strings.Join(r.Missing, ","))
	default:
		return string(r.Code)
	}
}

// CheckResult is the engine's verdict for one person. It is a pure function
// of the inputs and the as-of date, so re-running with identical inputs
// yields an identical result.
type CheckResult struct {
	PersonID string   `json:"person_id" yaml:"person_id"`
	Name     string   `json:"name" yaml:"name"`
	Verdict  Verdict  `json:"verdict" yaml:"verdict"`
	Reasons  []Reason `json:"reasons" yaml:"reasons"`

	// AsOf is the reference date the expiry/training math was done against.
	AsOf Date `json:"as_of" yaml:"as_of"`

	// WorstTier is the most urgent expiry tier across the person's required
	// certificate types. Empty for blacklisted or malformed records, which
	// are never evaluated that far.
	WorstTier Tier `json:"worst_tier,omitempty" yaml:"worst_tier,omitempty"`
}

// ReasonCodes returns the qualified reason strings in evaluation order.
func (r CheckResult) ReasonCodes() []string {
	codes := make([]string, len(r.Reasons))
	for i, reason := range r.Reasons {
		codes[i] = reason.String()
	}
	return codes
}

// HasReason reports whether any reason carries the given code.
func (r CheckResult) HasReason(code ReasonCode) bool {
	for _, reason := range r.Reasons {
		if reason.Code == code {
			return true
		}
	}
	return false
}

// VerdictFor folds a reason list into the final verdict:
// any fail-severity reason wins, then any alert, otherwise PASS.
func VerdictFor(reasons []Reason) Verdict {
	verdict := VerdictPass
	for _, r := range reasons {
		switch r.Severity {
		case SeverityFail:
			return VerdictFail
		case SeverityAlert:
			verdict = VerdictAlert
		}
	}
	return verdict
}

// BatchSummary tallies one batch run. The counts always equal the verdict
// distribution over the emitted results; no record is silently dropped.
type BatchSummary struct {
	Total int `json:"total" yaml:"total"`

	// Verdicts counts results per final verdict.
	Verdicts map[Verdict]int `json:"verdicts" yaml:"verdicts"`

	// ReasonCategories counts persons (not reasons) per reason code.
	ReasonCategories map[ReasonCode]int `json:"reason_categories" yaml:"reason_categories"`

	// Tiers is the worst-tier distribution, feeding the expiry monitor.
	Tiers map[Tier]int `json:"tiers" yaml:"tiers"`
}

// CheckStep is one entry of an explain trace: a single check with its
// outcome, including checks that passed.
type CheckStep struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Trace is the full explain output for one person.
type Trace struct {
	Steps  []CheckStep `json:"steps"`
	Result CheckResult `json:"result"`
}
