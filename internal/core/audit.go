package core

import "time"

// Audit actions.
const (
	ActionBatchCheck  = "batch.check"
	ActionPersonCheck = "person.check"
	ActionPassIssue   = "pass.issue"
)

type AuditEntry struct {
	// ID is the unique entry ID (X-Correlation-ID for API requests).
	ID string `json:"id"`

	// Time is the timestamp of the event.
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "batch.check", "pass.issue").
	Action string `json:"action"`

	// RunID groups per-person entries belonging to one batch run.
	RunID string `json:"run_id,omitempty"`

	// AsOf is the evaluation date used for the run.
	AsOf Date `json:"as_of,omitempty"`

	// Person-level details.
	PersonID string   `json:"person_id,omitempty"`
	Verdict  Verdict  `json:"verdict,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`

	// Summary is set for batch-level entries.
	Summary *BatchSummary `json:"summary,omitempty"`

	// PassFingerprint identifies an issued gate pass without storing it.
	PassFingerprint string `json:"pass_fingerprint,omitempty"`

	Error string `json:"error,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Find(filter func(entry AuditEntry) bool, limit int) ([]AuditEntry, error)
	Close() error
}
