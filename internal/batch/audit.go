package batch

import (
	"time"

	"github.com/rs/xid"

	"github.com/darmiel/sitegate/internal/core"
)

// AuditEntries renders the run as audit entries: one summary entry for the
// whole run, plus one person-level entry per FAIL result so a failed check
// stays traceable after the run output is gone. All entries share a fresh
// run ID.
func (r *Result) AuditEntries(asOf core.Date, now time.Time) []core.AuditEntry {
	runID := xid.New().String()

	entries := make([]core.AuditEntry, 0, 1+r.Summary.Verdicts[core.VerdictFail])
	entries = append(entries, core.AuditEntry{
		ID:      xid.New().String(),
		Time:    now,
		Action:  core.ActionBatchCheck,
		RunID:   runID,
		AsOf:    asOf,
		Summary: &r.Summary,
	})

	for _, result := range r.Results {
		if result.Verdict != core.VerdictFail {
			continue
		}
		entries = append(entries, core.AuditEntry{
			ID:       xid.New().String(),
			Time:     now,
			Action:   core.ActionPersonCheck,
			RunID:    runID,
			AsOf:     asOf,
			PersonID: result.PersonID,
			Verdict:  result.Verdict,
			Reasons:  result.ReasonCodes(),
		})
	}
	return entries
}
