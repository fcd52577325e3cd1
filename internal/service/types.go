package service

import (
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/passes"
)

// CheckRequest is a single-person check as submitted to the API. The
// training records arrive with the request; the caller owns the data.
type CheckRequest struct {
	Person   core.PersonRecord     `json:"person"`
	Training []core.TrainingRecord `json:"training,omitempty"`

	// AsOf defaults to today when nil.
	AsOf *core.Date `json:"as_of,omitempty"`

	// IssuePass requests a signed gate pass when the verdict allows one.
	IssuePass bool `json:"issue_pass,omitempty"`
}

type CheckResponse struct {
	Result core.CheckResult `json:"result"`

	// Pass is only set when requested and the person is admissible.
	Pass *passes.Pass `json:"pass,omitempty"`
}

// ExplainRequest asks for a full evaluation trace of one person.
type ExplainRequest struct {
	Person   core.PersonRecord     `json:"person"`
	Training []core.TrainingRecord `json:"training,omitempty"`
	AsOf     *core.Date            `json:"as_of,omitempty"`
}

type ExplainResponse struct {
	Trace core.Trace `json:"trace"`
}
