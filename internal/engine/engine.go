package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/darmiel/sitegate/internal/blacklist"
	"github.com/darmiel/sitegate/internal/core"
)

// Engine composes the four access checks into one verdict per person:
// blacklist membership, certificate expiry, training compliance and
// qualification match. Check is a pure function of its inputs and the as-of
// date, so per-person evaluations can run on parallel workers without
// coordination.
type Engine struct {
	ruleset   *core.Ruleset
	blacklist *blacklist.Index

	// training records indexed by person ID, built once at construction.
	training map[string][]core.TrainingRecord
}

// New creates an Engine over a validated ruleset, a built blacklist index
// and the training record collection.
func New(rs *core.Ruleset, idx *blacklist.Index, training []core.TrainingRecord) *Engine {
	byPerson := make(map[string][]core.TrainingRecord)
	for _, rec := range training {
		byPerson[rec.PersonID] = append(byPerson[rec.PersonID], rec)
	}
	return &Engine{
		ruleset:   rs,
		blacklist: idx,
		training:  byPerson,
	}
}

// Ruleset returns the ruleset the engine was built with.
func (e *Engine) Ruleset() *core.Ruleset {
	return e.ruleset
}

// Check evaluates one person as of the given date.
// The only returned error is a ConfigurationMissingError, which is fatal
// for the caller's whole run.
func (e *Engine) Check(person core.PersonRecord, asOf core.Date) (core.CheckResult, error) {
	return e.CheckWithTraining(person, e.training[person.ID], asOf)
}

// CheckWithTraining is Check with an explicit training record set, used by
// the single-person API where records arrive with the request.
func (e *Engine) CheckWithTraining(person core.PersonRecord, training []core.TrainingRecord, asOf core.Date) (core.CheckResult, error) {
	result := core.CheckResult{
		PersonID: person.ID,
		Name:     person.Name,
		AsOf:     asOf,
	}

	// A blacklisted person is never evaluated further; their other
	// compliance state must not leak into the output.
	if entry, ok := e.blacklist.Match(person); ok {
		result.Verdict = core.VerdictFail
		result.Reasons = []core.Reason{blacklistReason(entry)}
		return result, nil
	}

	if dataErr := validateRecord(person); dataErr != nil {
		result.Verdict = core.VerdictFail
		result.Reasons = []core.Reason{{
			Code:     core.ReasonDataInvalid,
			Severity: core.SeverityFail,
			Detail:   dataErr.Error(),
			Missing:  dataErr.Fields,
		}}
		return result, nil
	}

	requiredTypes, ok := e.ruleset.RequiredCertificateTypes(person.Category)
	if !ok {
		return core.CheckResult{}, &core.ConfigurationMissingError{
			Table:    "certificates",
			Category: person.Category,
		}
	}

	var reasons []core.Reason

	tiers := evaluateExpiry(person.Certificates, requiredTypes, asOf, e.ruleset.Thresholds)
	worst := worstTier(tiers)
	result.WorstTier = worst
	if r, ok := expiryReason(tiers, worst); ok {
		reasons = append(reasons, r)
	}

	if bad := invalidCertNumbers(person.Certificates, requiredTypes); len(bad) > 0 {
		reasons = append(reasons, core.Reason{
			Code:     core.ReasonCertFormatInvalid,
			Severity: core.SeverityAlert,
			Detail:   fmt.Sprintf("certificate numbers with invalid format: %s", strings.Join(bad, ", ")),
			Missing:  bad,
		})
	}

	trainingResult, err := evaluateTraining(person, training, e.ruleset)
	if err != nil {
		return core.CheckResult{}, err
	}
	if !trainingResult.Complete {
		reasons = append(reasons, core.Reason{
			Code:     core.ReasonTrainingIncomplete,
			Severity: core.SeverityFail,
			Detail:   fmt.Sprintf("missing required training: %s", strings.Join(trainingResult.Missing, ", ")),
			Missing:  trainingResult.Missing,
		})
	}

	qualification, err := evaluateQualification(person, e.ruleset)
	if err != nil {
		return core.CheckResult{}, err
	}
	if !qualification.Match {
		reasons = append(reasons, core.Reason{
			Code:     core.ReasonQualificationMismatch,
			Severity: core.SeverityFail,
			Detail:   fmt.Sprintf("missing required certificate types: %s", strings.Join(qualification.Missing, ", ")),
			Missing:  qualification.Missing,
		})
	}

	reasons = append(reasons, evaluateCustomRules(e.ruleset.CustomRules, person, asOf)...)

	result.Reasons = reasons
	result.Verdict = core.VerdictFor(reasons)
	return result, nil
}

func blacklistReason(entry core.BlacklistEntry) core.Reason {
	detail := "person is blacklisted, site access denied"
	if entry.Reason != "" {
		detail = fmt.Sprintf("person is blacklisted (%s), site access denied", entry.Reason)
	}
	return core.Reason{
		Code:     core.ReasonBlacklisted,
		Severity: core.SeverityFail,
		Detail:   detail,
	}
}

// expiryReason converts the worst tier into a reason, if any: EXPIRED fails
// the person, CRITICAL/WARNING/NOTICE only alert, VALID contributes nothing.
func expiryReason(tiers []typeTier, worst core.Tier) (core.Reason, bool) {
	switch worst {
	case core.TierValid:
		return core.Reason{}, false
	case core.TierExpired:
		return core.Reason{
			Code:     core.ReasonCertExpired,
			Severity: core.SeverityFail,
			Detail:   expiryDetail(tiers, worst),
		}, true
	default:
		return core.Reason{
			Code:     core.ReasonCertExpiring,
			Severity: core.SeverityAlert,
			Detail:   expiryDetail(tiers, worst),
			Tier:     worst,
		}, true
	}
}

// validateRecord checks a record for the fields the evaluators depend on.
// It returns nil for a well-formed record.
func validateRecord(person core.PersonRecord) *core.DataInvalidError {
	var fields []string

	if person.ID == "" {
		fields = append(fields, "id")
	}
	if !person.Phase.IsValid() {
		fields = append(fields, "phase")
	}
	if person.Category == "" {
		fields = append(fields, "category")
	}
	for i, cert := range person.Certificates {
		switch {
		case cert.ExpiresAt == nil:
			fields = append(fields, fmt.Sprintf("certificates[%d].expires_at", i))
		case cert.ExpiresAt.Before(cert.IssuedAt):
			fields = append(fields, fmt.Sprintf("certificates[%d].expires_at", i))
		}
	}

	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &core.DataInvalidError{PersonID: person.ID, Fields: fields}
}
