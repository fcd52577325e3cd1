package engine

import (
	"fmt"
	"strings"

	"github.com/darmiel/sitegate/internal/core"
)

// Explain evaluates one person like Check, but records every step including
// the ones that passed. Used by the explain command and the admin API to
// answer "why is this person denied".
func (e *Engine) Explain(person core.PersonRecord, asOf core.Date) (core.Trace, error) {
	return e.ExplainWithTraining(person, e.training[person.ID], asOf)
}

// ExplainWithTraining is Explain with an explicit training record set.
func (e *Engine) ExplainWithTraining(person core.PersonRecord, training []core.TrainingRecord, asOf core.Date) (core.Trace, error) {
	trace := core.Trace{}

	result, err := e.CheckWithTraining(person, training, asOf)
	if err != nil {
		return core.Trace{}, err
	}
	trace.Result = result

	addStep := func(name string, passed bool, detail string) {
		trace.Steps = append(trace.Steps, core.CheckStep{Name: name, Passed: passed, Detail: detail})
	}

	if entry, ok := e.blacklist.Match(person); ok {
		addStep("blacklist", false, blacklistReason(entry).Detail)
		return trace, nil
	}
	addStep("blacklist", true, "not on the blacklist")

	if dataErr := validateRecord(person); dataErr != nil {
		addStep("record", false, dataErr.Error())
		return trace, nil
	}
	addStep("record", true, "record is well-formed")

	requiredTypes, _ := e.ruleset.RequiredCertificateTypes(person.Category)

	tiers := evaluateExpiry(person.Certificates, requiredTypes, asOf, e.ruleset.Thresholds)
	worst := worstTier(tiers)
	switch worst {
	case core.TierValid:
		addStep("certificate expiry", true, "all required certificates valid")
	case core.TierExpired:
		addStep("certificate expiry", false, expiryDetail(tiers, worst))
	default:
		addStep("certificate expiry", true, fmt.Sprintf("%s: %s", worst, expiryDetail(tiers, worst)))
	}

	if bad := invalidCertNumbers(person.Certificates, requiredTypes); len(bad) > 0 {
		addStep("certificate format", true, fmt.Sprintf("suspicious certificate numbers: %s", strings.Join(bad, ", ")))
	} else {
		addStep("certificate format", true, "certificate numbers look plausible")
	}

	trainingResult, err := evaluateTraining(person, training, e.ruleset)
	if err != nil {
		return core.Trace{}, err
	}
	if trainingResult.Complete {
		addStep("training", true, "all required courses completed")
	} else {
		addStep("training", false, fmt.Sprintf("missing courses: %s", strings.Join(trainingResult.Missing, ", ")))
	}

	qualification, err := evaluateQualification(person, e.ruleset)
	if err != nil {
		return core.Trace{}, err
	}
	if qualification.Match {
		addStep("qualification", true, "held certificate types match the work category")
	} else {
		addStep("qualification", false, fmt.Sprintf("missing certificate types: %s", strings.Join(qualification.Missing, ", ")))
	}

	for _, reason := range evaluateCustomRules(e.ruleset.CustomRules, person, asOf) {
		addStep("rule "+reason.Rule, reason.Severity != core.SeverityFail, reason.Detail)
	}

	return trace, nil
}
