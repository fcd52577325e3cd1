package engine

import (
	"sort"

	"github.com/darmiel/sitegate/internal/core"
)

// QualificationResult is the outcome of the work-category qualification check.
type QualificationResult struct {
	Match bool
	// Missing are the required certificate types the person does not hold
	// at all, sorted for deterministic output.
	Missing []string
}

// evaluateQualification checks whether the person holds the certificate
// types their declared work category requires. This is independent of
// expiry state: a person can match on type while the same certificate is
// expired, which is reported as two distinct reasons.
func evaluateQualification(person core.PersonRecord, rs *core.Ruleset) (QualificationResult, error) {
	required, ok := rs.RequiredCertificateTypes(person.Category)
	if !ok {
		return QualificationResult{}, &core.ConfigurationMissingError{
			Table:    "certificates",
			Category: person.Category,
		}
	}

	held := make(map[string]struct{}, len(person.Certificates))
	for _, cert := range person.Certificates {
		held[cert.Type] = struct{}{}
	}

	var missing []string
	for _, certType := range required {
		if _, ok := held[certType]; !ok {
			missing = append(missing, certType)
		}
	}
	sort.Strings(missing)

	return QualificationResult{Match: len(missing) == 0, Missing: missing}, nil
}
