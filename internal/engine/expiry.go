package engine

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/darmiel/sitegate/internal/core"
)

// TierOf classifies a certificate's time to expiry against the configured
// thresholds. Boundaries are inclusive at the lower bound:
// days < 0 EXPIRED, 0..critical CRITICAL, ..warning WARNING,
// ..notice NOTICE, above that VALID.
func TierOf(expiresAt core.Date, asOf core.Date, th core.Thresholds) core.Tier {
	days := asOf.DaysUntil(expiresAt)
	switch {
	case days < 0:
		return core.TierExpired
	case days <= th.Critical:
		return core.TierCritical
	case days <= th.Warning:
		return core.TierWarning
	case days <= th.Notice:
		return core.TierNotice
	default:
		return core.TierValid
	}
}

// typeTier is the expiry evaluation of one required certificate type.
type typeTier struct {
	Type string
	Tier core.Tier
	// DaysRemaining of the best matching certificate. Meaningless when the
	// person holds no certificate of this type.
	DaysRemaining int
	Held          bool
}

// evaluateExpiry classifies every required certificate type for a person.
// A person may hold several certificates of the same type (renewals); the
// most favorable one counts. Holding none of a required type is treated as
// EXPIRED, equivalent to having no valid credential.
func evaluateExpiry(certs []core.Certificate, requiredTypes []string, asOf core.Date, th core.Thresholds) []typeTier {
	tiers := make([]typeTier, 0, len(requiredTypes))

	for _, reqType := range requiredTypes {
		tt := typeTier{Type: reqType, Tier: core.TierExpired}
		for _, cert := range certs {
			if cert.Type != reqType || cert.ExpiresAt == nil {
				continue
			}
			tier := TierOf(*cert.ExpiresAt, asOf, th)
			days := asOf.DaysUntil(*cert.ExpiresAt)
			if !tt.Held || tt.Tier.MoreUrgentThan(tier) || (tt.Tier == tier && days > tt.DaysRemaining) {
				tt.Tier = tier
				tt.DaysRemaining = days
				tt.Held = true
			}
		}
		tiers = append(tiers, tt)
	}

	return tiers
}

// worstTier folds per-type tiers into the most urgent one.
// VALID if the list is empty.
func worstTier(tiers []typeTier) core.Tier {
	worst := core.TierValid
	for _, tt := range tiers {
		if tt.Tier.MoreUrgentThan(worst) {
			worst = tt.Tier
		}
	}
	return worst
}

func expiryDetail(tiers []typeTier, worst core.Tier) string {
	var parts []string
	for _, tt := range tiers {
		if tt.Tier != worst {
			continue
		}
		if !tt.Held {
			parts = append(parts, fmt.Sprintf("no '%s' certificate held", tt.Type))
		} else if tt.DaysRemaining < 0 {
			parts = append(parts, fmt.Sprintf("'%s' expired %d days ago", tt.Type, -tt.DaysRemaining))
		} else {
			parts = append(parts, fmt.Sprintf("'%s' expires in %d days", tt.Type, tt.DaysRemaining))
		}
	}
	sort.Strings(parts)
	detail := ""
	for i, p := range parts {
		if i > 0 {
			detail += "; "
		}
		detail += p
	}
	return detail
}

// certNumberPattern is the plausibility check for certificate serials:
// two letters followed by at least six more characters. The authoritative
// registry check lives outside this system.
var certNumberPattern = regexp.MustCompile(`^[A-Za-z]{2}.{6,}$`)

// invalidCertNumbers returns the certificate numbers of required types that
// fail the format check, sorted for deterministic output.
func invalidCertNumbers(certs []core.Certificate, requiredTypes []string) []string {
	required := make(map[string]struct{}, len(requiredTypes))
	for _, t := range requiredTypes {
		required[t] = struct{}{}
	}

	var bad []string
	for _, cert := range certs {
		if _, ok := required[cert.Type]; !ok {
			continue
		}
		if cert.Number == "" {
			continue
		}
		if !certNumberPattern.MatchString(cert.Number) {
			bad = append(bad, cert.Number)
		}
	}
	sort.Strings(bad)
	return bad
}
