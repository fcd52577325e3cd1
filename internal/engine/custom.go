package engine

import (
	"github.com/expr-lang/expr"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/sitegate/internal/core"
)

// evaluateCustomRules runs the configured expression rules against a person
// and returns the reasons of the rules that fired, in config order. A rule
// that errors at runtime is logged and skipped; it never fails the person.
func evaluateCustomRules(rules []core.CustomRule, person core.PersonRecord, asOf core.Date) []core.Reason {
	var reasons []core.Reason
	for _, rule := range rules {
		if rule.CompiledExpr == nil {
			continue
		}
		// phase and category are exposed as plain strings so rules can
		// compare them with literals.
		out, err := expr.Run(rule.CompiledExpr, map[string]any{
			"person":   person,
			"phase":    string(person.Phase),
			"category": string(person.Category),
			"asOf":     asOf.String(),
		})
		if err != nil {
			log.Warn().Err(err).Msgf("error evaluating expression for custom rule '%s'", rule.Name)
			continue
		}
		fired, ok := out.(bool)
		if !ok || !fired {
			continue
		}
		detail := rule.Detail
		if detail == "" {
			detail = rule.Description
		}
		reasons = append(reasons, core.Reason{
			Code:     core.ReasonCustom,
			Severity: rule.Severity,
			Detail:   detail,
			Rule:     rule.Name,
		})
	}
	return reasons
}
