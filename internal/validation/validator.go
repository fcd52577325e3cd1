package validation

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/darmiel/sitegate/internal/core"
)

// ValidateRuleset fills in defaults, checks the requirement tables for
// consistency and compiles custom rule expressions in place. The engine
// assumes it only ever sees a ruleset that went through here.
func ValidateRuleset(rs *core.Ruleset) error {
	applyDefaults(rs)

	th := rs.Thresholds
	if th.Critical < 0 {
		return fmt.Errorf("thresholds.critical must not be negative")
	}
	if th.Warning <= th.Critical {
		return fmt.Errorf("thresholds.warning (%d) must be greater than thresholds.critical (%d)", th.Warning, th.Critical)
	}
	if th.Notice <= th.Warning {
		return fmt.Errorf("thresholds.notice (%d) must be greater than thresholds.warning (%d)", th.Notice, th.Warning)
	}

	if !rs.BlacklistDuplicates.IsValid() {
		return fmt.Errorf("invalid blacklist_duplicates policy '%s'", rs.BlacklistDuplicates)
	}

	seenTraining := make(map[string]struct{})
	for i, req := range rs.Training {
		if !req.Phase.IsValid() {
			return fmt.Errorf("training requirement #%d has invalid phase '%s'", i, req.Phase)
		}
		if req.Category == "" {
			return fmt.Errorf("training requirement #%d has empty category", i)
		}
		key := string(req.Phase) + "/" + string(req.Category)
		if _, exists := seenTraining[key]; exists {
			return fmt.Errorf("duplicate training requirement for phase '%s', category '%s'", req.Phase, req.Category)
		}
		seenTraining[key] = struct{}{}
	}

	seenCerts := make(map[core.WorkCategory]struct{})
	for i, req := range rs.Certificates {
		if req.Category == "" {
			return fmt.Errorf("certificate requirement #%d has empty category", i)
		}
		if _, exists := seenCerts[req.Category]; exists {
			return fmt.Errorf("duplicate certificate requirement for category '%s'", req.Category)
		}
		seenCerts[req.Category] = struct{}{}
	}

	seenRules := make(map[string]struct{})
	for i := range rs.CustomRules {
		rule := &rs.CustomRules[i]
		if rule.Name == "" {
			return fmt.Errorf("custom rule #%d missing name", i)
		}
		if _, exists := seenRules[rule.Name]; exists {
			return fmt.Errorf("custom rule name '%s' is not unique", rule.Name)
		}
		seenRules[rule.Name] = struct{}{}

		if !rule.Severity.IsValid() {
			return fmt.Errorf("custom rule '%s' has invalid severity '%s'", rule.Name, rule.Severity)
		}
		if rule.Expr == "" {
			return fmt.Errorf("custom rule '%s' missing expr", rule.Name)
		}

		compiled, err := expr.Compile(rule.Expr, expr.AsBool())
		if err != nil {
			return fmt.Errorf("compiling expr for custom rule '%s': %w", rule.Name, err)
		}
		rule.CompiledExpr = compiled
	}

	return nil
}

func applyDefaults(rs *core.Ruleset) {
	zero := core.Thresholds{}
	if rs.Thresholds == zero {
		rs.Thresholds = core.DefaultThresholds()
	}
	if rs.MinTrainingScore == 0 {
		rs.MinTrainingScore = 80
	}
	if rs.BlacklistDuplicates == "" {
		rs.BlacklistDuplicates = core.DuplicateWarn
	}
}
