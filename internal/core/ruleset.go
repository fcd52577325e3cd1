package core

import (
	"github.com/expr-lang/expr/vm"
)

// DuplicatePolicy decides how duplicate blacklist keys are handled.
type DuplicatePolicy string

const (
	// DuplicateWarn logs duplicates and lets the last entry win.
	DuplicateWarn DuplicatePolicy = "warn"
	// DuplicateReject fails index construction on the first duplicate.
	DuplicateReject DuplicatePolicy = "reject"
)

func (p DuplicatePolicy) IsValid() bool {
	return p == DuplicateWarn || p == DuplicateReject
}

// Thresholds are the expiry tier boundaries in days remaining.
// days < 0 is EXPIRED, <= Critical is CRITICAL, <= Warning is WARNING,
// <= Notice is NOTICE, everything above is VALID.
type Thresholds struct {
	Critical int `yaml:"critical" json:"critical"`
	Warning  int `yaml:"warning" json:"warning"`
	Notice   int `yaml:"notice" json:"notice"`
}

// DefaultThresholds returns the 7/30/90 day defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Critical: 7, Warning: 30, Notice: 90}
}

// TrainingRequirement maps a (phase, work category) pair to the course codes
// a person must have completed.
type TrainingRequirement struct {
	Phase    Phase        `yaml:"phase" json:"phase"`
	Category WorkCategory `yaml:"category" json:"category"`
	Courses  []string     `yaml:"courses" json:"courses"`
}

// CertificateRequirement maps a work category to the certificate types a
// person of that category must hold.
type CertificateRequirement struct {
	Category WorkCategory `yaml:"category" json:"category"`
	Types    []string     `yaml:"types" json:"types"`
}

// CustomRule is an additional configured check, expressed as an expr
// expression over the person and their evaluation date. A rule that
// evaluates to true appends a reason with the configured severity.
type CustomRule struct {
	// Name is a unique identifier for logs and the reason qualifier.
	Name string `yaml:"name" json:"name"`

	// Description explains the intent of the rule.
	Description string `yaml:"description" json:"description"`

	// Expr is the boolean expression, e.g.
	// `phase == "operation" && len(person.Certificates) == 0`.
	Expr string `yaml:"expr" json:"expr"`

	Severity Severity `yaml:"severity" json:"severity"`

	// Detail is the human-readable message attached to the reason.
	Detail string `yaml:"detail" json:"detail"`

	// CompiledExpr holds the pre-compiled form of Expr for efficient evaluation.
	CompiledExpr *vm.Program `yaml:"-" json:"-"`
}

// Ruleset is the complete configurable rule surface of the engine: the two
// requirement tables, the tier thresholds, the blacklist duplicate policy
// and any custom rules. It is built once before a run and never mutated
// during evaluation.
type Ruleset struct {
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`

	// MinTrainingScore is the lowest passing score for scored courses.
	MinTrainingScore int `yaml:"min_training_score" json:"min_training_score"`

	// BlacklistDuplicates selects the duplicate-key policy, default "warn".
	BlacklistDuplicates DuplicatePolicy `yaml:"blacklist_duplicates" json:"blacklist_duplicates"`

	Training     []TrainingRequirement    `yaml:"training" json:"training"`
	Certificates []CertificateRequirement `yaml:"certificates" json:"certificates"`
	CustomRules  []CustomRule             `yaml:"custom_rules" json:"custom_rules"`
}

// RequiredCourses looks up the training requirement table.
func (rs *Ruleset) RequiredCourses(phase Phase, category WorkCategory) ([]string, bool) {
	for _, req := range rs.Training {
		if req.Phase == phase && req.Category == category {
			return req.Courses, true
		}
	}
	return nil, false
}

// RequiredCertificateTypes looks up the certificate requirement table.
func (rs *Ruleset) RequiredCertificateTypes(category WorkCategory) ([]string, bool) {
	for _, req := range rs.Certificates {
		if req.Category == category {
			return req.Types, true
		}
	}
	return nil, false
}
