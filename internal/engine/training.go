package engine

import (
	"sort"

	"github.com/darmiel/sitegate/internal/core"
)

// TrainingResult is the outcome of the training compliance check.
type TrainingResult struct {
	Complete bool
	// Missing are the required course codes not covered by a counting
	// record, sorted for deterministic output.
	Missing []string
}

// evaluateTraining checks whether a person's completed courses cover the
// required set for their (phase, category). A record only counts if its
// phase applicability matches the person's current phase and, for scored
// courses, the score reaches the configured minimum. Training records never
// expire for this check.
func evaluateTraining(person core.PersonRecord, records []core.TrainingRecord, rs *core.Ruleset) (TrainingResult, error) {
	required, ok := rs.RequiredCourses(person.Phase, person.Category)
	if !ok {
		return TrainingResult{}, &core.ConfigurationMissingError{
			Table:    "training",
			Phase:    person.Phase,
			Category: person.Category,
		}
	}

	completed := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Phase != person.Phase {
			continue
		}
		if rec.Score != nil && *rec.Score < rs.MinTrainingScore {
			continue
		}
		completed[rec.Course] = struct{}{}
	}

	var missing []string
	for _, course := range required {
		if _, ok := completed[course]; !ok {
			missing = append(missing, course)
		}
	}
	sort.Strings(missing)

	return TrainingResult{Complete: len(missing) == 0, Missing: missing}, nil
}
