package core

import (
	"fmt"
	"strings"
)

// DataInvalidError marks a single malformed input record. It is recovered
// locally: the record is classified FAIL with a DATA_INVALID reason and the
// batch continues.
type DataInvalidError struct {
	PersonID string
	Fields   []string
}

func (e *DataInvalidError) Error() string {
	return fmt.Sprintf("record '%s' has invalid fields: %s", e.PersonID, strings.Join(e.Fields, ", "))
}

// ConfigurationMissingError signals that the ruleset has no requirement
// entry for a (phase, work category) combination present in the input. This
// is fatal for the whole batch: results computed under unknown rules would
// be misleading, so no partial output is produced.
type ConfigurationMissingError struct {
	Table    string // "training" or "certificates"
	Phase    Phase  // empty for the certificates table
	Category WorkCategory
}

func (e *ConfigurationMissingError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("no %s requirements configured for phase '%s', category '%s'", e.Table, e.Phase, e.Category)
	}
	return fmt.Sprintf("no %s requirements configured for category '%s'", e.Table, e.Category)
}
