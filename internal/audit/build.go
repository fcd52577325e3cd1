package audit

import (
	"fmt"

	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
)

// Build constructs the auditor selected by the config.
// Disabled auditing yields a NoopAuditor.
func Build(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "", "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit path is required for the file auditor")
		}
		return NewFileAuditor(cfg.Path)
	case "memory":
		return NewInMemoryAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown auditor type '%s'", cfg.Type)
	}
}
