package source

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/logging"
)

// Loader materializes the input collections for a check run.
type Loader interface {
	Load(ctx context.Context, log logging.InternalLogger) (*Dataset, error)
}

// RulesetFetcher loads a ruleset from a remote location.
type RulesetFetcher interface {
	Fetch(ctx context.Context, log logging.InternalLogger) (*core.Ruleset, error)
}

// BuildLoader constructs the dataset loader selected by the config.
func BuildLoader(cfg *config.SourceConfig) (Loader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no source configured")
	}
	switch cfg.Type {
	case "file":
		var fileCfg config.FileSourceConfig
		if err := mapstructure.Decode(cfg.Config, &fileCfg); err != nil {
			return nil, fmt.Errorf("decoding file source config: %w", err)
		}
		if err := fileCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid file source config: %w", err)
		}
		return &FileLoader{cfg: fileCfg}, nil
	default:
		return nil, fmt.Errorf("unknown source type '%s'", cfg.Type)
	}
}
