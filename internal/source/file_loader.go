package source

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/logging"
)

// FileLoader reads the input collections from local YAML files. Only the
// people file is required; the other collections default to empty.
type FileLoader struct {
	cfg config.FileSourceConfig
}

func NewFileLoader(cfg config.FileSourceConfig) (*FileLoader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid file source config: %w", err)
	}
	return &FileLoader{cfg: cfg}, nil
}

func (l *FileLoader) Load(ctx context.Context, logger logging.InternalLogger) (*Dataset, error) {
	_ = ctx // local file reads, nothing to cancel

	var people []core.PersonRecord
	if err := readYAML(l.cfg.People, &people); err != nil {
		return nil, fmt.Errorf("loading people: %w", err)
	}
	logger.Info("loaded %d person records from %s", len(people), l.cfg.People)

	if l.cfg.Certificates != "" {
		var certs []core.Certificate
		if err := readYAML(l.cfg.Certificates, &certs); err != nil {
			return nil, fmt.Errorf("loading certificates: %w", err)
		}
		logger.Info("loaded %d standalone certificates from %s", len(certs), l.cfg.Certificates)

		joined, err := attachCertificates(people, certs)
		if err != nil {
			return nil, fmt.Errorf("joining certificates: %w", err)
		}
		people = joined
	}

	dataset := &Dataset{People: people}

	if l.cfg.Training != "" {
		if err := readYAML(l.cfg.Training, &dataset.Training); err != nil {
			return nil, fmt.Errorf("loading training records: %w", err)
		}
		logger.Info("loaded %d training records from %s", len(dataset.Training), l.cfg.Training)
	}

	if l.cfg.Blacklist != "" {
		if err := readYAML(l.cfg.Blacklist, &dataset.Blacklist); err != nil {
			return nil, fmt.Errorf("loading blacklist: %w", err)
		}
		logger.Info("loaded %d blacklist entries from %s", len(dataset.Blacklist), l.cfg.Blacklist)
	}

	return dataset, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
