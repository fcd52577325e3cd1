package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/validation"
)

// Config is the top-level sitegate configuration file.
type Config struct {
	// Ruleset carries the compliance rules the engine evaluates.
	Ruleset core.Ruleset `yaml:"ruleset"`

	// Source says where the input collections (people, certificates,
	// training, blacklist) come from.
	Source *SourceConfig `yaml:"source"`

	// RulesetSource optionally loads the ruleset from a remote location
	// instead of (or merged over) the inline one.
	RulesetSource *RulesetSource `yaml:"ruleset_source"`

	Audit  AuditConfig `yaml:"audit"`
	Passes PassConfig  `yaml:"passes"`

	// Workers caps the batch evaluation parallelism. 0 means NumCPU.
	Workers int `yaml:"workers"`
}

// SourceConfig selects a dataset loader by type. The remaining fields are
// captured inline and decoded by the chosen loader.
type SourceConfig struct {
	Type   string         `yaml:"type"`    // e.g. "file"
	Config map[string]any `yaml:",inline"` // capture remaining fields
}

// FileSourceConfig are the options of the "file" dataset loader.
type FileSourceConfig struct {
	// People is the path of the person collection (required).
	People string `mapstructure:"people"`

	// Certificates optionally holds standalone certificates, joined onto
	// people by person_id.
	Certificates string `mapstructure:"certificates"`

	Training  string `mapstructure:"training"`
	Blacklist string `mapstructure:"blacklist"`
}

func (c *FileSourceConfig) Validate() error {
	if c.People == "" {
		return fmt.Errorf("people path is required")
	}
	return nil
}

// RulesetSourceSync configures periodic re-fetching in serve mode.
type RulesetSourceSync struct {
	Interval time.Duration `yaml:"interval"`
}

// GitHubSourceConfig loads ruleset files from a GitHub repository using a
// GitHub App installation.
type GitHubSourceConfig struct {
	// AppID is the GitHub App ID.
	AppID int64 `yaml:"app_id"`

	// InstallationID is the GitHub App installation ID.
	InstallationID int64 `yaml:"installation_id"`

	// ServerURL is the GitHub Enterprise server URL.
	// For GitHub.com, this can be left empty.
	ServerURL string `yaml:"server"`

	// PrivateKey is the GitHub App private key in PEM format.
	PrivateKey string `yaml:"private_key"`

	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// Path is the directory within the repository to load ruleset files
	// from, e.g. "rulesets/".
	Path string `yaml:"path"`

	// Ref is the git reference to use (e.g. a branch).
	Ref string `yaml:"ref"`
}

func (c *GitHubSourceConfig) Validate() error {
	if c.AppID == 0 {
		return fmt.Errorf("app_id is required")
	}
	if c.InstallationID == 0 {
		return fmt.Errorf("installation_id is required")
	}
	if c.PrivateKey == "" {
		return fmt.Errorf("private_key is required")
	}
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if c.Ref == "" {
		return fmt.Errorf("ref is required")
	}
	return nil
}

// RulesetSource holds configuration for a remote ruleset location.
type RulesetSource struct {
	GitHub *GitHubSourceConfig `yaml:"github,omitempty"`

	Sync RulesetSourceSync `yaml:"sync"`
}

func (s *RulesetSource) Validate() error {
	switch {
	case s.GitHub != nil:
		if err := s.GitHub.Validate(); err != nil {
			return fmt.Errorf("validating GitHub ruleset source: %w", err)
		}
	default:
		return fmt.Errorf("no valid ruleset source configured")
	}
	return nil
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g. "file", "memory"
}

// PassConfig configures the gate-pass issuer.
type PassConfig struct {
	Enabled bool `yaml:"enabled"`

	// SigningKey is the shared secret passes are signed with.
	SigningKey string `yaml:"signing_key"`

	// MaxValidity caps a pass lifetime even when certificates run longer.
	MaxValidity time.Duration `yaml:"max_validity"`
}

func (c *PassConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SigningKey == "" {
		return fmt.Errorf("signing_key is required when passes are enabled")
	}
	return nil
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validation.ValidateRuleset(&c.Ruleset); err != nil {
		return fmt.Errorf("validating ruleset: %w", err)
	}
	if c.RulesetSource != nil {
		if err := c.RulesetSource.Validate(); err != nil {
			return fmt.Errorf("validating ruleset source: %w", err)
		}
	}
	if err := c.Passes.Validate(); err != nil {
		return fmt.Errorf("validating passes: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}
