package source

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/go-github/v80/github"

	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/ghapp"
	"github.com/darmiel/sitegate/internal/logging"
	"github.com/darmiel/sitegate/internal/validation"
)

// GitHubFetcher loads ruleset files from a GitHub repository, so the
// requirement tables can change without touching the deployed binary.
type GitHubFetcher struct {
	cfg config.GitHubSourceConfig
}

func NewGitHubFetcher(cfg config.GitHubSourceConfig) (*GitHubFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid GitHub ruleset source config: %w", err)
	}
	return &GitHubFetcher{cfg: cfg}, nil
}

// rulesetFile is the shape of one remote ruleset document. Files carry
// partial rulesets; requirement tables and custom rules are concatenated
// across files, thresholds come from the last file that sets them.
type rulesetFile struct {
	Ruleset core.Ruleset `yaml:"ruleset"`
}

func (f *GitHubFetcher) Fetch(ctx context.Context, logger logging.InternalLogger) (*core.Ruleset, error) {
	logger.Info("Starting GitHub ruleset sync for repo %s/%s (ref: %s)", f.cfg.Owner, f.cfg.Repo, f.cfg.Ref)

	appClient, err := ghapp.NewClient(f.cfg.AppID, []byte(f.cfg.PrivateKey), f.cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("app auth failed: %w", err)
	}

	gh, err := ghapp.InstallationTokenClient(ctx, appClient, f.cfg.InstallationID)
	if err != nil {
		return nil, fmt.Errorf("installation auth failed: %w", err)
	}

	ref := f.cfg.Ref
	if ref == "" {
		ref = "main"
	}

	logger.Debug("Fetching tree for ref %s...", ref)
	tree, _, err := gh.Git.GetTree(ctx, f.cfg.Owner, f.cfg.Repo, ref, true)
	if err != nil {
		return nil, fmt.Errorf("get tree failed: %w", err)
	}

	var targetFiles []string
	for _, entry := range tree.Entries {
		path := entry.GetPath()

		if entry.GetType() != "blob" {
			continue
		}

		if f.cfg.Path != "" && !strings.HasPrefix(path, f.cfg.Path) {
			continue
		}

		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			targetFiles = append(targetFiles, path)
		}
	}
	if len(targetFiles) == 0 {
		logger.Warn("No ruleset files found in %s @ %s", f.cfg.Path, ref)
		return nil, fmt.Errorf("no ruleset files found in %s @ %s", f.cfg.Path, ref)
	}

	// sort by name so later files deterministically override thresholds
	slices.Sort(targetFiles)

	merged := &core.Ruleset{}

	for i, path := range targetFiles {
		logger.Debug("Downloading %d/%d: %s", i+1, len(targetFiles), path)

		fileContent, _, _, err := gh.Repositories.GetContents(ctx, f.cfg.Owner, f.cfg.Repo, path, &github.RepositoryContentGetOptions{
			Ref: ref,
		})
		if err != nil {
			logger.Warn("Failed to download %s: %v", path, err)
			return nil, fmt.Errorf("download %s: %w", path, err)
		}

		content, err := fileContent.GetContent()
		if err != nil {
			logger.Warn("Failed to decode content of %s: %v", path, err)
			return nil, fmt.Errorf("decode content %s: %w", path, err)
		}

		var partial rulesetFile
		if err := yaml.Unmarshal([]byte(content), &partial); err != nil {
			logger.Error("Failed to parse YAML in %s: %v", path, err)
			return nil, fmt.Errorf("syntax error in %s: %w", path, err)
		}

		mergeRuleset(merged, &partial.Ruleset)
		logger.Debug("Loaded %s: %d training, %d certificate requirements",
			path, len(partial.Ruleset.Training), len(partial.Ruleset.Certificates))
	}

	if err := validation.ValidateRuleset(merged); err != nil {
		return nil, fmt.Errorf("validating fetched ruleset: %w", err)
	}

	logger.Info("Fetch complete. %d training requirements, %d certificate requirements, %d custom rules",
		len(merged.Training), len(merged.Certificates), len(merged.CustomRules))
	return merged, nil
}

func mergeRuleset(dst, src *core.Ruleset) {
	zero := core.Thresholds{}
	if src.Thresholds != zero {
		dst.Thresholds = src.Thresholds
	}
	if src.MinTrainingScore != 0 {
		dst.MinTrainingScore = src.MinTrainingScore
	}
	if src.BlacklistDuplicates != "" {
		dst.BlacklistDuplicates = src.BlacklistDuplicates
	}
	dst.Training = append(dst.Training, src.Training...)
	dst.Certificates = append(dst.Certificates, src.Certificates...)
	dst.CustomRules = append(dst.CustomRules, src.CustomRules...)
}
