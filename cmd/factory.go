package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/darmiel/sitegate/internal/blacklist"
	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/engine"
	"github.com/darmiel/sitegate/internal/logging"
	"github.com/darmiel/sitegate/internal/source"
)

func bindConfigFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&cfgFile, "config", "f", "", "The sitegate config file to use")
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("config file not specified (use --config)")
	}
	return config.Load(cfgFile)
}

// loadDataset materializes the input collections from the configured source.
func loadDataset(ctx context.Context, cfg *config.Config) (*source.Dataset, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("no source configured")
	}
	loader, err := source.BuildLoader(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("building loader: %w", err)
	}
	return loader.Load(ctx, logging.NewZLogger(log.Logger))
}

// resolveRuleset returns the ruleset to evaluate with. A configured remote
// ruleset source takes precedence over the inline one.
func resolveRuleset(ctx context.Context, cfg *config.Config) (*core.Ruleset, error) {
	if cfg.RulesetSource == nil {
		return &cfg.Ruleset, nil
	}

	fetcher, err := source.NewGitHubFetcher(*cfg.RulesetSource.GitHub)
	if err != nil {
		return nil, fmt.Errorf("building ruleset fetcher: %w", err)
	}

	log.Info().Msg("Fetching remote ruleset...")
	rs, err := fetcher.Fetch(ctx, logging.NewZLogger(log.Logger))
	if err != nil {
		return nil, fmt.Errorf("fetching remote ruleset: %w", err)
	}
	return rs, nil
}

func blacklistIndex(dataset *source.Dataset, rs *core.Ruleset) (*blacklist.Index, error) {
	idx, err := blacklist.Build(dataset.Blacklist, rs.BlacklistDuplicates)
	if err != nil {
		return nil, fmt.Errorf("building blacklist index: %w", err)
	}
	return idx, nil
}

// buildEngine wires the blacklist index and ruleset into a check engine.
func buildEngine(ctx context.Context, cfg *config.Config, dataset *source.Dataset) (*engine.Engine, error) {
	rs, err := resolveRuleset(ctx, cfg)
	if err != nil {
		return nil, err
	}

	idx, err := blacklistIndex(dataset, rs)
	if err != nil {
		return nil, err
	}

	return engine.New(rs, idx, dataset.Training), nil
}
