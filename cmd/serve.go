package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/sitegate/internal/api"
	"github.com/darmiel/sitegate/internal/audit"
	"github.com/darmiel/sitegate/internal/blacklist"
	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/engine"
	"github.com/darmiel/sitegate/internal/logging"
	"github.com/darmiel/sitegate/internal/passes"
	"github.com/darmiel/sitegate/internal/source"
	"github.com/darmiel/sitegate/internal/store"
	"github.com/darmiel/sitegate/internal/tasks"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sitegate server",
	Long: `Starts the HTTP API. The dataset and ruleset are loaded once at
	startup; with a remote ruleset source configured, a background task
	re-fetches the ruleset periodically and swaps the engine atomically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		adminKey, _ := cmd.Flags().GetString("admin-signing-key")
		if adminKey == "" {
			adminKey = os.Getenv("SITEGATE_ADMIN_SIGNING_KEY")
		}
		if adminKey == "" {
			return fmt.Errorf("admin signing key not configured (use --admin-signing-key or SITEGATE_ADMIN_SIGNING_KEY)")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log.Info().Msg("Loading dataset...")
		dataset, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}

		rs, err := resolveRuleset(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		log.Info().Msg("Building check engine...")
		idx, err := blacklistIndex(dataset, rs)
		if err != nil {
			return err
		}
		blacklistManager := blacklist.NewManager(idx)
		engineManager := engine.NewManager(engine.New(rs, idx, dataset.Training))

		auditor, err := audit.Build(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		var passIssuer *passes.Issuer
		passStore := core.PassStore(nil)
		if cfg.Passes.Enabled {
			if passIssuer, err = passes.NewIssuer(cfg.Passes); err != nil {
				return fmt.Errorf("building pass issuer: %w", err)
			}
			passStore = store.NewInMemoryPassStore()
		}

		taskManager := tasks.NewManager()
		registerTasks(taskManager, cfg, dataset, engineManager, blacklistManager, passStore)

		srv := api.NewServer(engineManager, taskManager, auditor, passIssuer, passStore)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes([]byte(adminKey)),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

// registerTasks wires the background tasks for serve mode.
func registerTasks(
	manager *tasks.Manager,
	cfg *config.Config,
	dataset *source.Dataset,
	engineManager *engine.Manager,
	blacklistManager *blacklist.Manager,
	passStore core.PassStore,
) {
	if cfg.RulesetSource != nil {
		fetcher, err := source.NewGitHubFetcher(*cfg.RulesetSource.GitHub)
		if err != nil {
			log.Error().Err(err).Msg("cannot build ruleset fetcher, sync task disabled")
		} else {
			interval := cfg.RulesetSource.Sync.Interval
			manager.Register("ruleset-sync", interval, func(ctx context.Context, tlog logging.InternalLogger) error {
				rs, err := fetcher.Fetch(ctx, tlog)
				if err != nil {
					return fmt.Errorf("fetching ruleset: %w", err)
				}
				eng, err := rebuildEngine(rs, dataset, blacklistManager)
				if err != nil {
					return err
				}
				engineManager.Update(eng)
				tlog.Info("engine updated with %d training requirements, %d certificate requirements",
					len(rs.Training), len(rs.Certificates))
				return nil
			})
		}
	}

	if passStore != nil {
		manager.Register("passes-cleanup", time.Hour, func(ctx context.Context, tlog logging.InternalLogger) error {
			removed, err := passStore.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			tlog.Info("removed %d expired passes", removed)
			return nil
		})
	}
}

// rebuildEngine re-indexes the blacklist through the manager (the duplicate
// policy is part of the ruleset) and assembles a fresh engine around it. A
// failed rebuild leaves the previous index in place.
func rebuildEngine(rs *core.Ruleset, dataset *source.Dataset, blm *blacklist.Manager) (*engine.Engine, error) {
	if err := blm.Rebuild(dataset.Blacklist, rs.BlacklistDuplicates); err != nil {
		return nil, fmt.Errorf("rebuilding blacklist index: %w", err)
	}
	return engine.New(rs, blm.Index(), dataset.Training), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	bindConfigFlag(serveCmd.Flags())
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().String("admin-signing-key", "", "HMAC key admin tokens are verified with")

	_ = serveCmd.MarkFlagRequired("config")
}
