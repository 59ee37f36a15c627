// Command alignpro serves trained curriculum-similarity models.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/learningequality/alignpro/internal/adapters/driven/artifact"
	"github.com/learningequality/alignpro/internal/adapters/driven/config/file"
	"github.com/learningequality/alignpro/internal/adapters/driven/storage/sqlstore"
	"github.com/learningequality/alignpro/internal/adapters/driving/cli"
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/services"
	"github.com/learningequality/alignpro/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alignpro: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// wire builds the adapters and services and hands them to the CLI.
// The returned function releases the database.
func wire(ctx context.Context) (func(), error) {
	home, err := file.HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, file.ModelsDir(home))

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("reading settings failed, using defaults: %v", err)
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	store, err := sqlstore.Open(ctx, settings.Storage.DSN, file.DataDir(home))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	artifacts := artifact.NewStore(settings.Models.Dir)
	registry := services.NewModelRegistry(artifacts, settings.Models.Default)

	nodes := store.NodeStore()
	judgments := store.JudgmentStore()
	evaluations := services.NewEvaluationService(registry, judgments, store.EvaluationStore())
	scheduler := services.NewScheduler(
		domain.SchedulerConfigFromSettings(*settings),
		store.SchedulerStore(),
		evaluations,
	)

	cli.SetServices(cli.Services{
		Pairs:       services.NewPairService(registry, nodes),
		Recommend:   services.NewRecommendService(registry, nodes),
		Models:      registry,
		Judgments:   services.NewJudgmentService(judgments, nodes, settings.Judgments.TestProportion),
		Evaluations: evaluations,
		Nodes:       services.NewNodeService(nodes, store.TreeImporter()),
		Settings:    settingsService,
	})
	cli.SetTUIConfig(&cli.TUIConfig{
		Scheduler:       scheduler,
		SchedulerConfig: domain.SchedulerConfigFromSettings(*settings),
		UserID:          os.Getenv("USER"),
	})
	cli.SetMCPConfig(&cli.MCPConfig{
		Watcher:       artifact.NewWatcher(settings.Models.Dir, artifact.DefaultDebounce),
		OnModelChange: registry.Invalidate,
	})
	cli.SetVersion(version)

	return func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	}, nil
}
