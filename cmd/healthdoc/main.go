// Command healthdoc renders business health reports from recipes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/healthdoc/internal/adapters/driven/ai"
	"github.com/custodia-labs/healthdoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/healthdoc/internal/adapters/driven/recipes/builtin"
	filerecipes "github.com/custodia-labs/healthdoc/internal/adapters/driven/recipes/file"
	reportdatafile "github.com/custodia-labs/healthdoc/internal/adapters/driven/reportdata/file"
	artifactfile "github.com/custodia-labs/healthdoc/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/healthdoc/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/healthdoc/internal/adapters/driving/cli"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
	"github.com/custodia-labs/healthdoc/internal/core/services"
	"github.com/custodia-labs/healthdoc/internal/logger"
	"github.com/custodia-labs/healthdoc/internal/renderers"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters behind the CLI ports.
func bootstrap(ctx context.Context, g cli.Globals) (*cli.Services, func(), error) {
	var (
		cfg *file.ConfigStore
		err error
	)
	if g.ConfigPath != "" {
		cfg, err = file.NewConfigStoreAt(g.ConfigPath)
	} else {
		cfg, err = file.NewConfigStore("")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}

	settingsSvc := services.NewSettingsService(cfg, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	logger.Init(settings.Log)
	logger.SetVerbose(g.Verbose)

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}
	narrative := ai.Init(&settings.Narrative, prompts)
	for _, w := range narrative.Warnings {
		logger.Warn("Narratives disabled: %s", w)
	}

	builtins, err := builtin.New()
	if err != nil {
		narrative.Close()
		return nil, nil, fmt.Errorf("load built-in recipes: %w", err)
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	var recipes driven.RecipeProvider = builtins
	if settings.RecipesDir != "" {
		fp := filerecipes.New(settings.RecipesDir, filerecipes.WithFallback(builtins))
		if _, statErr := os.Stat(settings.RecipesDir); statErr == nil {
			go func() {
				if err := fp.Watch(watchCtx, nil); err != nil {
					logger.Warn("Recipe watcher stopped: %v", err)
				}
			}()
		}
		recipes = fp
	}

	history, err := sqlite.NewStore(settings.HistoryDir)
	if err != nil {
		cancelWatch()
		narrative.Close()
		return nil, nil, fmt.Errorf("open history: %w", err)
	}

	registry := renderers.NewDefaultRegistry()
	enricher := services.NewNarrativeEnricher(narrative.NarrativeService)
	renderFor := func(outputDir string) driving.RenderService {
		return services.NewRenderService(recipes, registry, artifactfile.NewArtifactStore(outputDir), history, enricher)
	}

	s := &cli.Services{
		Render:    renderFor(settings.OutputDir),
		RenderFor: renderFor,
		Recipes:   services.NewRecipeService(recipes),
		History:   services.NewHistoryService(history),
		Settings:  settingsSvc,
		Contexts:  reportdatafile.NewLoader(),
	}

	cleanup := func() {
		cancelWatch()
		if err := history.Close(); err != nil {
			logger.Warn("Failed to close history: %v", err)
		}
		narrative.Close()
	}
	return s, cleanup, nil
}
