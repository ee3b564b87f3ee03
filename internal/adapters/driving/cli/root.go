// Package cli provides the healthdoc command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
	"github.com/custodia-labs/healthdoc/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the ports the commands call.
type Services struct {
	// Render renders into the configured output directory.
	Render driving.RenderService

	// RenderFor returns a render service writing under outputDir.
	// Optional; Render is used when nil.
	RenderFor func(outputDir string) driving.RenderService

	Recipes  driving.RecipeService
	History  driving.HistoryService
	Settings driving.SettingsService
	Contexts driven.ReportContextLoader
}

// Globals are the persistent flag values handed to the bootstrap.
type Globals struct {
	Verbose    bool
	ConfigPath string
}

// Bootstrap builds the services once flags are parsed. The returned
// cleanup runs after the command finishes.
type Bootstrap func(ctx context.Context, g Globals) (*Services, func(), error)

var (
	renderService   driving.RenderService
	renderFor       func(outputDir string) driving.RenderService
	recipeService   driving.RecipeService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	contextLoader   driven.ReportContextLoader

	bootstrap Bootstrap
	cleanup   func()
	globals   Globals
)

var rootCmd = &cobra.Command{
	Use:   "healthdoc",
	Short: "Render business health reports from recipes",
	Long: `healthdoc turns a scored business health context into branded HTML reports.

Each report is driven by a recipe: a declarative list of sections that bind
data from the context to one of the built-in visual renderers.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Print debug output")
	rootCmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Config file (default ~/.healthdoc/config.toml)")
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	renderService = s.Render
	renderFor = s.RenderFor
	recipeService = s.Recipes
	historyService = s.History
	settingsService = s.Settings
	contextLoader = s.Contexts
}

// SetBootstrap registers the function that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globals.Verbose)
	if bootstrap == nil || !needsServices(cmd) {
		return nil
	}

	s, done, err := bootstrap(commandContext(cmd), globals)
	if err != nil {
		return err
	}
	SetServices(s)
	cleanup = done
	return nil
}

// needsServices reports whether cmd touches any service.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return cmd.Runnable()
}

// commandContext returns the command's context or Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// errNotConfigured builds the error for a missing service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
