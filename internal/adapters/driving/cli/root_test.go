package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

// mockRenderService records requests and returns canned reports.
type mockRenderService struct {
	mu        sync.Mutex
	outputDir string
	reqs      []driving.RenderRequest
	failFor   map[string]error
	html      string
}

func (m *mockRenderService) report(req driving.RenderRequest) *domain.GeneratedReport {
	dir := m.outputDir
	if dir == "" {
		dir = "reports"
	}
	return &domain.GeneratedReport{
		ReportType:   req.RecipeID,
		ReportName:   strings.ToUpper(req.RecipeID),
		RunID:        "run-42",
		DocumentPath: dir + "/run-42/" + req.RecipeID + ".html",
		MetadataPath: dir + "/run-42/" + req.RecipeID + ".meta.json",
		GeneratedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		HealthScore:  req.Context.OverallHealth.Score,
		HealthBand:   "Attention",
	}
}

func (m *mockRenderService) Render(_ context.Context, req driving.RenderRequest) (*domain.GeneratedReport, error) {
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	m.mu.Unlock()
	if err := m.failFor[req.RecipeID]; err != nil {
		return nil, err
	}
	return m.report(req), nil
}

func (m *mockRenderService) RenderBatch(ctx context.Context, reqs []driving.RenderRequest) []driving.BatchResult {
	results := make([]driving.BatchResult, len(reqs))
	for i, req := range reqs {
		report, err := m.Render(ctx, req)
		results[i] = driving.BatchResult{RecipeID: req.RecipeID, Report: report, Err: err}
	}
	return results
}

func (m *mockRenderService) Preview(_ context.Context, req driving.RenderRequest) (*domain.Document, error) {
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	m.mu.Unlock()
	if err := m.failFor[req.RecipeID]; err != nil {
		return nil, err
	}
	return &domain.Document{HTML: m.html}, nil
}

// mockRecipeService serves recipes from a map.
type mockRecipeService struct {
	recipes map[string]*domain.Recipe
	err     error
}

func (m *mockRecipeService) List(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.recipes))
	for id := range m.recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockRecipeService) Get(_ context.Context, id string) (*domain.Recipe, error) {
	r, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	return r, nil
}

// mockHistoryService serves a fixed report list.
type mockHistoryService struct {
	reports []domain.GeneratedReport
	lastRun string
}

func (m *mockHistoryService) List(_ context.Context, runID string) ([]domain.GeneratedReport, error) {
	m.lastRun = runID
	var out []domain.GeneratedReport
	for _, r := range m.reports {
		if runID == "" || r.RunID == runID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockHistoryService) Latest(_ context.Context, reportType string) (*domain.GeneratedReport, error) {
	for i := len(m.reports) - 1; i >= 0; i-- {
		if m.reports[i].ReportType == reportType {
			r := m.reports[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.EngineSettings
	saved       int
	provider    domain.AIProvider
	model       string
	apiKey      string
	validateErr error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultEngineSettings()}
}

func (m *mockSettingsService) Get() (*domain.EngineSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.EngineSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.settings = *settings
	m.saved++
	return nil
}

func (m *mockSettingsService) SetNarrativeProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	m.settings.Narrative = domain.NarrativeSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) RenderOptions(o driving.StyleOverrides) (domain.RenderOptions, error) {
	style := m.settings.Style
	if o.BrandName != "" {
		style.BrandName = o.BrandName
	}
	if o.PrimaryColor != "" {
		if !domain.IsHexColor(o.PrimaryColor) {
			return domain.RenderOptions{}, fmt.Errorf("%w: primary colour", domain.ErrInvalidInput)
		}
		style.PrimaryColor = o.PrimaryColor
	}
	if o.AccentColor != "" {
		style.AccentColor = o.AccentColor
	}
	if o.BandScale != "" {
		style.BandScale = o.BandScale
	}
	out := m.settings.OutputDir
	if o.OutputDir != "" {
		out = o.OutputDir
	}
	return domain.RenderOptions{Style: style.WithDefaults(), OutputDir: out}, nil
}

func (m *mockSettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

func (m *mockSettingsService) ValidateNarrativeConfig() error {
	return m.validateErr
}

// mockContextLoader returns a fixed context for any path.
type mockContextLoader struct {
	rc       *domain.ReportContext
	err      error
	lastPath string
}

func (m *mockContextLoader) Load(_ context.Context, path string) (*domain.ReportContext, error) {
	m.lastPath = path
	if m.err != nil {
		return nil, m.err
	}
	return m.rc, nil
}

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	render   *mockRenderService
	outDirs  []string
	recipes  *mockRecipeService
	history  *mockHistoryService
	settings *mockSettingsService
	contexts *mockContextLoader
}

func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		render: &mockRenderService{html: "<html>preview</html>"},
		recipes: &mockRecipeService{recipes: map[string]*domain.Recipe{
			"executive_summary": {
				Name:        "Executive Summary",
				Description: "One page overview",
				Sections: []domain.Section{
					{ID: "kpis", Title: "Key numbers", VisualType: domain.VisualKPIDashboard},
					{ID: "story", Title: "Summary", VisualType: domain.VisualNarrative},
				},
			},
			"roadmap": {
				Name:     "Roadmap",
				Sections: []domain.Section{{ID: "phases", Title: "Phases", VisualType: domain.VisualRoadmapTimeline}},
			},
		}},
		history: &mockHistoryService{reports: []domain.GeneratedReport{
			{ReportType: "roadmap", RunID: "run-1", DocumentPath: "reports/run-1/roadmap.html", HealthScore: 61, HealthBand: "Attention"},
			{ReportType: "roadmap", RunID: "run-2", DocumentPath: "reports/run-2/roadmap.html", HealthScore: 72, HealthBand: "Proficiency"},
		}},
		settings: newMockSettings(),
		contexts: &mockContextLoader{rc: &domain.ReportContext{
			CompanyName:   "Acme Ltd",
			OverallHealth: domain.OverallHealth{Score: 68},
		}},
	}

	SetServices(&Services{
		Render: ts.render,
		RenderFor: func(outputDir string) driving.RenderService {
			ts.outDirs = append(ts.outDirs, outputDir)
			ts.render.outputDir = outputDir
			return ts.render
		},
		Recipes:  ts.recipes,
		History:  ts.history,
		Settings: ts.settings,
		Contexts: ts.contexts,
	})

	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag in the tree to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"render", "batch", "recipes", "history", "settings", "mcp", "version"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestRootCmd_Bootstrap(t *testing.T) {
	defer SetBootstrap(nil)
	defer SetServices(nil)

	var got Globals
	cleaned := false
	SetBootstrap(func(_ context.Context, g Globals) (*Services, func(), error) {
		got = g
		return &Services{Recipes: &mockRecipeService{}}, func() { cleaned = true }, nil
	})

	out, err := execute(t, "--config", "/tmp/hd.toml", "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found")
	assert.Equal(t, "/tmp/hd.toml", got.ConfigPath)
	assert.True(t, cleaned)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	defer SetBootstrap(nil)
	SetBootstrap(func(context.Context, Globals) (*Services, func(), error) {
		return nil, nil, fmt.Errorf("config unreadable")
	})

	_, err := execute(t, "recipes", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config unreadable")
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	defer SetBootstrap(nil)
	SetBootstrap(func(context.Context, Globals) (*Services, func(), error) {
		t.Error("bootstrap should not run for version")
		return &Services{}, nil, nil
	})

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "healthdoc version")
}
