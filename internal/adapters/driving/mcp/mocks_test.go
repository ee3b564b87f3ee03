package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

// mockRenderService is a mock implementation of driving.RenderService.
type mockRenderService struct {
	report  *domain.GeneratedReport
	doc     *domain.Document
	err     error
	lastReq driving.RenderRequest
}

func (m *mockRenderService) Render(_ context.Context, req driving.RenderRequest) (*domain.GeneratedReport, error) {
	m.lastReq = req
	return m.report, m.err
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
	m.lastReq = req
	return m.doc, m.err
}

// mockRecipeService is a mock implementation of driving.RecipeService.
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
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s is broken", domain.ErrInvalidRecipe, id)
	}
	return r, nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	overrides driving.StyleOverrides
	opts      domain.RenderOptions
	err       error
}

func (m *mockSettingsService) Get() (*domain.EngineSettings, error) {
	s := domain.DefaultEngineSettings()
	return &s, m.err
}

func (m *mockSettingsService) Save(_ *domain.EngineSettings) error { return m.err }

func (m *mockSettingsService) SetNarrativeProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) RenderOptions(overrides driving.StyleOverrides) (domain.RenderOptions, error) {
	m.overrides = overrides
	return m.opts, m.err
}

func (m *mockSettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

func (m *mockSettingsService) ValidateNarrativeConfig() error { return m.err }

func sampleRecipes() *mockRecipeService {
	return &mockRecipeService{recipes: map[string]*domain.Recipe{
		"board_pack": {
			Name:        "Board Pack",
			Description: "Quarterly board summary",
			Sections:    []domain.Section{{ID: "summary", Title: "Summary", VisualType: domain.VisualNarrative}},
		},
		"broken": nil,
	}}
}
