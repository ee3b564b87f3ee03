package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/healthdoc/internal/adapters/driven/recipes/memory"
	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func sampleContext() *domain.ReportContext {
	return &domain.ReportContext{
		CompanyName: "Acme Ltd",
		RunID:       "run-42",
		OverallHealth: domain.OverallHealth{
			Score:      68,
			Status:     "amber",
			Trajectory: domain.TrajectoryImproving,
		},
		Chapters: []domain.Chapter{
			{Code: "GROWTH", Name: "Growth Engine", Score: floatPtr(72)},
			{Code: "OPS", Name: "Operations", Score: floatPtr(55)},
		},
		Dimensions: []domain.Dimension{
			{Code: "FIN", Name: "Finance", ChapterCode: "OPS", Score: floatPtr(81)},
			{Code: "SAL", Name: "Sales", ChapterCode: "GROWTH", Score: floatPtr(62)},
			{Code: "HR", Name: "People", ChapterCode: "OPS", Score: floatPtr(44)},
		},
		Findings: []domain.Finding{
			{Type: domain.FindingStrength, DimensionCode: "FIN", ShortLabel: "Cash discipline", Narrative: "Tight cash control."},
			{Type: domain.FindingStrength, DimensionCode: "SAL", ShortLabel: "Pipeline", Narrative: "Healthy pipeline."},
			{Type: domain.FindingGap, DimensionCode: "HR", ShortLabel: "Retention", Narrative: "Turnover is high."},
		},
		Risks: []domain.Risk{
			{Category: "Cash", Severity: 8, Narrative: "Runway under six months."},
			{Category: "Key person", Severity: nil, Narrative: "Founder dependency."},
		},
	}
}

// scenarioRecipe exercises a table, a filtered list and an unknown visual type.
func scenarioRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:   "board_pack",
		Name: "Board Pack",
		Sections: []domain.Section{
			{
				ID:         "dimensions",
				Title:      "Dimension Scores",
				VisualType: domain.VisualTable,
				DataSources: []domain.DataSource{{
					ID:   "dims",
					From: "dimensions",
					Sort: &domain.SortSpec{Field: "score", Direction: domain.SortDesc},
				}},
			},
			{
				ID:          "strengths",
				Title:       "Strengths",
				Description: "What is working",
				VisualType:  domain.VisualBulletList,
				DataSources: []domain.DataSource{{ID: "s", From: "strengths", Limit: intPtr(1)}},
			},
			{
				ID:          "mystery",
				Title:       "Mystery",
				VisualType:  "nonexistent",
				DataSources: []domain.DataSource{{ID: "gaps", From: "gaps"}},
			},
			{
				ID:          "summary",
				Title:       "Summary",
				VisualType:  domain.VisualNarrative,
				DataSources: []domain.DataSource{{ID: "text", From: "narratives[key=executive_summary]"}},
			},
		},
	}
}

func recipeProvider(recipes ...*domain.Recipe) *memory.Provider {
	p := memory.New()
	for _, r := range recipes {
		if err := p.Add(r.ID, r); err != nil {
			panic(err)
		}
	}
	return p
}

// mockNarrativeService records prompts and returns canned text.
type mockNarrativeService struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []domain.NarrativePrompt
}

func (m *mockNarrativeService) Generate(_ context.Context, p domain.NarrativePrompt) (domain.NarrativeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, p)
	if m.err != nil {
		return domain.NarrativeResult{}, m.err
	}
	return domain.NarrativeResult{Text: m.text, TokensUsed: 120}, nil
}

func (m *mockNarrativeService) ModelName() string           { return "mock" }
func (m *mockNarrativeService) Ping(_ context.Context) error { return nil }
func (m *mockNarrativeService) Close() error                 { return nil }
