package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

const sampleContext = `{
	"companyName": "Acme Ltd",
	"overallHealth": {"score": 68, "trajectory": "improving"}
}`

func TestServer_handleRender(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and returns artifact paths", func(t *testing.T) {
		render := &mockRenderService{report: &domain.GeneratedReport{
			ReportType:   "board_pack",
			ReportName:   "Board Pack",
			RunID:        "run-1",
			DocumentPath: "reports/run-1/board_pack.html",
			MetadataPath: "reports/run-1/board_pack.meta.json",
			HealthScore:  68,
			HealthBand:   "Attention",
		}}
		server, err := NewServer(&Ports{Render: render, Recipes: sampleRecipes()})
		require.NoError(t, err)

		_, output, err := server.handleRender(ctx, nil, RenderInput{
			RecipeID:     "board_pack",
			Context:      sampleContext,
			PrimaryColor: "#112233",
			Narrate:      true,
		})
		require.NoError(t, err)

		assert.Equal(t, "board_pack", output.ReportType)
		assert.Equal(t, "reports/run-1/board_pack.html", output.DocumentPath)
		assert.Empty(t, output.HTML)

		assert.Equal(t, "board_pack", render.lastReq.RecipeID)
		assert.True(t, render.lastReq.Narrate)
		assert.Equal(t, "Acme Ltd", render.lastReq.Context.CompanyName)
		assert.Equal(t, "#112233", render.lastReq.Options.Style.PrimaryColor)
		assert.Equal(t, domain.DefaultAccentColor, render.lastReq.Options.Style.AccentColor)
	})

	t.Run("preview returns html", func(t *testing.T) {
		render := &mockRenderService{doc: &domain.Document{
			HTML:     "<html></html>",
			Metadata: domain.ReportMetadata{ReportType: "board_pack", RunID: "run-2"},
			Sections: []domain.ComposedSection{{ID: "summary"}},
		}}
		server, err := NewServer(&Ports{Render: render, Recipes: sampleRecipes()})
		require.NoError(t, err)

		_, output, err := server.handleRender(ctx, nil, RenderInput{
			RecipeID: "board_pack",
			Context:  sampleContext,
			Preview:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", output.HTML)
		assert.Equal(t, len("<html></html>"), output.HTMLLength)
		assert.Equal(t, 1, output.Sections)
	})

	t.Run("settings supply options", func(t *testing.T) {
		settings := &mockSettingsService{opts: domain.RenderOptions{Style: domain.DefaultStyle(), OutputDir: "out"}}
		render := &mockRenderService{report: &domain.GeneratedReport{}}
		server, err := NewServer(&Ports{Render: render, Recipes: sampleRecipes(), Settings: settings})
		require.NoError(t, err)

		_, _, err = server.handleRender(ctx, nil, RenderInput{
			RecipeID:  "board_pack",
			Context:   sampleContext,
			BrandName: "Northwind",
			BandScale: "four",
		})
		require.NoError(t, err)
		assert.Equal(t, driving.StyleOverrides{BrandName: "Northwind", BandScale: domain.BandScaleFour}, settings.overrides)
		assert.Equal(t, "out", render.lastReq.Options.OutputDir)
	})

	t.Run("input errors", func(t *testing.T) {
		server, err := NewServer(&Ports{Render: &mockRenderService{}, Recipes: sampleRecipes()})
		require.NoError(t, err)

		tests := []struct {
			name  string
			input RenderInput
			want  error
		}{
			{"missing recipe", RenderInput{Context: sampleContext}, domain.ErrInvalidInput},
			{"malformed context", RenderInput{RecipeID: "board_pack", Context: "{"}, domain.ErrInvalidReportContext},
			{"bad band scale", RenderInput{RecipeID: "board_pack", Context: sampleContext, BandScale: "ten"}, domain.ErrInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := server.handleRender(ctx, nil, tt.input)
				require.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("render failure is returned", func(t *testing.T) {
		render := &mockRenderService{err: domain.ErrRecipeNotFound}
		server, err := NewServer(&Ports{Render: render, Recipes: sampleRecipes()})
		require.NoError(t, err)

		_, _, err = server.handleRender(ctx, nil, RenderInput{RecipeID: "nope", Context: sampleContext})
		require.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})
}

func TestServer_handleListRecipes(t *testing.T) {
	ctx := context.Background()

	t.Run("lists recipes with broken ones flagged", func(t *testing.T) {
		server, err := NewServer(&Ports{Render: &mockRenderService{}, Recipes: sampleRecipes()})
		require.NoError(t, err)

		_, output, err := server.handleListRecipes(ctx, nil, ListRecipesInput{})
		require.NoError(t, err)
		require.Equal(t, 2, output.Count)

		assert.Equal(t, RecipeSummary{
			ID:          "board_pack",
			Name:        "Board Pack",
			Description: "Quarterly board summary",
			Sections:    1,
		}, output.Recipes[0])
		assert.Equal(t, "broken", output.Recipes[1].ID)
		assert.Contains(t, output.Recipes[1].Description, "invalid recipe")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Render:  &mockRenderService{},
			Recipes: &mockRecipeService{err: errors.New("disk gone")},
		})
		require.NoError(t, err)

		_, _, err = server.handleListRecipes(ctx, nil, ListRecipesInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk gone")
	})
}
