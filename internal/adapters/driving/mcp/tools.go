package mcp

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RenderInput is the input schema for the render_report tool.
type RenderInput struct {
	RecipeID     string `json:"recipe_id" jsonschema:"id of the recipe to render, see list_recipes"`
	Context      string `json:"context" jsonschema:"the scored report context as a JSON document"`
	BrandName    string `json:"brand_name,omitempty" jsonschema:"brand name shown in the header and footer"`
	PrimaryColor string `json:"primary_color,omitempty" jsonschema:"primary brand colour as #rgb or #rrggbb"`
	AccentColor  string `json:"accent_color,omitempty" jsonschema:"accent colour as #rgb or #rrggbb"`
	BandScale    string `json:"band_scale,omitempty" jsonschema:"score band scale: five or four"`
	Narrate      bool   `json:"narrate,omitempty" jsonschema:"generate narratives before rendering"`
	Preview      bool   `json:"preview,omitempty" jsonschema:"return the HTML instead of writing artifacts"`
}

// RenderOutput is the output schema for the render_report tool.
type RenderOutput struct {
	ReportType   string  `json:"report_type"`
	ReportName   string  `json:"report_name"`
	RunID        string  `json:"run_id"`
	HealthScore  float64 `json:"health_score"`
	HealthBand   string  `json:"health_band"`
	DocumentPath string  `json:"document_path,omitempty"`
	MetadataPath string  `json:"metadata_path,omitempty"`
	HTMLLength   int     `json:"html_length,omitempty"`
	HTML         string  `json:"html,omitempty"`
	Sections     int     `json:"sections,omitempty"`
}

// ListRecipesInput is the input schema for the list_recipes tool.
type ListRecipesInput struct{}

// ListRecipesOutput is the output schema for the list_recipes tool.
type ListRecipesOutput struct {
	Recipes []RecipeSummary `json:"recipes"`
	Count   int             `json:"count"`
}

// RecipeSummary describes one recipe.
type RecipeSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sections    int    `json:"sections"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_report",
		Description: "Render a business health report from a recipe and a scored context",
	}, s.handleRender)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_recipes",
		Description: "List the report recipes available for rendering",
	}, s.handleListRecipes)
}

// handleRender handles the render_report tool invocation.
func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	if strings.TrimSpace(input.RecipeID) == "" {
		return nil, RenderOutput{}, fmt.Errorf("%w: recipe_id is required", domain.ErrInvalidInput)
	}

	var rc domain.ReportContext
	if err := json.UnmarshalFromString(input.Context, &rc); err != nil {
		return nil, RenderOutput{}, fmt.Errorf("%w: %w", domain.ErrInvalidReportContext, err)
	}

	opts, err := s.renderOptions(input)
	if err != nil {
		return nil, RenderOutput{}, err
	}

	req := driving.RenderRequest{
		RecipeID: input.RecipeID,
		Context:  &rc,
		Options:  opts,
		Narrate:  input.Narrate,
	}

	if input.Preview {
		doc, err := s.ports.Render.Preview(ctx, req)
		if err != nil {
			return nil, RenderOutput{}, err
		}
		return nil, RenderOutput{
			ReportType:  doc.Metadata.ReportType,
			ReportName:  doc.Metadata.ReportName,
			RunID:       doc.Metadata.RunID,
			HealthScore: doc.Metadata.HealthScore,
			HealthBand:  doc.Metadata.HealthBand,
			HTMLLength:  len(doc.HTML),
			HTML:        doc.HTML,
			Sections:    len(doc.Sections),
		}, nil
	}

	report, err := s.ports.Render.Render(ctx, req)
	if err != nil {
		return nil, RenderOutput{}, err
	}
	return nil, RenderOutput{
		ReportType:   report.ReportType,
		ReportName:   report.ReportName,
		RunID:        report.RunID,
		HealthScore:  report.HealthScore,
		HealthBand:   report.HealthBand,
		DocumentPath: report.DocumentPath,
		MetadataPath: report.MetadataPath,
	}, nil
}

// renderOptions layers the tool overrides over the configured style.
func (s *Server) renderOptions(input RenderInput) (domain.RenderOptions, error) {
	overrides := driving.StyleOverrides{
		BrandName:    input.BrandName,
		PrimaryColor: input.PrimaryColor,
		AccentColor:  input.AccentColor,
		BandScale:    domain.BandScale(input.BandScale),
	}
	if s.ports.Settings != nil {
		return s.ports.Settings.RenderOptions(overrides)
	}

	if overrides.BandScale != "" && !overrides.BandScale.IsValid() {
		return domain.RenderOptions{}, fmt.Errorf("%w: band scale %q (expected five or four)",
			domain.ErrInvalidInput, overrides.BandScale)
	}
	style := domain.Style{
		BrandName:    overrides.BrandName,
		PrimaryColor: overrides.PrimaryColor,
		AccentColor:  overrides.AccentColor,
		BandScale:    overrides.BandScale,
	}
	return domain.RenderOptions{Style: style.WithDefaults()}, nil
}

// handleListRecipes handles the list_recipes tool invocation.
func (s *Server) handleListRecipes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListRecipesInput,
) (*mcp.CallToolResult, ListRecipesOutput, error) {
	ids, err := s.ports.Recipes.List(ctx)
	if err != nil {
		return nil, ListRecipesOutput{}, err
	}

	output := ListRecipesOutput{
		Recipes: make([]RecipeSummary, 0, len(ids)),
	}
	for _, id := range ids {
		recipe, err := s.ports.Recipes.Get(ctx, id)
		if err != nil {
			// Broken recipes are listed with their error.
			output.Recipes = append(output.Recipes, RecipeSummary{ID: id, Description: err.Error()})
			continue
		}
		output.Recipes = append(output.Recipes, RecipeSummary{
			ID:          id,
			Name:        recipe.Name,
			Description: recipe.Description,
			Sections:    len(recipe.Sections),
		})
	}
	output.Count = len(output.Recipes)

	return nil, output, nil
}
