package mcp

import (
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Render renders and persists reports.
	Render driving.RenderService

	// Recipes lists and loads recipes.
	Recipes driving.RecipeService

	// Settings supplies the configured style. Optional; defaults apply when nil.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Render == nil {
		return ErrMissingRenderService
	}
	if p.Recipes == nil {
		return ErrMissingRecipeService
	}
	return nil
}
