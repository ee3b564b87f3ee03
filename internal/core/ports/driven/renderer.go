package driven

import "github.com/custodia-labs/healthdoc/internal/core/domain"

// RenderInput is everything a renderer may read.
type RenderInput struct {
	// Section is the recipe section being rendered.
	Section domain.Section

	// Data holds the section's bound arrays keyed by binding id.
	Data domain.SectionData

	// Report is the full context, for renderers that annotate with headline data.
	// It may be nil.
	Report *domain.ReportContext

	// Style is the immutable brand style for this render.
	Style domain.Style
}

// Renderer turns resolved section data into a markup fragment.
// Implementations are pure: no I/O, no retained state, no panics on
// malformed data. Empty data renders the no-data placeholder.
type Renderer interface {
	// Name returns the visual type this renderer serves.
	Name() string

	// Render returns the markup fragment for the input.
	Render(in RenderInput) string
}

// RendererRegistry maps visual types to renderers.
type RendererRegistry interface {
	// Register adds or replaces the renderer for a visual type.
	Register(visualType domain.VisualType, renderer Renderer)

	// Lookup returns the renderer for a visual type. Unregistered types
	// return the fallback renderer and false.
	Lookup(visualType domain.VisualType) (Renderer, bool)

	// Types returns all registered visual types.
	Types() []domain.VisualType
}
