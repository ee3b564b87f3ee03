package driving

import (
	"context"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// RenderRequest asks for one report to be rendered.
type RenderRequest struct {
	// RecipeID selects the recipe; it is also the report type.
	RecipeID string

	// Context is the scored snapshot to render. It is never mutated.
	Context *domain.ReportContext

	// Options are the per-render style and output settings.
	Options domain.RenderOptions

	// Narrate requests narrative generation before rendering.
	Narrate bool
}

// BatchResult is the outcome of one request within a batch.
type BatchResult struct {
	RecipeID string
	Report   *domain.GeneratedReport
	Err      error
}

// RenderService renders recipes into documents.
type RenderService interface {
	// Render composes, assembles and persists one report.
	// Returns domain.ErrRecipeNotFound for unknown recipes.
	Render(ctx context.Context, req RenderRequest) (*domain.GeneratedReport, error)

	// RenderBatch renders independent requests in parallel.
	// Results are returned in request order; one failure never cancels the others.
	RenderBatch(ctx context.Context, reqs []RenderRequest) []BatchResult

	// Preview composes and assembles a report without persisting it.
	Preview(ctx context.Context, req RenderRequest) (*domain.Document, error)
}

// RecipeService exposes the available recipes.
type RecipeService interface {
	// List returns every recipe id, sorted.
	List(ctx context.Context) ([]string, error)

	// Get returns the recipe for id.
	Get(ctx context.Context, id string) (*domain.Recipe, error)
}

// HistoryService exposes render history.
type HistoryService interface {
	// List returns the reports generated for a run, or every run when runID is empty.
	List(ctx context.Context, runID string) ([]domain.GeneratedReport, error)

	// Latest returns the most recent report of a type.
	Latest(ctx context.Context, reportType string) (*domain.GeneratedReport, error)
}
