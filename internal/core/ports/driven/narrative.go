package driven

import (
	"context"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// NarrativeService generates prose from a structured prompt.
// This is an optional service: when nil, narratives fall back to
// deterministic sentences.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - OpenAI
//   - Ollama (local models)
type NarrativeService interface {
	// Generate produces narrative text and reports the tokens it consumed.
	Generate(ctx context.Context, prompt domain.NarrativePrompt) (domain.NarrativeResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// NarrativeValidator checks narrative provider settings.
type NarrativeValidator interface {
	// Validate pings the configured provider.
	// Returns nil if the configuration is valid or not configured.
	Validate(settings *domain.NarrativeSettings) error
}

// ReportContextLoader reads report contexts produced upstream.
type ReportContextLoader interface {
	// Load reads and validates the context at path.
	// Returns domain.ErrInvalidReportContext for malformed input.
	Load(ctx context.Context, path string) (*domain.ReportContext, error)
}
