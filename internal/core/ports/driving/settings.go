package driving

import "github.com/custodia-labs/healthdoc/internal/core/domain"

// StyleOverrides are per-invocation changes to the configured style.
// Empty fields keep the configured value.
type StyleOverrides struct {
	BrandName    string
	PrimaryColor string
	AccentColor  string
	BandScale    domain.BandScale
	OutputDir    string
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.EngineSettings, error)

	// Save persists application settings.
	Save(settings *domain.EngineSettings) error

	// SetNarrativeProvider configures the narrative provider.
	SetNarrativeProvider(provider domain.AIProvider, model, apiKey string) error

	// RenderOptions builds per-render options from settings plus overrides.
	RenderOptions(overrides StyleOverrides) (domain.RenderOptions, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.EngineSettings

	// ValidateNarrativeConfig pings the configured narrative provider.
	ValidateNarrativeConfig() error
}
