package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies a narrative generation provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// AllAIProviders returns every supported narrative provider.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true for providers that run on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultNarrativeModels returns the model used when none is configured.
func DefaultNarrativeModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// DefaultOllamaURL is the local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// DefaultNarrativeRate is the default cap on narrative requests per minute.
const DefaultNarrativeRate = 30

// NarrativeSettings holds narrative provider configuration.
type NarrativeSettings struct {
	// Provider is the narrative service provider. Empty disables narratives.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RatePerMinute caps outbound narrative requests. Zero means the default.
	RatePerMinute int
}

// IsConfigured returns true if the narrative provider is set up.
func (n NarrativeSettings) IsConfigured() bool {
	if !n.Provider.IsValid() {
		return false
	}
	if n.Provider.RequiresAPIKey() && n.APIKey == "" {
		return false
	}
	return true
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string

	// File enables a rotating JSON log file when set.
	File string
}

// EngineSettings holds all application settings.
type EngineSettings struct {
	// Style is the default brand styling applied when a render does not override it.
	Style Style

	// RecipesDir is the directory the file recipe provider reads from.
	// Empty means built-in recipes only.
	RecipesDir string

	// OutputDir is the root directory for generated artifacts.
	OutputDir string

	// HistoryDir is the directory holding the render history database.
	HistoryDir string

	// Narrative holds narrative provider settings.
	Narrative NarrativeSettings

	// Log holds logging settings.
	Log LogSettings
}

// DefaultEngineSettings returns settings with sensible defaults.
// Narrative generation is left unconfigured by default.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Style: DefaultStyle(),
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Validate checks the settings for values that would break a render.
func (s EngineSettings) Validate() error {
	if s.Style.PrimaryColor != "" && !IsHexColor(s.Style.PrimaryColor) {
		return fmt.Errorf("%w: primary colour %q is not a hex colour", ErrInvalidInput, s.Style.PrimaryColor)
	}
	if s.Style.AccentColor != "" && !IsHexColor(s.Style.AccentColor) {
		return fmt.Errorf("%w: accent colour %q is not a hex colour", ErrInvalidInput, s.Style.AccentColor)
	}
	if s.Style.BandScale != "" && !s.Style.BandScale.IsValid() {
		return fmt.Errorf("%w: band scale %q (expected five or four)", ErrInvalidInput, s.Style.BandScale)
	}
	if s.Narrative.Provider != "" && !s.Narrative.Provider.IsValid() {
		return fmt.Errorf("%w: narrative provider %q", ErrUnsupportedType, s.Narrative.Provider)
	}
	if s.Narrative.RatePerMinute < 0 {
		return fmt.Errorf("%w: narrative rate must not be negative", ErrInvalidInput)
	}
	return nil
}
