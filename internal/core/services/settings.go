package services

import (
	"fmt"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBrandName         = "brand.name"
	keyBrandPrimary      = "brand.primary_color"
	keyBrandAccent       = "brand.accent_color"
	keyBandScale         = "render.band_scale"
	keyCustomCSS         = "render.custom_css"
	keyRecipesDir        = "recipes.dir"
	keyOutputDir         = "output.dir"
	keyHistoryDir        = "history.dir"
	keyNarrativeProvider = "narrative.provider"
	keyNarrativeModel    = "narrative.model"
	keyNarrativeAPIKey   = "narrative.api_key"
	keyNarrativeBaseURL  = "narrative.base_url"
	keyNarrativeRate     = "narrative.rate_per_minute"
	keyLogFile           = "log.file"
	keyLogLevel          = "log.level"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.NarrativeValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, validator driven.NarrativeValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.EngineSettings, error) {
	defaults := domain.DefaultEngineSettings()

	settings := &domain.EngineSettings{
		Style: domain.Style{
			BrandName:    s.getString(keyBrandName, defaults.Style.BrandName),
			PrimaryColor: s.getString(keyBrandPrimary, defaults.Style.PrimaryColor),
			AccentColor:  s.getString(keyBrandAccent, defaults.Style.AccentColor),
			BandScale:    s.getBandScale(defaults.Style.BandScale),
			CustomCSS:    s.configStore.GetString(keyCustomCSS),
		},
		RecipesDir: s.configStore.GetString(keyRecipesDir),
		OutputDir:  s.configStore.GetString(keyOutputDir),
		HistoryDir: s.configStore.GetString(keyHistoryDir),
		Narrative: domain.NarrativeSettings{
			Provider:      s.getProvider(keyNarrativeProvider, defaults.Narrative.Provider),
			Model:         s.getString(keyNarrativeModel, defaults.Narrative.Model),
			BaseURL:       s.configStore.GetString(keyNarrativeBaseURL),
			APIKey:        s.configStore.GetString(keyNarrativeAPIKey),
			RatePerMinute: s.getInt(keyNarrativeRate, defaults.Narrative.RatePerMinute),
		},
		Log: domain.LogSettings{
			Level: s.getString(keyLogLevel, defaults.Log.Level),
			File:  s.configStore.GetString(keyLogFile),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.EngineSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyBrandName:         settings.Style.BrandName,
		keyBrandPrimary:      settings.Style.PrimaryColor,
		keyBrandAccent:       settings.Style.AccentColor,
		keyBandScale:         settings.Style.BandScale.String(),
		keyCustomCSS:         settings.Style.CustomCSS,
		keyRecipesDir:        settings.RecipesDir,
		keyOutputDir:         settings.OutputDir,
		keyHistoryDir:        settings.HistoryDir,
		keyNarrativeProvider: settings.Narrative.Provider.String(),
		keyNarrativeModel:    settings.Narrative.Model,
		keyNarrativeBaseURL:  settings.Narrative.BaseURL,
		keyNarrativeRate:     settings.Narrative.RatePerMinute,
		keyLogLevel:          settings.Log.Level,
		keyLogFile:           settings.Log.File,
	}
	// An empty key never overwrites a stored one.
	if settings.Narrative.APIKey != "" {
		values[keyNarrativeAPIKey] = settings.Narrative.APIKey
	}

	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetNarrativeProvider configures the narrative provider.
func (s *SettingsService) SetNarrativeProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid narrative provider: %s", domain.ErrUnsupportedType, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Narrative.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Narrative.Model = model
	} else if defaultModel, ok := domain.DefaultNarrativeModels()[provider]; ok {
		settings.Narrative.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Narrative.BaseURL == "" {
			settings.Narrative.BaseURL = domain.DefaultOllamaURL
		}
	} else {
		settings.Narrative.BaseURL = ""
	}

	settings.Narrative.APIKey = apiKey

	return s.Save(settings)
}

// RenderOptions builds per-render options from settings plus overrides.
func (s *SettingsService) RenderOptions(overrides driving.StyleOverrides) (domain.RenderOptions, error) {
	settings, err := s.Get()
	if err != nil {
		return domain.RenderOptions{}, err
	}

	style := settings.Style
	if overrides.BrandName != "" {
		style.BrandName = overrides.BrandName
	}
	if overrides.PrimaryColor != "" {
		if !domain.IsHexColor(overrides.PrimaryColor) {
			return domain.RenderOptions{}, fmt.Errorf("%w: primary colour %q is not a hex colour",
				domain.ErrInvalidInput, overrides.PrimaryColor)
		}
		style.PrimaryColor = overrides.PrimaryColor
	}
	if overrides.AccentColor != "" {
		if !domain.IsHexColor(overrides.AccentColor) {
			return domain.RenderOptions{}, fmt.Errorf("%w: accent colour %q is not a hex colour",
				domain.ErrInvalidInput, overrides.AccentColor)
		}
		style.AccentColor = overrides.AccentColor
	}
	if overrides.BandScale != "" {
		if !overrides.BandScale.IsValid() {
			return domain.RenderOptions{}, fmt.Errorf("%w: band scale %q (expected five or four)",
				domain.ErrInvalidInput, overrides.BandScale)
		}
		style.BandScale = overrides.BandScale
	}

	outputDir := settings.OutputDir
	if overrides.OutputDir != "" {
		outputDir = overrides.OutputDir
	}

	return domain.RenderOptions{
		Style:     style.WithDefaults(),
		OutputDir: outputDir,
	}, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

// ValidateNarrativeConfig validates the current narrative configuration by pinging the provider.
func (s *SettingsService) ValidateNarrativeConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.Validate(&settings.Narrative)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBandScale(defaultVal domain.BandScale) domain.BandScale {
	scale := domain.BandScale(s.configStore.GetString(keyBandScale))
	if !scale.IsValid() {
		return defaultVal
	}
	return scale
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
