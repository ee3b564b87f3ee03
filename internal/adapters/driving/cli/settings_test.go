package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.RecipesDir = "/srv/recipes"

	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "/srv/recipes")
	assert.Contains(t, out, "(none, fixed sentences)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_ShowMasksKey(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Narrative = domain.NarrativeSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "OpenAI (cloud)")
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "30/min")
}

func TestSettingsCmd_ShowIncomplete(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Narrative = domain.NarrativeSettings{Provider: domain.AIProviderAnthropic}

	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "not fully configured")
}

func TestSettingsBrandCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	before := ts.settings.settings.Style

	out, err := execute(t, "settings", "brand", "--name", "Northwind", "--primary", "#123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Brand settings saved.")

	got := ts.settings.settings.Style
	assert.Equal(t, "Northwind", got.BrandName)
	assert.Equal(t, "#123456", got.PrimaryColor)
	assert.Equal(t, before.AccentColor, got.AccentColor)
	assert.Equal(t, before.BandScale, got.BandScale)
}

func TestSettingsBrandCmd_Errors(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "brand")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")

	_, err = execute(t, "settings", "brand", "--band-scale", "seven")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, ts.settings.saved)
}

func TestSettingsDirsCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "dirs", "--output", "/var/reports", "--history", "/var/lib/healthdoc")
	require.NoError(t, err)
	assert.Equal(t, "/var/reports", ts.settings.settings.OutputDir)
	assert.Equal(t, "/var/lib/healthdoc", ts.settings.settings.HistoryDir)
	assert.Empty(t, ts.settings.settings.RecipesDir)
	assert.Equal(t, 1, ts.settings.saved)
}

func TestSettingsNarrativeCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("3\n\nsk-ant-secret\n"))
	out, err := execute(t, "settings", "narrative")
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderAnthropic, ts.settings.provider)
	assert.Equal(t, "claude-3-5-haiku-latest", ts.settings.model)
	assert.Equal(t, "sk-ant-secret", ts.settings.apiKey)
	assert.Contains(t, out, "Narrative provider configured: Anthropic (cloud)")
}

func TestSettingsNarrativeCmd_LocalNoKey(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("1\nmistral\n"))
	_, err := execute(t, "settings", "narrative")
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.provider)
	assert.Equal(t, "mistral", ts.settings.model)
	assert.Empty(t, ts.settings.apiKey)
}

func TestSettingsNarrativeCmd_MissingKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("2\n\n\n"))
	_, err := execute(t, "settings", "narrative")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsNarrativeCmd_ValidationFails(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.validateErr = errors.New("connection refused")

	rootCmd.SetIn(strings.NewReader("1\n\n"))
	out, err := execute(t, "settings", "narrative")
	require.Error(t, err)
	assert.Contains(t, out, "FAILED: connection refused")
}
