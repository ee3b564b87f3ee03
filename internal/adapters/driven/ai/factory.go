// Package ai provides factory functions for creating narrative service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/healthdoc/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/healthdoc/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/healthdoc/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of narrative service initialisation.
type InitResult struct {
	NarrativeService driven.NarrativeService
	PromptStore      driven.PromptStore // User-customisable prompt templates.
	Warnings         []string           // Non-fatal issues that caused fallback.
	FellBack         bool               // True if narratives fall back to deterministic text.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.NarrativeService != nil {
		r.NarrativeService.Close()
	}
}

// Init creates and validates the narrative service for settings.
// Connectivity problems never fail the render; they are reported as
// warnings and narratives fall back to deterministic text.
func Init(settings *domain.NarrativeSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{PromptStore: prompts}
	if settings == nil || settings.Provider == "" {
		result.FellBack = true
		return result
	}

	svc, err := CreateAndValidateNarrativeService(settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
		return result
	}
	if svc == nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("narrative provider %s is not fully configured", settings.Provider))
		result.FellBack = true
		return result
	}

	if aware, ok := svc.(driven.PromptStoreAware); ok && prompts != nil {
		aware.SetPromptStore(prompts)
	}
	result.NarrativeService = svc
	return result
}

// CreateAndValidateNarrativeService creates a narrative service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateNarrativeService(settings *domain.NarrativeSettings) (driven.NarrativeService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateNarrativeService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'healthdoc settings narrative' to fix",
			domain.ErrNarrativeUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'healthdoc settings narrative' to fix",
			domain.ErrNarrativeUnavailable, err)
	}

	return svc, nil
}

// ValidateNarrativeConfig validates a narrative configuration by creating a service and pinging it.
func ValidateNarrativeConfig(settings *domain.NarrativeSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateNarrativeService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateNarrativeService creates the appropriate narrative service based on settings.
// Returns nil if the provider is not configured.
func CreateNarrativeService(settings *domain.NarrativeSettings) (driven.NarrativeService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllama(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAI(settings)

	case domain.AIProviderAnthropic:
		return createAnthropic(settings)

	default:
		return nil, fmt.Errorf("%w: narrative provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

func createOllama(settings *domain.NarrativeSettings) driven.NarrativeService {
	return ollamallm.NewNarrativeService(ollamallm.Config{
		BaseURL:       settings.BaseURL,
		Model:         settings.Model,
		RatePerMinute: settings.RatePerMinute,
	})
}

func createOpenAI(settings *domain.NarrativeSettings) (driven.NarrativeService, error) {
	return openaillm.NewNarrativeService(openaillm.Config{
		APIKey:        settings.APIKey,
		BaseURL:       settings.BaseURL,
		Model:         settings.Model,
		RatePerMinute: settings.RatePerMinute,
	})
}

func createAnthropic(settings *domain.NarrativeSettings) (driven.NarrativeService, error) {
	return anthropicllm.NewNarrativeService(anthropicllm.Config{
		APIKey:        settings.APIKey,
		BaseURL:       settings.BaseURL,
		Model:         settings.Model,
		RatePerMinute: settings.RatePerMinute,
	})
}
