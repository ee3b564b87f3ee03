package ai

import (
	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.NarrativeValidator = (*ConfigValidator)(nil)

// ConfigValidator validates narrative provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new narrative config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate validates a narrative configuration by pinging the provider.
func (v *ConfigValidator) Validate(settings *domain.NarrativeSettings) error {
	return ValidateNarrativeConfig(settings)
}
