package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

// Ensure RecipeService implements the interface.
var _ driving.RecipeService = (*RecipeService)(nil)

// RecipeService exposes the recipes a provider can serve.
type RecipeService struct {
	provider driven.RecipeProvider
}

// NewRecipeService creates a recipe service.
func NewRecipeService(provider driven.RecipeProvider) *RecipeService {
	return &RecipeService{
		provider: provider,
	}
}

// List returns every recipe id, sorted.
func (s *RecipeService) List(ctx context.Context) ([]string, error) {
	return s.provider.List(ctx)
}

// Get returns the recipe for id.
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: recipe id is required", domain.ErrInvalidInput)
	}
	return s.provider.Load(ctx, id)
}
