package driven

import (
	"context"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// RecipeProvider supplies declarative recipes by identity.
type RecipeProvider interface {
	// Load returns the recipe for id.
	// Returns domain.ErrRecipeNotFound for unknown ids and
	// domain.ErrInvalidRecipe for recipes that fail validation.
	Load(ctx context.Context, id string) (*domain.Recipe, error)

	// List returns the ids of every recipe the provider can serve, sorted.
	List(ctx context.Context) ([]string, error)
}
