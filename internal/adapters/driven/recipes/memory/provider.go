// Package memory provides a map-backed recipe provider.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.RecipeProvider = (*Provider)(nil)

// Provider serves recipes held in memory.
type Provider struct {
	mu      sync.RWMutex
	recipes map[string]domain.Recipe
}

// New creates an empty provider.
func New() *Provider {
	return &Provider{
		recipes: make(map[string]domain.Recipe),
	}
}

// Add validates and stores a recipe under id, replacing any previous one.
func (p *Provider) Add(id string, recipe *domain.Recipe) error {
	if id == "" {
		return fmt.Errorf("%w: recipe id is required", domain.ErrInvalidInput)
	}
	if err := recipe.Validate(); err != nil {
		return fmt.Errorf("recipe %q: %w", id, err)
	}

	r := *recipe
	r.ID = id

	p.mu.Lock()
	defer p.mu.Unlock()
	p.recipes[id] = r
	return nil
}

// Load returns a copy of the recipe stored under id.
func (p *Provider) Load(ctx context.Context, id string) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	return &r, nil
}

// List returns every stored recipe id, sorted.
func (p *Provider) List(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.recipes))
	for id := range p.recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
