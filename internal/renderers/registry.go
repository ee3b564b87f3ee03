package renderers

import (
	"sort"
	"sync"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.RendererRegistry = (*Registry)(nil)

// Registry maps visual types to renderers.
// Lookups of unregistered types return the fallback renderer.
type Registry struct {
	mu        sync.RWMutex
	renderers map[domain.VisualType]driven.Renderer
	fallback  driven.Renderer
}

// NewRegistry creates an empty registry that falls back to the narrative renderer.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[domain.VisualType]driven.Renderer),
		fallback:  NewNarrative(),
	}
}

// Register adds or replaces the renderer for a visual type.
func (r *Registry) Register(visualType domain.VisualType, renderer driven.Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[visualType] = renderer
}

// Lookup returns the renderer for a visual type, or the fallback and false.
func (r *Registry) Lookup(visualType domain.VisualType) (driven.Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[visualType]; ok {
		return renderer, true
	}
	return r.fallback, false
}

// Has returns true if a renderer is registered for the visual type.
func (r *Registry) Has(visualType domain.VisualType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[visualType]
	return ok
}

// Types returns all registered visual types, sorted.
func (r *Registry) Types() []domain.VisualType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.VisualType, 0, len(r.renderers))
	for t := range r.renderers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
