package renderers

import (
	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// RegisterDefaults registers all built-in renderers with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	for _, renderer := range builtins() {
		r.Register(domain.VisualType(renderer.Name()), renderer)
	}
}

// NewDefaultRegistry returns a registry holding every built-in renderer.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func builtins() []driven.Renderer {
	return []driven.Renderer{
		NewScoreTile(),
		NewScoreTiles(),
		NewBulletList(),
		NewNumberedList(),
		NewChecklist(),
		NewTable(),
		NewNarrative(),
		NewTimeline(),
		NewMetricCards(),
		NewBarChart(),
		NewRadarChart(),
		NewRiskMatrix(),
		NewKPIDashboard(),
		NewRoadmapTimeline(),
		NewProgressBars(),
		NewCalloutBox(),
		NewComparisonTable(),
	}
}
