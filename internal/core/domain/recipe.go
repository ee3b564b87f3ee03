package domain

import (
	"fmt"
	"strings"
)

// VisualType selects the renderer for a section.
// The set is closed; unknown values render with the narrative renderer.
type VisualType string

// Available visual types.
const (
	VisualScoreTile       VisualType = "score_tile"
	VisualScoreTiles      VisualType = "score_tiles"
	VisualBulletList      VisualType = "bullet_list"
	VisualNumberedList    VisualType = "numbered_list"
	VisualChecklist       VisualType = "checklist"
	VisualTable           VisualType = "table"
	VisualNarrative       VisualType = "narrative"
	VisualTimeline        VisualType = "timeline"
	VisualMetricCards     VisualType = "metric_cards"
	VisualBarChart        VisualType = "bar_chart"
	VisualRadarChart      VisualType = "radar_chart"
	VisualRiskMatrix      VisualType = "risk_matrix"
	VisualKPIDashboard    VisualType = "kpi_dashboard"
	VisualRoadmapTimeline VisualType = "roadmap_timeline"
	VisualProgressBars    VisualType = "progress_bars"
	VisualCalloutBox      VisualType = "callout_box"
	VisualComparisonTable VisualType = "comparison_table"
)

// VisualTypes returns every visual type in the closed set.
func VisualTypes() []VisualType {
	return []VisualType{
		VisualScoreTile, VisualScoreTiles, VisualBulletList, VisualNumberedList,
		VisualChecklist, VisualTable, VisualNarrative, VisualTimeline,
		VisualMetricCards, VisualBarChart, VisualRadarChart, VisualRiskMatrix,
		VisualKPIDashboard, VisualRoadmapTimeline, VisualProgressBars,
		VisualCalloutBox, VisualComparisonTable,
	}
}

// IsValid returns true if the visual type is in the closed set.
func (v VisualType) IsValid() bool {
	for _, known := range VisualTypes() {
		if v == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (v VisualType) String() string {
	return string(v)
}

// Recipe is a declarative document definition. It is owned and versioned
// by the recipe provider; the engine treats it as immutable input.
type Recipe struct {
	// ID is the identity the provider served this recipe under.
	// It is not part of the recipe file and is set by the provider.
	ID string `json:"-" yaml:"-"`

	Name            string    `json:"name" yaml:"name"`
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	TargetPageRange PageRange `json:"target_page_range" yaml:"target_page_range"`
	Sections        []Section `json:"sections" yaml:"sections"`
	Visuals         *Visuals  `json:"visuals,omitempty" yaml:"visuals,omitempty"`
}

// PageRange is the intended length of the produced document.
type PageRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Visuals holds recipe-wide presentation hints.
type Visuals struct {
	GlobalSettings *GlobalSettings `json:"global_settings,omitempty" yaml:"global_settings,omitempty"`
}

// GlobalSettings holds recipe-wide style modifiers.
type GlobalSettings struct {
	StyleModifiers map[string]any `json:"style_modifiers,omitempty" yaml:"style_modifiers,omitempty"`
}

// StyleModifiers returns the recipe's style modifiers or nil.
func (r *Recipe) StyleModifiers() map[string]any {
	if r == nil || r.Visuals == nil || r.Visuals.GlobalSettings == nil {
		return nil
	}
	return r.Visuals.GlobalSettings.StyleModifiers
}

// Section is one titled block of a document.
type Section struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	VisualType  VisualType     `json:"visual_type" yaml:"visual_type"`
	DataSources []DataSource   `json:"data_sources" yaml:"data_sources"`
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option returns a string option for the section, or fallback.
func (s Section) Option(key, fallback string) string {
	if s.Options == nil {
		return fallback
	}
	v, ok := s.Options[key].(string)
	if !ok || v == "" {
		return fallback
	}
	return v
}

// DataSource binds a named query to a section.
type DataSource struct {
	// ID is the key under which resolved data is stored for the section.
	ID string `json:"id" yaml:"id"`

	// From is the path expression handed to the resolver.
	From string `json:"from" yaml:"from"`

	Filters []Filter  `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort    *SortSpec `json:"sort,omitempty" yaml:"sort,omitempty"`

	// Limit truncates after filter and sort. Nil means no limit; zero keeps nothing.
	Limit *int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Filter is one declarative predicate. Every populated field narrows the
// result; a filter with several fields is the AND of them.
type Filter struct {
	Type           string   `json:"type,omitempty" yaml:"type,omitempty"`
	DimensionCodes []string `json:"dimension_codes,omitempty" yaml:"dimension_codes,omitempty"`
	MinScore       *float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	MaxScore       *float64 `json:"max_score,omitempty" yaml:"max_score,omitempty"`
}

// IsEmpty returns true if the filter carries no predicate.
func (f Filter) IsEmpty() bool {
	return f.Type == "" && len(f.DimensionCodes) == 0 && f.MinScore == nil && f.MaxScore == nil
}

// SortDirection orders a sort.
type SortDirection string

// Sort directions. Anything other than desc sorts ascending.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names the field and direction to sort by.
type SortSpec struct {
	Field     string        `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Descending returns true for a desc sort.
func (s SortSpec) Descending() bool {
	return strings.EqualFold(string(s.Direction), string(SortDesc))
}

// Validate checks structural invariants that a schema cannot express.
// Unknown visual types are allowed: they fall back to narrative rendering.
func (r *Recipe) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: recipe is nil", ErrInvalidRecipe)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if r.TargetPageRange.Max > 0 && r.TargetPageRange.Min > r.TargetPageRange.Max {
		return fmt.Errorf("%w: target_page_range min %d exceeds max %d",
			ErrInvalidRecipe, r.TargetPageRange.Min, r.TargetPageRange.Max)
	}

	seen := make(map[string]bool, len(r.Sections))
	for i, s := range r.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalidRecipe, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalidRecipe, s.ID)
		}
		seen[s.ID] = true

		bindings := make(map[string]bool, len(s.DataSources))
		for _, ds := range s.DataSources {
			if ds.ID == "" {
				return fmt.Errorf("%w: section %q has a data source with no id", ErrInvalidRecipe, s.ID)
			}
			if bindings[ds.ID] {
				return fmt.Errorf("%w: section %q binds %q twice", ErrInvalidRecipe, s.ID, ds.ID)
			}
			bindings[ds.ID] = true
			if ds.Limit != nil && *ds.Limit < 0 {
				return fmt.Errorf("%w: section %q source %q has negative limit", ErrInvalidRecipe, s.ID, ds.ID)
			}
		}
	}
	return nil
}
