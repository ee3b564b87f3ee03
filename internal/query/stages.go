package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// Stage transforms an item list. Stages never mutate their input slice.
type Stage interface {
	// Name returns the stage name for logging.
	Name() string

	// Apply returns the transformed items.
	Apply(items []any) []any
}

// Compile-time interface checks.
var (
	_ Stage = (*FilterStage)(nil)
	_ Stage = (*SortStage)(nil)
	_ Stage = (*LimitStage)(nil)
)

// FilterStage keeps items satisfying every filter, in declaration order.
type FilterStage struct {
	filters []domain.Filter
}

// NewFilterStage creates a filter stage.
func NewFilterStage(filters ...domain.Filter) *FilterStage {
	return &FilterStage{filters: filters}
}

// Name returns the stage name.
func (s *FilterStage) Name() string {
	return "filter"
}

// Apply narrows items by each filter in turn.
func (s *FilterStage) Apply(items []any) []any {
	out := slices.Clone(items)
	for _, f := range s.filters {
		if f.IsEmpty() {
			continue
		}
		kept := out[:0:0]
		for _, item := range out {
			if matches(item, f) {
				kept = append(kept, item)
			}
		}
		out = kept
	}
	return out
}

// matches reports whether item satisfies every populated field of f.
func matches(item any, f domain.Filter) bool {
	if f.Type != "" {
		v, ok := Field(item, "type")
		if !ok || cast.ToString(v) != f.Type {
			return false
		}
	}
	if len(f.DimensionCodes) > 0 {
		v, ok := Field(item, "dimensionCode")
		if !ok || !slices.Contains(f.DimensionCodes, cast.ToString(v)) {
			return false
		}
	}
	if f.MinScore != nil || f.MaxScore != nil {
		score, _ := Score(item)
		if f.MinScore != nil && score < *f.MinScore {
			return false
		}
		if f.MaxScore != nil && score > *f.MaxScore {
			return false
		}
	}
	return true
}

// SortStage stably orders items by a named field.
type SortStage struct {
	spec domain.SortSpec
}

// NewSortStage creates a sort stage.
func NewSortStage(spec domain.SortSpec) *SortStage {
	return &SortStage{spec: spec}
}

// Name returns the stage name.
func (s *SortStage) Name() string {
	return "sort"
}

// Apply returns a sorted copy of items. Items missing the field sort by
// their score, else 0.
func (s *SortStage) Apply(items []any) []any {
	out := slices.Clone(items)
	desc := s.spec.Descending()
	slices.SortStableFunc(out, func(a, b any) int {
		c := compare(sortKey(a, s.spec.Field), sortKey(b, s.spec.Field))
		if desc {
			return -c
		}
		return c
	})
	return out
}

// sortKey returns the value an item sorts by.
func sortKey(item any, field string) any {
	if field != "" {
		if v, ok := Field(item, field); ok {
			return v
		}
	}
	if score, ok := Score(item); ok {
		return score
	}
	return 0.0
}

// compare orders numbers before everything else. Numbers compare by value
// and the rest by their string form, so mixed keys still sort consistently.
func compare(a, b any) int {
	fa, okA := Number(a)
	fb, okB := Number(b)
	switch {
	case okA && okB:
		return cmp.Compare(fa, fb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(cast.ToString(a), cast.ToString(b))
	}
}

// LimitStage keeps the first N items.
type LimitStage struct {
	n int
}

// NewLimitStage creates a limit stage. Negative limits keep nothing.
func NewLimitStage(n int) *LimitStage {
	if n < 0 {
		n = 0
	}
	return &LimitStage{n: n}
}

// Name returns the stage name.
func (s *LimitStage) Name() string {
	return fmt.Sprintf("limit(%d)", s.n)
}

// Apply truncates items to at most N.
func (s *LimitStage) Apply(items []any) []any {
	if len(items) <= s.n {
		return slices.Clone(items)
	}
	return slices.Clone(items[:s.n])
}
