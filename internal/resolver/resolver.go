package resolver

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// alias maps a recipe-facing name to a fixed location in the context tree,
// optionally narrowed by a built-in predicate.
type alias struct {
	path  []string
	where *Predicate
}

// defaultAliases decouple recipes from the context's internal shape.
var defaultAliases = map[string]alias{
	"overall_health":  {path: []string{"overallHealth"}},
	"overall_score":   {path: []string{"overallHealth", "score"}},
	"overall_status":  {path: []string{"overallHealth", "status"}},
	"trajectory":      {path: []string{"overallHealth", "trajectory"}},
	"health_band":     {path: []string{"overallHealth", "band"}},
	"company_name":    {path: []string{"companyName"}},
	"chapters":        {path: []string{"chapters"}},
	"dimensions":      {path: []string{"dimensions"}},
	"findings":        {path: []string{"findings"}},
	"strengths":       {path: []string{"findings"}, where: &Predicate{Key: "type", Value: string(domain.FindingStrength)}},
	"gaps":            {path: []string{"findings"}, where: &Predicate{Key: "type", Value: string(domain.FindingGap)}},
	"recommendations": {path: []string{"recommendations"}},
	"quick_wins":      {path: []string{"quickWins"}},
	"risks":           {path: []string{"risks"}},
	"roadmap":         {path: []string{"roadmap"}},
	"roadmap_phases":  {path: []string{"roadmap", "phases"}},
	"narratives":      {path: []string{"narratives"}},

	// Camel-case synonyms matching the context's field names.
	"overallHealth":            {path: []string{"overallHealth"}},
	"overallHealth.score":      {path: []string{"overallHealth", "score"}},
	"overallHealth.status":     {path: []string{"overallHealth", "status"}},
	"overallHealth.trajectory": {path: []string{"overallHealth", "trajectory"}},
	"overallHealth.band":       {path: []string{"overallHealth", "band"}},
	"quickWins":                {path: []string{"quickWins"}},
	"roadmap.phases":           {path: []string{"roadmap", "phases"}},
}

// Resolver resolves path expressions against one report context.
// Resolution never fails and has no side effects: unknown or malformed
// expressions yield nil.
type Resolver struct {
	tree    map[string]any
	aliases map[string]alias
}

// New creates a resolver over a normalised copy of the context.
// The context itself is never retained or mutated.
func New(rc *domain.ReportContext) *Resolver {
	aliases := make(map[string]alias, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	return &Resolver{
		tree:    normalise(rc),
		aliases: aliases,
	}
}

// normalise converts the typed context into a generic JSON tree so items
// are records (map[string]any), strings, numbers, bools or nil.
func normalise(rc *domain.ReportContext) map[string]any {
	tree := make(map[string]any)
	if rc == nil {
		return tree
	}
	data, err := json.Marshal(rc)
	if err != nil {
		return tree
	}
	if err := json.Unmarshal(data, &tree); err != nil {
		return make(map[string]any)
	}
	return tree
}

// Register adds or replaces an alias pointing at a path in the context tree.
func (r *Resolver) Register(name string, path ...string) {
	r.aliases[name] = alias{path: append([]string(nil), path...)}
}

// Aliases returns the registered alias names.
func (r *Resolver) Aliases() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	return names
}

// Resolve parses and resolves a path expression. It returns nil when the
// expression is malformed, the alias is unknown, or nothing matches.
func (r *Resolver) Resolve(expr string) any {
	e, err := Parse(expr)
	if err != nil {
		return nil
	}
	return r.ResolveExpr(e)
}

// ResolveExpr resolves a parsed expression.
func (r *Resolver) ResolveExpr(e Expr) any {
	a, ok := r.aliases[e.Alias]
	if !ok {
		return nil
	}

	value := lookup(r.tree, a.path)
	if a.where != nil {
		value = selectWhere(value, *a.where)
	}
	if e.Index != nil {
		value = selectWhere(value, *e.Index)
	}
	return value
}

// lookup walks nested records along path.
func lookup(tree map[string]any, path []string) any {
	var current any = tree
	for _, key := range path {
		record, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = record[key]
		if !ok {
			return nil
		}
	}
	return current
}

// selectWhere keeps the collection elements whose field equals the predicate
// value, compared on string form. Returns nil for non-collections or no match.
func selectWhere(value any, p Predicate) any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var matched []any
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		field, ok := record[p.Key]
		if !ok || field == nil {
			continue
		}
		if cast.ToString(field) == p.Value {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return matched
}
