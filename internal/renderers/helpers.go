package renderers

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Field priority lists shared by renderers.
var (
	// labelFields name an item.
	labelFields = []string{"name", "shortLabel", "theme", "narrative", "description", "text", "category", "code"}

	// textFields are the prose of an item.
	textFields = []string{"text", "name", "shortLabel", "theme", "narrative", "description"}

	// detailFields describe an item beyond its label.
	detailFields = []string{"narrative", "description", "mitigationSummary", "text"}

	// whenFields place an item in time.
	whenFields = []string{"timeHorizon", "horizon", "date", "when", "period"}
)

// PlaceholderClass marks the no-data placeholder.
const PlaceholderClass = "hd-empty"

// Default placeholder messages.
const (
	msgNoData  = "No data available"
	msgNoItems = "No items to show"
)

// Placeholder returns the visually distinct no-data fragment.
// The same message always produces the same markup.
func Placeholder(message string) string {
	if message == "" {
		message = msgNoData
	}
	return fmt.Sprintf(`<div class="%s" data-empty="true"><p>%s</p></div>`,
		PlaceholderClass, html.EscapeString(message))
}

// IsPlaceholder reports whether a fragment is the no-data placeholder.
func IsPlaceholder(fragment string) bool {
	return strings.Contains(fragment, `data-empty="true"`)
}

// BestLabel returns the text for an item. Strings are used verbatim; for
// records the first present, non-blank field in fields wins; anything else
// falls back to a stringified form of the item.
func BestLabel(item any, fields ...string) string {
	switch v := item.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		for _, f := range fields {
			val, ok := query.Field(v, f)
			if !ok {
				continue
			}
			if s := strings.TrimSpace(stringify(val)); s != "" {
				return s
			}
		}
	}
	return stringify(item)
}

// stringify renders any value as text. Records and lists become JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatNumber(t)
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// formatNumber trims a float to at most one decimal place.
func formatNumber(f float64) string {
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
}

// scoreOf reads a 0-100 score from an item. Bare numbers are scores.
func scoreOf(item any) (float64, bool) {
	if _, ok := item.(map[string]any); ok {
		return query.Score(item)
	}
	return query.Number(item)
}

// formatScore renders a score, or "N/A" when absent.
func formatScore(score float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return formatNumber(domain.ClampScore(score))
}

// severityOf reads a 0-10 risk severity. Missing or non-numeric severities
// are unknown.
func severityOf(item any) (float64, domain.RiskLevel) {
	v, ok := query.Field(item, "severity")
	if !ok {
		return 0, domain.RiskLevelUnknown
	}
	f, ok := query.Number(v)
	if !ok {
		return 0, domain.RiskLevelUnknown
	}
	return f, domain.RiskLevelFor(f)
}

// truthy reads a boolean-ish field.
func truthy(item any, fields ...string) bool {
	for _, f := range fields {
		if v, ok := query.Field(item, f); ok && cast.ToBool(v) {
			return true
		}
	}
	return false
}

// stringList reads a field holding a list of strings.
func stringList(item any, field string) []string {
	v, ok := query.Field(item, field)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		if s := stringify(v); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := strings.TrimSpace(stringify(r)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// optionalText returns the first present field, or "".
// Unlike BestLabel it never falls back to the stringified item.
func optionalText(item any, fields ...string) string {
	for _, f := range fields {
		if v, ok := query.Field(item, f); ok {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// esc escapes text for HTML.
func esc(s string) string {
	return html.EscapeString(s)
}

// bandBadge renders a band label with its colour class.
func bandBadge(b domain.Band) string {
	return fmt.Sprintf(`<span class="hd-band %s">%s</span>`, b.Class(), esc(b.Label))
}
