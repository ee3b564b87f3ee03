package query

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Field returns the named field of a record item. Non-record items and
// absent or null fields report false.
func Field(item any, key string) (any, bool) {
	record, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := record[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Number coerces v to a float64. Nil, booleans, blank strings and anything
// that does not parse as a number report false.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, false
		}
		v = strings.TrimSpace(t)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// scoreFields are checked in order when reading an item's score.
var scoreFields = []string{"score", "score_overall"}

// Score returns the item's numeric score, checking score then score_overall.
func Score(item any) (float64, bool) {
	for _, key := range scoreFields {
		if v, ok := Field(item, key); ok {
			if f, ok := Number(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// HasScore returns true if the record carries a score field, numeric or not.
func HasScore(item any) bool {
	for _, key := range scoreFields {
		if _, ok := Field(item, key); ok {
			return true
		}
	}
	return false
}

// Normalise turns a resolved value into the item list a renderer consumes.
// Slices are copied; falsy scalars become empty; other values are wrapped.
func Normalise(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case bool:
		if !v {
			return []any{}
		}
	case string:
		if v == "" {
			return []any{}
		}
	case float64:
		if v == 0 || math.IsNaN(v) {
			return []any{}
		}
	case int:
		if v == 0 {
			return []any{}
		}
	}
	return []any{value}
}
