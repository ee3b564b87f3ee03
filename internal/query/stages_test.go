package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

func findings() []any {
	return []any{
		map[string]any{"name": "f1", "type": "strength", "dimensionCode": "FIN", "score": 82.0},
		map[string]any{"name": "f2", "type": "gap", "dimensionCode": "HR", "score": 35.0},
		map[string]any{"name": "f3", "type": "strength", "dimensionCode": "SAL", "score": 64.0},
		map[string]any{"name": "f4", "type": "gap", "dimensionCode": "FIN", "score_overall": 51.0},
		map[string]any{"name": "f5", "type": "risk"},
		"plain text item",
	}
}

func TestFilterStage(t *testing.T) {
	tests := []struct {
		name     string
		filters  []domain.Filter
		expected []string
	}{
		{
			name:     "type",
			filters:  []domain.Filter{{Type: "gap"}},
			expected: []string{"f2", "f4"},
		},
		{
			name:     "dimension codes",
			filters:  []domain.Filter{{DimensionCodes: []string{"FIN", "SAL"}}},
			expected: []string{"f1", "f3", "f4"},
		},
		{
			name:     "min score reads score_overall",
			filters:  []domain.Filter{{MinScore: floatPtr(50)}},
			expected: []string{"f1", "f3", "f4"},
		},
		{
			name:     "max score treats absent score as zero",
			filters:  []domain.Filter{{MaxScore: floatPtr(40)}},
			expected: []string{"f2", "f5", "plain text item"},
		},
		{
			name:     "bounds are inclusive",
			filters:  []domain.Filter{{MinScore: floatPtr(64), MaxScore: floatPtr(82)}},
			expected: []string{"f1", "f3"},
		},
		{
			name:     "fields within one filter are combined with AND",
			filters:  []domain.Filter{{Type: "strength", DimensionCodes: []string{"FIN"}}},
			expected: []string{"f1"},
		},
		{
			name:     "multiple filters narrow in turn",
			filters:  []domain.Filter{{DimensionCodes: []string{"FIN"}}, {Type: "gap"}},
			expected: []string{"f4"},
		},
		{
			name:     "no match",
			filters:  []domain.Filter{{Type: "opportunity"}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFilterStage(tt.filters...).Apply(findings())
			assert.Equal(t, tt.expected, names(got))

			// Every survivor came from the input.
			for _, g := range got {
				assert.Contains(t, findings(), g)
			}
		})
	}
}

func TestFilterStage_EmptyFilterKeepsEverything(t *testing.T) {
	got := NewFilterStage(domain.Filter{}).Apply(findings())

	assert.Len(t, got, len(findings()))
}

func TestSortStage_Stable(t *testing.T) {
	items := []any{
		map[string]any{"name": "a", "score": 50.0},
		map[string]any{"name": "b", "score": 70.0},
		map[string]any{"name": "c", "score": 50.0},
		map[string]any{"name": "d", "score": 70.0},
	}

	asc := NewSortStage(domain.SortSpec{Field: "score"}).Apply(items)
	if diff := cmp.Diff([]string{"a", "c", "b", "d"}, names(asc)); diff != "" {
		t.Errorf("asc mismatch (-want +got):\n%s", diff)
	}

	desc := NewSortStage(domain.SortSpec{Field: "score", Direction: domain.SortDesc}).Apply(items)
	if diff := cmp.Diff([]string{"b", "d", "a", "c"}, names(desc)); diff != "" {
		t.Errorf("desc mismatch (-want +got):\n%s", diff)
	}
}

func TestSortStage_MissingFieldFallsBackToScore(t *testing.T) {
	items := []any{
		map[string]any{"name": "ranked", "priority": 5.0},
		map[string]any{"name": "scored", "score": 3.0},
		map[string]any{"name": "bare"},
	}

	got := NewSortStage(domain.SortSpec{Field: "priority"}).Apply(items)

	assert.Equal(t, []string{"bare", "scored", "ranked"}, names(got))
}

func TestSortStage_UnknownDirectionIsAscending(t *testing.T) {
	items := []any{item("x", 3), item("y", 1), item("z", 2)}

	got := NewSortStage(domain.SortSpec{Field: "score", Direction: "sideways"}).Apply(items)

	assert.Equal(t, []string{"y", "z", "x"}, names(got))
}

func TestSortStage_StringsAndNumericStrings(t *testing.T) {
	items := []any{
		map[string]any{"name": "beta", "rank": "10"},
		map[string]any{"name": "alpha", "rank": "9"},
	}

	byRank := NewSortStage(domain.SortSpec{Field: "rank"}).Apply(items)
	assert.Equal(t, []string{"alpha", "beta"}, names(byRank))

	byName := NewSortStage(domain.SortSpec{Field: "name"}).Apply(items)
	assert.Equal(t, []string{"alpha", "beta"}, names(byName))
}

func TestSortStage_MixedKeysNumbersFirst(t *testing.T) {
	items := []any{
		map[string]any{"name": "a", "rank": "a"},
		map[string]any{"name": "ten", "rank": 10.0},
		map[string]any{"name": "b", "rank": "b"},
		map[string]any{"name": "nine", "rank": "9"},
		map[string]any{"name": "two", "rank": 2.0},
	}

	asc := NewSortStage(domain.SortSpec{Field: "rank"}).Apply(items)
	if diff := cmp.Diff([]string{"two", "nine", "ten", "a", "b"}, names(asc)); diff != "" {
		t.Errorf("asc mismatch (-want +got):\n%s", diff)
	}

	desc := NewSortStage(domain.SortSpec{Field: "rank", Direction: domain.SortDesc}).Apply(items)
	if diff := cmp.Diff([]string{"b", "a", "ten", "nine", "two"}, names(desc)); diff != "" {
		t.Errorf("desc mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_Consistent(t *testing.T) {
	keys := []any{10.0, "9", "a", 2.0, "", nil, "10"}
	for _, a := range keys {
		assert.Equal(t, 0, compare(a, a), "%v", a)
		for _, b := range keys {
			assert.Equal(t, compare(a, b), -compare(b, a), "%v vs %v", a, b)
			for _, c := range keys {
				if compare(a, b) <= 0 && compare(b, c) <= 0 {
					assert.LessOrEqual(t, compare(a, c), 0, "%v <= %v <= %v", a, b, c)
				}
			}
		}
	}
}

func TestLimitStage(t *testing.T) {
	items := []any{"a", "b", "c"}

	for n, want := range map[int]int{0: 0, 1: 1, 3: 3, 10: 3, -1: 0} {
		got := NewLimitStage(n).Apply(items)
		assert.Len(t, got, want, "limit %d", n)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 7.5, want: 7.5, ok: true},
		{in: 8, want: 8, ok: true},
		{in: " 42 ", want: 42, ok: true},
		{in: "high", ok: false},
		{in: "", ok: false},
		{in: nil, ok: false},
		{in: true, ok: false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestScore(t *testing.T) {
	s, ok := Score(map[string]any{"score_overall": "61"})
	assert.True(t, ok)
	assert.Equal(t, 61.0, s)

	_, ok = Score("text")
	assert.False(t, ok)

	assert.True(t, HasScore(map[string]any{"score": "n/a"}))
	assert.False(t, HasScore(map[string]any{"name": "x"}))
}
