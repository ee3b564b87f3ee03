package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectory_IsValid(t *testing.T) {
	for _, tr := range []Trajectory{TrajectoryImproving, TrajectoryStable, TrajectoryDeclining, TrajectoryUnknown} {
		assert.True(t, tr.IsValid())
	}
	assert.False(t, Trajectory("sideways").IsValid())
}

func TestReportContext_Validate(t *testing.T) {
	var nilCtx *ReportContext
	assert.True(t, errors.Is(nilCtx.Validate(), ErrInvalidReportContext))

	ok := &ReportContext{OverallHealth: OverallHealth{Score: 72, Trajectory: TrajectoryStable}}
	require.NoError(t, ok.Validate())

	tooHigh := &ReportContext{OverallHealth: OverallHealth{Score: 120}}
	assert.True(t, errors.Is(tooHigh.Validate(), ErrInvalidReportContext))

	badTrajectory := &ReportContext{OverallHealth: OverallHealth{Score: 50, Trajectory: "sideways"}}
	assert.True(t, errors.Is(badTrajectory.Validate(), ErrInvalidReportContext))
}

func TestReportContext_WithNarrative(t *testing.T) {
	original := &ReportContext{
		CompanyName: "Acme",
		Narratives:  []Narrative{{Key: "intro", Text: "old"}},
	}

	updated := original.WithNarrative(Narrative{Key: "intro", Text: "new"})
	added := updated.WithNarrative(Narrative{Key: "outlook", Text: "bright"})

	text, ok := original.NarrativeText("intro")
	require.True(t, ok)
	assert.Equal(t, "old", text, "original must not be mutated")

	text, _ = updated.NarrativeText("intro")
	assert.Equal(t, "new", text)
	assert.Len(t, updated.Narratives, 1)

	assert.Len(t, added.Narratives, 2)
	_, ok = added.NarrativeText("missing")
	assert.False(t, ok)
}

func TestSectionData(t *testing.T) {
	data := SectionData{
		{ID: "a", Items: []any{"x", "y"}},
		{ID: "b", Items: nil},
		{ID: "c", Items: []any{1.0}},
	}

	assert.Equal(t, []any{"x", "y"}, data.Get("a"))
	assert.Nil(t, data.Get("missing"))
	assert.Equal(t, []any{"x", "y", 1.0}, data.All())
	assert.False(t, data.IsEmpty())

	assert.True(t, SectionData{{ID: "a"}, {ID: "b", Items: []any{}}}.IsEmpty())
	assert.True(t, SectionData(nil).IsEmpty())
}
