package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/custodia-labs/healthdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
	"github.com/custodia-labs/healthdoc/internal/renderers"
)

func tableRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:   "scores",
		Name: "Scores",
		Sections: []domain.Section{{
			ID:          "chapters",
			Title:       "Chapters",
			VisualType:  domain.VisualTable,
			DataSources: []domain.DataSource{{ID: "c", From: "chapters"}},
		}},
	}
}

func newRenderFixture(t *testing.T) (*RenderService, *memory.ArtifactStore, *memory.HistoryStore) {
	t.Helper()
	artifacts := memory.NewArtifactStore()
	history := memory.NewHistoryStore()
	svc := NewRenderService(
		recipeProvider(scenarioRecipe(), tableRecipe()),
		renderers.NewDefaultRegistry(),
		artifacts,
		history,
		NewNarrativeEnricher(nil),
	)
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC) }
	return svc, artifacts, history
}

func TestRenderService_Render(t *testing.T) {
	svc, artifacts, history := newRenderFixture(t)
	ctx := context.Background()

	report, err := svc.Render(ctx, driving.RenderRequest{RecipeID: "board_pack", Context: sampleContext()})
	require.NoError(t, err)

	assert.Equal(t, "board_pack", report.ReportType)
	assert.Equal(t, "Board Pack", report.ReportName)
	assert.Equal(t, "run-42", report.RunID)
	assert.Equal(t, "run-42/board_pack.html", report.DocumentPath)
	assert.Equal(t, "run-42/board_pack.meta.json", report.MetadataPath)
	assert.Equal(t, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), report.GeneratedAt)
	assert.Equal(t, "Attention", report.HealthBand)

	html, err := artifacts.Read(ctx, "run-42", "board_pack.html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Board Pack</h1>")

	meta, err := artifacts.Read(ctx, "run-42", "board_pack.meta.json")
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"companyName": "Acme Ltd"`)

	recorded, err := history.List(ctx, "run-42")
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, *report, recorded[0])
}

func TestRenderService_RenderWithNarratives(t *testing.T) {
	svc, artifacts, _ := newRenderFixture(t)
	ctx := context.Background()

	_, err := svc.Render(ctx, driving.RenderRequest{RecipeID: "board_pack", Context: sampleContext(), Narrate: true})
	require.NoError(t, err)

	doc, ok := artifacts.Document("run-42", "board_pack.html")
	require.True(t, ok)
	summary := doc.Sections[3]
	assert.False(t, summary.Empty)
	assert.Contains(t, summary.Body, "Acme Ltd has an overall health score of 68")
}

func TestRenderService_Errors(t *testing.T) {
	svc, _, _ := newRenderFixture(t)
	ctx := context.Background()

	_, err := svc.Render(ctx, driving.RenderRequest{RecipeID: "missing", Context: sampleContext()})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = svc.Render(ctx, driving.RenderRequest{RecipeID: "board_pack"})
	assert.ErrorIs(t, err, domain.ErrInvalidReportContext)

	bad := sampleContext()
	bad.OverallHealth.Score = 120
	_, err = svc.Render(ctx, driving.RenderRequest{RecipeID: "board_pack", Context: bad})
	assert.ErrorIs(t, err, domain.ErrInvalidReportContext)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Render(cancelled, driving.RenderRequest{RecipeID: "board_pack", Context: sampleContext()})
	assert.ErrorIs(t, err, context.Canceled)

	noStore := NewRenderService(recipeProvider(tableRecipe()), renderers.NewDefaultRegistry(), nil, nil, nil)
	_, err = noStore.Render(ctx, driving.RenderRequest{RecipeID: "scores", Context: sampleContext()})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestRenderService_PreviewDoesNotPersist(t *testing.T) {
	svc, artifacts, history := newRenderFixture(t)
	ctx := context.Background()
	rc := sampleContext()
	rc.RunID = ""

	doc, err := svc.Preview(ctx, driving.RenderRequest{RecipeID: "scores", Context: rc})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.Metadata.RunID)
	assert.Empty(t, rc.RunID, "input context must not be mutated")
	assert.Zero(t, artifacts.Count())
	all, _ := history.List(ctx, "")
	assert.Empty(t, all)
}

func TestRenderService_RenderBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc, artifacts, history := newRenderFixture(t)
	svc.SetConcurrency(2)
	ctx := context.Background()

	rc := sampleContext()
	rc.RunID = ""
	reqs := []driving.RenderRequest{
		{RecipeID: "board_pack", Context: rc},
		{RecipeID: "missing", Context: rc},
		{RecipeID: "scores", Context: rc},
	}

	results := svc.RenderBatch(ctx, reqs)

	require.Len(t, results, 3)
	assert.Equal(t, "board_pack", results[0].RecipeID)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, domain.ErrRecipeNotFound)
	assert.Nil(t, results[1].Report)
	assert.NoError(t, results[2].Err)

	runID := results[0].Report.RunID
	assert.NotEmpty(t, runID)
	assert.Equal(t, runID, results[2].Report.RunID)
	assert.Equal(t, 4, artifacts.Count())

	recorded, err := history.List(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, recorded, 2)

	err = BatchError(results)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.Contains(t, err.Error(), "missing:")
	assert.NoError(t, BatchError(results[:1]))
}

func TestRenderService_RenderBatchCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc, artifacts, _ := newRenderFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := svc.RenderBatch(ctx, []driving.RenderRequest{
		{RecipeID: "board_pack", Context: sampleContext()},
		{RecipeID: "scores", Context: sampleContext()},
	})

	for _, r := range results {
		assert.True(t, errors.Is(r.Err, context.Canceled))
	}
	assert.Zero(t, artifacts.Count())
}

func TestRenderService_SetConcurrency(t *testing.T) {
	svc, _, _ := newRenderFixture(t)

	svc.SetConcurrency(0)
	assert.Equal(t, 1, svc.concurrency)
	svc.SetConcurrency(8)
	assert.Equal(t, 8, svc.concurrency)
}

func TestRecipeService(t *testing.T) {
	svc := NewRecipeService(recipeProvider(scenarioRecipe(), tableRecipe()))
	ctx := context.Background()

	ids, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"board_pack", "scores"}, ids)

	r, err := svc.Get(ctx, " scores ")
	require.NoError(t, err)
	assert.Equal(t, "Scores", r.Name)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService(t *testing.T) {
	ctx := context.Background()

	empty := NewHistoryService(nil)
	list, err := empty.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = empty.Latest(ctx, "board_pack")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	store := memory.NewHistoryStore()
	_ = store.Record(ctx, &domain.GeneratedReport{ReportType: "board_pack", RunID: "run-1"})
	svc := NewHistoryService(store)
	latest, err := svc.Latest(ctx, "board_pack")
	require.NoError(t, err)
	assert.Equal(t, "run-1", latest.RunID)
}
