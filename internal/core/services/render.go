package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
	"github.com/custodia-labs/healthdoc/internal/logger"
)

// Ensure RenderService implements the interface.
var _ driving.RenderService = (*RenderService)(nil)

// DefaultBatchConcurrency bounds parallel renders in a batch.
const DefaultBatchConcurrency = 4

// RenderService renders recipes into persisted documents.
type RenderService struct {
	recipes     driven.RecipeProvider
	composer    *Composer
	assembler   *Assembler
	artifacts   driven.ArtifactStore
	history     driven.HistoryStore
	enricher    *NarrativeEnricher
	concurrency int
	now         func() time.Time
}

// NewRenderService creates a render service.
// history and enricher may be nil.
func NewRenderService(
	recipes driven.RecipeProvider,
	registry driven.RendererRegistry,
	artifacts driven.ArtifactStore,
	history driven.HistoryStore,
	enricher *NarrativeEnricher,
) *RenderService {
	return &RenderService{
		recipes:     recipes,
		composer:    NewComposer(registry),
		assembler:   NewAssembler(),
		artifacts:   artifacts,
		history:     history,
		enricher:    enricher,
		concurrency: DefaultBatchConcurrency,
		now:         time.Now,
	}
}

// SetConcurrency bounds the number of parallel renders in a batch.
func (s *RenderService) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	s.concurrency = n
}

// Render composes, assembles and persists one report.
func (s *RenderService) Render(ctx context.Context, req driving.RenderRequest) (*domain.GeneratedReport, error) {
	if s.artifacts == nil {
		return nil, domain.ErrStorageUnavailable
	}

	doc, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	runID := doc.Metadata.RunID
	loc, err := s.artifacts.Save(ctx, runID, doc)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", doc.DocumentName, err)
	}

	report := &domain.GeneratedReport{
		ReportType:   doc.Metadata.ReportType,
		ReportName:   doc.Metadata.ReportName,
		RunID:        runID,
		DocumentPath: loc.DocumentPath,
		MetadataPath: loc.MetadataPath,
		GeneratedAt:  doc.Metadata.GeneratedAt,
		HealthScore:  doc.Metadata.HealthScore,
		HealthBand:   doc.Metadata.HealthBand,
	}

	if s.history != nil {
		if err := s.history.Record(ctx, report); err != nil {
			logger.Warn("Failed to record history for %s: %v", report.ReportType, err)
		}
	}

	logger.L().Info("rendered report",
		zap.String("recipe", report.ReportType),
		zap.String("run", runID),
		zap.String("path", loc.DocumentPath),
	)
	return report, nil
}

// Preview composes and assembles a report without persisting it.
func (s *RenderService) Preview(ctx context.Context, req driving.RenderRequest) (*domain.Document, error) {
	if err := req.Context.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Section("Render " + req.RecipeID)

	recipe, err := s.recipes.Load(ctx, req.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("load recipe %q: %w", req.RecipeID, err)
	}

	opts := req.Options
	opts.Style = opts.Style.WithDefaults()
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = s.now()
	}

	rc := withRunID(req.Context, uuid.NewString())
	if req.Narrate && s.enricher != nil {
		rc = s.enricher.Enrich(ctx, recipe, rc, opts.Style)
	}

	sections := s.composer.Compose(recipe, rc, opts.Style)
	empty := 0
	for _, sec := range sections {
		if sec.Empty {
			empty++
		}
	}
	logger.Debug("Composed %d sections (%d empty)", len(sections), empty)

	return s.assembler.Assemble(recipe, rc, sections, opts)
}

// RenderBatch renders independent requests in parallel. Requests whose
// context has no run id share one generated id so their artifacts land
// together. One failure never cancels the others.
func (s *RenderService) RenderBatch(ctx context.Context, reqs []driving.RenderRequest) []driving.BatchResult {
	results := make([]driving.BatchResult, len(reqs))
	batchRunID := uuid.NewString()

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, req := range reqs {
		results[i].RecipeID = req.RecipeID
		if req.Context != nil {
			req.Context = withRunID(req.Context, batchRunID)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			report, err := s.Render(ctx, req)
			results[i].Report = report
			results[i].Err = err
			if err != nil {
				logger.Warn("Batch render %s failed: %v", req.RecipeID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// BatchError joins the failures of a batch, or returns nil.
func BatchError(results []driving.BatchResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.RecipeID, r.Err))
		}
	}
	return errors.Join(errs...)
}

// withRunID returns rc with a run id, copying only when one must be set.
func withRunID(rc *domain.ReportContext, runID string) *domain.ReportContext {
	if rc.RunID != "" {
		return rc
	}
	cp := *rc
	cp.RunID = runID
	return &cp
}
