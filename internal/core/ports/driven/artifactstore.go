package driven

import (
	"context"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// ArtifactLocation is where a document and its metadata were written.
type ArtifactLocation struct {
	DocumentPath string
	MetadataPath string
}

// ArtifactStore persists assembled documents.
// Implementations must tolerate concurrent saves to distinct identifiers.
type ArtifactStore interface {
	// Save writes the document markup and metadata record for a run.
	Save(ctx context.Context, runID string, doc *domain.Document) (ArtifactLocation, error)

	// Read returns a previously saved artifact by run and target identifier.
	// Returns domain.ErrNotFound if absent.
	Read(ctx context.Context, runID, name string) ([]byte, error)
}

// HistoryStore records every generated report.
type HistoryStore interface {
	// Record appends a generated report to the history.
	Record(ctx context.Context, report *domain.GeneratedReport) error

	// List returns the reports for a run, oldest first.
	// An empty runID lists every run.
	List(ctx context.Context, runID string) ([]domain.GeneratedReport, error)

	// Latest returns the most recent report of a type.
	// Returns domain.ErrNotFound if none exists.
	Latest(ctx context.Context, reportType string) (*domain.GeneratedReport, error)

	// Close releases resources.
	Close() error
}
