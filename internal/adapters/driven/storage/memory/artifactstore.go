package memory

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore keeps rendered documents in memory, keyed by run and name.
type ArtifactStore struct {
	mu    sync.RWMutex
	files map[string][]byte
	docs  map[string]*domain.Document
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		files: make(map[string][]byte),
		docs:  make(map[string]*domain.Document),
	}
}

// Save stores the document markup and metadata record.
func (s *ArtifactStore) Save(ctx context.Context, runID string, doc *domain.Document) (driven.ArtifactLocation, error) {
	if err := ctx.Err(); err != nil {
		return driven.ArtifactLocation{}, err
	}
	if doc == nil {
		return driven.ArtifactLocation{}, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	meta, err := json.MarshalIndent(doc.Metadata, "", "  ")
	if err != nil {
		return driven.ArtifactLocation{}, fmt.Errorf("encode metadata: %w", err)
	}

	loc := driven.ArtifactLocation{
		DocumentPath: path.Join(runID, doc.DocumentName),
		MetadataPath: path.Join(runID, doc.MetadataName),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[loc.DocumentPath] = []byte(doc.HTML)
	s.files[loc.MetadataPath] = meta
	s.docs[loc.DocumentPath] = doc
	return loc, nil
}

// Read returns a stored artifact.
func (s *ArtifactStore) Read(_ context.Context, runID, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path.Join(runID, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Document returns the saved document for a run and target name.
func (s *ArtifactStore) Document(runID, name string) (*domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path.Join(runID, name)]
	return doc, ok
}

// Count returns the number of stored artifacts.
func (s *ArtifactStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
