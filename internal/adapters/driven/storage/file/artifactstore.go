// Package file persists rendered documents on the local filesystem.
//
// Artifacts for a run are written under <root>/<runId>/: one HTML document
// and one JSON metadata record per report type. Writes go to a temporary
// file first and are renamed into place, so a reader never sees a partial
// document and concurrent saves of distinct reports never collide.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// DefaultDirName is the output directory used when none is configured.
const DefaultDirName = "reports"

// ArtifactStore writes artifacts beneath a root directory.
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates a store rooted at root.
// If root is empty, defaults to ./reports.
func NewArtifactStore(root string) *ArtifactStore {
	if root == "" {
		root = DefaultDirName
	}
	return &ArtifactStore{root: root}
}

// Root returns the output root directory.
func (s *ArtifactStore) Root() string {
	return s.root
}

// Save writes the document and its metadata record for a run.
func (s *ArtifactStore) Save(ctx context.Context, runID string, doc *domain.Document) (driven.ArtifactLocation, error) {
	if doc == nil {
		return driven.ArtifactLocation{}, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}
	dir, err := s.runDir(runID)
	if err != nil {
		return driven.ArtifactLocation{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return driven.ArtifactLocation{}, fmt.Errorf("creating output directory: %w", err)
	}

	meta, err := json.MarshalIndent(doc.Metadata, "", "  ")
	if err != nil {
		return driven.ArtifactLocation{}, fmt.Errorf("encoding metadata: %w", err)
	}

	loc := driven.ArtifactLocation{
		DocumentPath: filepath.Join(dir, doc.DocumentName),
		MetadataPath: filepath.Join(dir, doc.MetadataName),
	}
	if err := ctx.Err(); err != nil {
		return driven.ArtifactLocation{}, err
	}
	if err := writeFile(loc.DocumentPath, []byte(doc.HTML)); err != nil {
		return driven.ArtifactLocation{}, err
	}
	if err := writeFile(loc.MetadataPath, meta); err != nil {
		return driven.ArtifactLocation{}, err
	}
	return loc, nil
}

// Read returns a saved artifact.
func (s *ArtifactStore) Read(_ context.Context, runID, name string) ([]byte, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	if !safeName(name) {
		return nil, fmt.Errorf("%w: artifact name %q", domain.ErrInvalidInput, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// runDir returns the directory for a run.
func (s *ArtifactStore) runDir(runID string) (string, error) {
	if !safeName(runID) {
		return "", fmt.Errorf("%w: run id %q", domain.ErrInvalidInput, runID)
	}
	return filepath.Join(s.root, runID), nil
}

// writeFile writes data atomically via a sibling temporary file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}

// safeName rejects path components that could escape the root.
func safeName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
