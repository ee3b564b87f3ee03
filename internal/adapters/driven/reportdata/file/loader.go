// Package file loads report contexts produced by the upstream scoring
// pipeline. Files may be JSON or YAML; "-" reads JSON from stdin.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ensure Loader implements the interface.
var _ driven.ReportContextLoader = (*Loader)(nil)

// StdinPath selects standard input.
const StdinPath = "-"

// Loader reads report contexts from disk.
type Loader struct {
	stdin io.Reader
}

// NewLoader creates a loader reading "-" from os.Stdin.
func NewLoader() *Loader {
	return &Loader{stdin: os.Stdin}
}

// Load reads and validates the context at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.ReportContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	if path == StdinPath {
		data, err = io.ReadAll(l.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read report context: %w", err)
	}

	rc, err := Decode(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// Decode parses and validates a report context.
func Decode(data []byte, asYAML bool) (*domain.ReportContext, error) {
	var rc domain.ReportContext
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &rc)
	} else {
		err = json.Unmarshal(data, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReportContext, err)
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
