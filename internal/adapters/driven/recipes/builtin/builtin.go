// Package builtin serves the recipes compiled into the binary.
package builtin

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	filerecipes "github.com/custodia-labs/healthdoc/internal/adapters/driven/recipes/file"
	"github.com/custodia-labs/healthdoc/internal/adapters/driven/recipes/memory"
)

//go:embed recipes/*.yaml
var recipeFS embed.FS

// Built-in recipe ids.
const (
	ExecutiveSummary = "executive_summary"
	RiskRegister     = "risk_register"
	Roadmap          = "roadmap"
)

// New returns a provider holding every built-in recipe.
func New() (*memory.Provider, error) {
	p := memory.New()
	entries, err := fs.ReadDir(recipeFS, "recipes")
	if err != nil {
		return nil, fmt.Errorf("read built-in recipes: %w", err)
	}
	for _, e := range entries {
		data, err := recipeFS.ReadFile(path.Join("recipes", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		recipe, err := filerecipes.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("built-in %s: %w", e.Name(), err)
		}
		id := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if err := p.Add(id, recipe); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Source returns the YAML source of a built-in recipe.
func Source(id string) ([]byte, bool) {
	data, err := recipeFS.ReadFile(path.Join("recipes", id+".yaml"))
	if err != nil {
		return nil, false
	}
	return data, true
}
