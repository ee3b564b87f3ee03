// Package file provides a recipe provider backed by a directory of YAML or
// JSON recipe files. Each file <dir>/<id>.yaml|.yml|.json is one recipe.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ensure Provider implements the interface.
var _ driven.RecipeProvider = (*Provider)(nil)

// Extensions are the recipe file extensions, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Provider loads recipes from a directory and caches parsed results until
// the file changes.
type Provider struct {
	dir      string
	fallback driven.RecipeProvider

	mu    sync.RWMutex
	cache map[string]*domain.Recipe
}

// Option configures a Provider.
type Option func(*Provider)

// WithFallback serves ids missing from the directory from another provider.
func WithFallback(p driven.RecipeProvider) Option {
	return func(fp *Provider) {
		fp.fallback = p
	}
}

// New creates a provider reading from dir.
func New(dir string, opts ...Option) *Provider {
	p := &Provider{
		dir:   dir,
		cache: make(map[string]*domain.Recipe),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dir returns the recipe directory.
func (p *Provider) Dir() string {
	return p.dir
}

// Load returns the recipe for id, parsing and validating it on first use.
func (p *Provider) Load(ctx context.Context, id string) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrRecipeNotFound, id)
	}

	p.mu.RLock()
	cached, ok := p.cache[id]
	p.mu.RUnlock()
	if ok {
		r := *cached
		return &r, nil
	}

	path, err := p.find(id)
	if errors.Is(err, fs.ErrNotExist) {
		if p.fallback != nil {
			return p.fallback.Load(ctx, id)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", path, err)
	}
	recipe, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", filepath.Base(path), err)
	}
	recipe.ID = id
	logger.Debug("Loaded recipe %s from %s", id, path)

	p.mu.Lock()
	p.cache[id] = recipe
	p.mu.Unlock()

	r := *recipe
	return &r, nil
}

// List returns the ids in the directory plus any fallback ids, sorted and
// de-duplicated. A missing directory lists only the fallback.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	if p.dir != "" {
		entries, err := os.ReadDir(p.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list recipes: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if id, ok := recipeID(e.Name()); ok {
				seen[id] = true
			}
		}
	}
	if p.fallback != nil {
		ids, err := p.fallback.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Invalidate drops a cached recipe. An empty id drops every cached recipe.
func (p *Provider) Invalidate(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" {
		p.cache = make(map[string]*domain.Recipe)
		return
	}
	delete(p.cache, id)
}

// find returns the first existing file for id.
func (p *Provider) find(id string) (string, error) {
	if p.dir == "" {
		return "", fs.ErrNotExist
	}
	for _, ext := range Extensions {
		path := filepath.Join(p.dir, id+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fs.ErrNotExist
}

// recipeID returns the id for a recipe file name.
func recipeID(name string) (string, bool) {
	ext := filepath.Ext(name)
	for _, known := range Extensions {
		if strings.EqualFold(ext, known) {
			id := strings.TrimSuffix(name, ext)
			return id, validID(id)
		}
	}
	return "", false
}

// validID rejects ids that could escape the directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".." && !strings.HasPrefix(id, ".")
}
