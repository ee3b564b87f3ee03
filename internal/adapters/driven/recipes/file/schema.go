package file

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

//go:embed schema.json
var schemaJSON []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Schema returns the recipe JSON schema.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

func recipeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = jsonschema.NewCompiler().Compile(schemaJSON)
	})
	return compiled, compileErr
}

// Validate checks a generic recipe tree against the schema.
func Validate(tree any) error {
	schema, err := recipeSchema()
	if err != nil {
		return fmt.Errorf("compile recipe schema: %w", err)
	}
	result := schema.Validate(tree)
	if result.IsValid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for field, e := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Message))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", domain.ErrInvalidRecipe, strings.Join(msgs, "; "))
}

// Decode parses recipe source. YAML is a superset of JSON, so one decoder
// serves both; the tree is round-tripped through JSON so numbers reach the
// validator and the struct decoder in one representation.
func Decode(data []byte) (*domain.Recipe, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty recipe", domain.ErrInvalidRecipe)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}
	var tree any
	if err := json.Unmarshal(encoded, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}
	if err := Validate(tree); err != nil {
		return nil, err
	}

	var recipe domain.Recipe
	if err := json.Unmarshal(encoded, &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return &recipe, nil
}
