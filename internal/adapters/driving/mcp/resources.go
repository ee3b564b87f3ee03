package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for recipe resources.
	uriScheme = "recipe://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing recipe ids.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "recipes",
		Description: "Ids of every available report recipe",
		MIMEType:    "application/json",
	}, s.handleRecipeIndexResource)

	// Template for a single recipe definition.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{id}",
		Name:        "recipe",
		Description: "Definition of a report recipe as YAML",
		MIMEType:    "application/yaml",
	}, s.handleRecipeResource)
}

// handleRecipeIndexResource returns the recipe ids as a JSON array.
func (s *Server) handleRecipeIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ids, err := s.ports.Recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling recipes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRecipeResource returns one recipe rendered as YAML.
func (s *Server) handleRecipeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractRecipeID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	recipe, err := s.ports.Recipes.Get(ctx, id)
	if errors.Is(err, domain.ErrRecipeNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recipe: %w", err)
	}

	data, err := yaml.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("marshalling recipe: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/yaml",
			Text:     string(data),
		}},
	}, nil
}

// extractRecipeID extracts the recipe id from a URI like recipe://{id}.
// The index URI and nested paths are not recipe ids.
func extractRecipeID(uri string) string {
	if !strings.HasPrefix(uri, uriScheme) {
		return ""
	}
	id := strings.TrimPrefix(uri, uriScheme)
	if id == "index" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
