package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRecipeID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid recipe URI", uri: "recipe://board_pack", expected: "board_pack"},
		{name: "index is not a recipe", uri: "recipe://index", expected: ""},
		{name: "nested path", uri: "recipe://a/b", expected: ""},
		{name: "invalid prefix", uri: "file://board_pack", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRecipeID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func newTestServer(t *testing.T, recipes *mockRecipeService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Render: &mockRenderService{}, Recipes: recipes})
	require.NoError(t, err)
	return server
}

func TestServer_handleRecipeIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists recipe ids", func(t *testing.T) {
		server := newTestServer(t, sampleRecipes())

		result, err := server.handleRecipeIndexResource(ctx, makeReadResourceRequest("recipe://index"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.JSONEq(t, `["board_pack", "broken"]`, result.Contents[0].Text)
	})

	t.Run("empty provider returns empty array", func(t *testing.T) {
		server := newTestServer(t, &mockRecipeService{})

		result, err := server.handleRecipeIndexResource(ctx, makeReadResourceRequest("recipe://index"))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, result.Contents[0].Text)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &mockRecipeService{err: errors.New("io error")})

		_, err := server.handleRecipeIndexResource(ctx, makeReadResourceRequest("recipe://index"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing recipes")
	})
}

func TestServer_handleRecipeResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns recipe yaml", func(t *testing.T) {
		server := newTestServer(t, sampleRecipes())

		result, err := server.handleRecipeResource(ctx, makeReadResourceRequest("recipe://board_pack"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/yaml", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "name: Board Pack")
		assert.Contains(t, result.Contents[0].Text, "visual_type: narrative")
	})

	t.Run("unknown recipe is not found", func(t *testing.T) {
		server := newTestServer(t, sampleRecipes())

		_, err := server.handleRecipeResource(ctx, makeReadResourceRequest("recipe://missing"))
		require.Error(t, err)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server := newTestServer(t, sampleRecipes())

		_, err := server.handleRecipeResource(ctx, makeReadResourceRequest("recipe://index"))
		require.Error(t, err)
	})

	t.Run("broken recipe surfaces load error", func(t *testing.T) {
		server := newTestServer(t, sampleRecipes())

		_, err := server.handleRecipeResource(ctx, makeReadResourceRequest("recipe://broken"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading recipe")
	})
}
