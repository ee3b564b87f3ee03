// Package mcp provides an MCP (Model Context Protocol) server adapter for healthdoc.
// It lets AI assistants list recipes and render health reports from a scored context.
package mcp

import "errors"

var (
	// ErrMissingRenderService is returned when the render service is not provided.
	ErrMissingRenderService = errors.New("mcp: render service is required")

	// ErrMissingRecipeService is returned when the recipe service is not provided.
	ErrMissingRecipeService = errors.New("mcp: recipe service is required")
)
