package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or format type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Recipe Errors.

	// ErrRecipeNotFound indicates the recipe provider has no recipe for the id.
	// This is fatal for a render and is surfaced to the caller.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidRecipe indicates a recipe failed schema or structural validation.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrInvalidReportContext indicates the report context is missing required data.
	ErrInvalidReportContext = errors.New("invalid report context")

	// Collaborator Errors.

	// ErrNarrativeUnavailable indicates the narrative service is not configured.
	// Sections fall back to deterministic narrative text.
	ErrNarrativeUnavailable = errors.New("narrative service unavailable")

	// ErrStorageUnavailable indicates no artifact store is configured.
	ErrStorageUnavailable = errors.New("artifact storage unavailable")
)
