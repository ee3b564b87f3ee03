// Package domain defines the core business entities for healthdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ReportContext: The already-scored business health snapshot for one run
//   - Recipe: A declarative document definition (sections, bindings, visuals)
//   - Band: The colour/severity classification of a 0-100 score
//   - GeneratedReport: The record produced by one successful render
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
