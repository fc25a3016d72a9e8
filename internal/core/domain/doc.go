// Package domain defines the core drafting entities for Drafter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Entity: A stored geometric object (point, line, arc, curve, detail)
//   - Variable: A named numeric value available to formulas
//   - Operation: One ordered construction step with its parameters
//   - Drafting: The ordered operation list plus document metadata
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import the Go
// standard library and the pure geometry package. All other packages
// depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, internal/core/geometry
//   - Cannot Import: Any other internal/ package, any external dependency
package domain
