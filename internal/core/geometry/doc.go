// Package geometry provides the plane geometry used by drafting operations.
//
// Coordinates are float64 in the drafting's working unit. Angles cross the
// package boundary in degrees, measured counter-clockwise from the positive
// X axis, and are converted to radians internally.
//
// Curve routines follow the kurbo family of algorithms: de Casteljau
// subdivision for cubic Béziers, Gauss-Legendre quadrature for arc length and
// closed-form polynomial roots for line intersections.
package geometry
