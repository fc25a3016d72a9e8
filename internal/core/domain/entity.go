package domain

import (
	"fmt"
	"regexp"

	"github.com/seamwork/drafter/internal/core/geometry"
)

// ID identifies an operation or entity within a drafting.
// Ids are assigned monotonically and never reused; 0 means "no id".
type ID uint32

// String returns the decimal representation.
func (id ID) String() string {
	return fmt.Sprintf("%d", id)
}

// EntityType tags the kind of geometric object an entity holds.
type EntityType string

// Entity types.
const (
	EntityPoint      EntityType = "point"
	EntityLine       EntityType = "line"
	EntityArc        EntityType = "arc"
	EntitySpline     EntityType = "spline"
	EntitySplinePath EntityType = "splinepath"
	EntityDetail     EntityType = "detail"
)

// IsCurve reports whether entities of this type can be cut or intersected.
func (t EntityType) IsCurve() bool {
	return t == EntityArc || t == EntitySpline || t == EntitySplinePath
}

// Entity is a geometric object produced by an operation.
type Entity struct {
	// ID is immutable once assigned.
	ID ID

	// Label is the human-visible name. Point labels are user-chosen and
	// unique among points; curve labels are derived from their endpoints.
	Label string

	// Type tags the Geometry variant.
	Type EntityType

	// Geometry holds the type-specific data.
	Geometry Geometry

	// Source is the operation that produced this entity.
	Source ID
}

// Point returns the entity's position when it is a point.
func (e *Entity) Point() (geometry.Point, bool) {
	g, ok := e.Geometry.(PointGeom)
	return g.Point, ok
}

// Geometry is the closed set of entity payloads.
type Geometry interface {
	isGeometry()
}

// PointGeom is a point position.
type PointGeom struct {
	geometry.Point
}

func (PointGeom) isGeometry() {}

// LineGeom is a drawn segment between two points.
type LineGeom struct {
	First, Second ID
	Segment       geometry.Segment
}

func (LineGeom) isGeometry() {}

// ArcGeom is a circular arc around a center point.
type ArcGeom struct {
	Center ID
	Arc    geometry.Arc
}

func (ArcGeom) isGeometry() {}

// SplineGeom is a single cubic curve between two points.
type SplineGeom struct {
	First, Last ID
	Curve       geometry.Cubic
}

func (SplineGeom) isGeometry() {}

// SplinePathGeom is a chain of cubic curves through a list of points.
type SplinePathGeom struct {
	Points []ID
	Path   geometry.Path
}

func (SplinePathGeom) isGeometry() {}

// DetailGeom is a closed outline aggregating points and curves.
type DetailGeom struct {
	// Nodes are the aggregated entities in traversal order.
	Nodes []DetailNode

	// Points are the point ids met along the boundary, in order.
	Points []ID

	// Outline is the flattened closed boundary.
	Outline geometry.Outline
}

func (DetailGeom) isGeometry() {}

// labelPattern admits letters followed by letters or digits. Underscores are
// excluded so derived variable names split unambiguously.
var labelPattern = regexp.MustCompile(`^\p{L}[\p{L}\p{N}]*$`)

// ValidateLabel checks a user-chosen point or detail label.
func ValidateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("%w: label %q must start with a letter and contain only letters and digits", ErrInvalidInput, label)
	}
	return nil
}
