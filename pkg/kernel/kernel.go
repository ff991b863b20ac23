// Package kernel defines the abstract solid-modeling kernel interface.
// Implementations (currently sdfx) provide primitive construction, boolean
// operations and rigid transforms behind this interface. Everything above
// this package (alignment, composites, part generators) talks only to
// Kernel and Solid, so backends can be swapped without touching part code.
package kernel

// Bounded is anything with an axis-aligned bounding box. Solids and
// composite parts both satisfy it, so either can serve as an alignment
// reference.
type Bounded interface {
	// BoundingBox returns the current axis-aligned bounding box. It is
	// recomputed from geometry on every call.
	BoundingBox() BoundingBox
}

// Solid is an opaque, immutable handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	Bounded
}

// Kernel is the abstract geometry kernel interface.
//
// Constructors validate their input and return a *GeometryError for
// degenerate shapes. Booleans and transforms never mutate their inputs;
// they return new solids.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error) // min corner at the origin
	RoundedBox(x, y, z, radius float64) (Solid, error)
	Cylinder(radius, height float64) (Solid, error) // axis Z, base at z=0
	ExtrudePolygon(points []Vec2, height float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, v Vec3) Solid
	Rotate(s Solid, pivot, axis Vec3, degrees float64) Solid // right-hand rule
	Mirror(s Solid, normal, point Vec3) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
