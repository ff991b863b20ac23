// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/mege/idexforge/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() kernel.BoundingBox {
	bb := s.s.BoundingBox()
	return kernel.BoundingBox{Min: fromV3(bb.Min), Max: fromV3(bb.Max)}
}

// SdfxKernel implements kernel.Kernel using sdfx. It holds no mutable
// state and is safe for concurrent use.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel with the default mesh resolution.
func New() *SdfxKernel {
	return NewWithCells(DefaultMeshCells)
}

// NewWithCells returns a kernel whose ToMesh uses the given number of
// marching cubes cells along the longest axis. Non-positive values fall
// back to DefaultMeshCells.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{meshCells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func toV3(v kernel.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromV3(v v3.Vec) kernel.Vec3 {
	return kernel.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func positive(op string, dims map[string]float64) error {
	for name, d := range dims {
		if !(d > 0) || math.IsInf(d, 0) {
			return kernel.NewGeometryError(op, "%s = %v, must be positive", name, d)
		}
	}
	return nil
}

// Box creates a box with the given dimensions. The resulting solid has its
// minimum corner at the origin (0,0,0), matching how part scripts describe
// boxes. sdf.Box3D centers the box at the origin, so we translate by
// half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	return k.RoundedBox(x, y, z, 0)
}

// RoundedBox creates a box with every edge rounded by radius. The radius
// may not exceed half of the smallest dimension.
func (k *SdfxKernel) RoundedBox(x, y, z, radius float64) (kernel.Solid, error) {
	if err := positive("box", map[string]float64{"x": x, "y": y, "z": z}); err != nil {
		return nil, err
	}
	if radius < 0 || radius > min(x, y, z)/2 {
		return nil, kernel.NewGeometryError("box", "rounding radius %v out of range for %vx%vx%v", radius, x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, radius)
	if err != nil {
		return nil, &kernel.GeometryError{Op: "box", Err: err}
	}
	// Shift from center-origin to min-corner-origin.
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Cylinder creates a cylinder along Z with its base on z=0, centered on the
// Z axis.
func (k *SdfxKernel) Cylinder(radius, height float64) (kernel.Solid, error) {
	if err := positive("cylinder", map[string]float64{"radius": radius, "height": height}); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, &kernel.GeometryError{Op: "cylinder", Err: err}
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// ExtrudePolygon extrudes a closed XY polygon from z=0 to z=height.
func (k *SdfxKernel) ExtrudePolygon(points []kernel.Vec2, height float64) (kernel.Solid, error) {
	if len(points) < 3 {
		return nil, kernel.NewGeometryError("extrude", "polygon needs at least 3 vertices, got %d", len(points))
	}
	if err := positive("extrude", map[string]float64{"height": height}); err != nil {
		return nil, err
	}
	vs := make([]v2.Vec, len(points))
	for i, p := range points {
		vs[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s2, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, &kernel.GeometryError{Op: "extrude", Err: err}
	}
	// Extrude3D is centered on z=0.
	s3 := sdf.Extrude3D(s2, height)
	return wrap(sdf.Transform3D(s3, sdf.Translate3d(v3.Vec{Z: height / 2}))), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by v.
func (k *SdfxKernel) Translate(s kernel.Solid, v kernel.Vec3) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), sdf.Translate3d(toV3(v))))
}

// Rotate rotates a solid by degrees about the line through pivot along axis.
func (k *SdfxKernel) Rotate(s kernel.Solid, pivot, axis kernel.Vec3, degrees float64) kernel.Solid {
	rad := degrees * math.Pi / 180.0
	m := sdf.Translate3d(toV3(pivot)).
		Mul(sdf.Rotate3d(toV3(axis.Normalize()), rad)).
		Mul(sdf.Translate3d(toV3(pivot.Neg())))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Mirror reflects a solid across the plane through point with the given
// normal.
func (k *SdfxKernel) Mirror(s kernel.Solid, normal, point kernel.Vec3) kernel.Solid {
	m := sdf.Translate3d(toV3(point)).
		Mul(mirrorMatrix(normal.Normalize())).
		Mul(sdf.Translate3d(toV3(point.Neg())))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// mirrorMatrix returns the reflection across the plane through the origin
// with unit normal n. Axis-aligned normals map directly onto sdfx's mirror
// matrices; anything else is rotated onto +X, mirrored across YZ and rotated
// back.
func mirrorMatrix(n kernel.Vec3) sdf.M44 {
	switch n {
	case kernel.Vec3{X: 1}, kernel.Vec3{X: -1}:
		return sdf.MirrorYZ()
	case kernel.Vec3{Y: 1}, kernel.Vec3{Y: -1}:
		return sdf.MirrorXZ()
	case kernel.Vec3{Z: 1}, kernel.Vec3{Z: -1}:
		return sdf.MirrorXY()
	}
	x := kernel.Unit(kernel.AxisX)
	axis := toV3(n.Cross(x).Normalize())
	angle := math.Acos(math.Max(-1, math.Min(1, n.Dot(x))))
	return sdf.Rotate3d(axis, -angle).Mul(sdf.MirrorYZ()).Mul(sdf.Rotate3d(axis, angle))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
