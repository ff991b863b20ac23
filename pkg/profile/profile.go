// Package profile builds symmetric prismatic solids from half
// cross-sections: sketch one half, extrude it, mirror the extrusion across
// the symmetry plane and fuse the two halves.
package profile

import (
	"fmt"

	"github.com/mege/idexforge/pkg/kernel"
)

// Plane is a mirror plane through Point with the given Normal.
type Plane struct {
	Normal kernel.Vec3
	Point  kernel.Vec3
}

// YZ is the plane x = 0.
var YZ = Plane{Normal: kernel.Unit(kernel.AxisX)}

// MirrorExtrude extrudes the half polygon along +Z by length, mirrors the
// result across plane and fuses both halves. The half polygon lies in the
// XY plane and should touch the symmetry plane along one edge so the
// halves join without a seam.
func MirrorExtrude(k kernel.Kernel, half []kernel.Vec2, length float64, plane Plane) (kernel.Solid, error) {
	if plane.Normal.IsZero() {
		return nil, kernel.NewGeometryError("mirror", "plane normal is zero")
	}
	s, err := k.ExtrudePolygon(half, length)
	if err != nil {
		return nil, fmt.Errorf("half profile: %w", err)
	}
	return k.Union(s, k.Mirror(s, plane.Normal, plane.Point)), nil
}

// RightTriangle extrudes the right triangle with legs a along +X and b
// along +Y by thickness. It is the usual bevel or gusset cutter.
func RightTriangle(k kernel.Kernel, a, b, thickness float64) (kernel.Solid, error) {
	return k.ExtrudePolygon([]kernel.Vec2{{X: 0, Y: 0}, {X: a, Y: 0}, {X: 0, Y: b}}, thickness)
}

// SymmetricWedge returns an isosceles triangular prism: base 2*halfWidth
// on y = 0 centred on x = 0, apex at y = height, extruded along +Z by
// length.
func SymmetricWedge(k kernel.Kernel, halfWidth, height, length float64) (kernel.Solid, error) {
	half := []kernel.Vec2{{X: 0, Y: 0}, {X: halfWidth, Y: 0}, {X: 0, Y: height}}
	return MirrorExtrude(k, half, length, YZ)
}
