package kernel

import "fmt"

// BoundingBox is an axis-aligned box given by its minimum and maximum
// corners. It is a plain value; kernels compute a fresh one on every
// BoundingBox call.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%g %g %g]..[%g %g %g]",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// Lo returns the minimum extreme on axis a.
func (b BoundingBox) Lo(a Axis) float64 {
	return b.Min.Get(a)
}

// Hi returns the maximum extreme on axis a.
func (b BoundingBox) Hi(a Axis) float64 {
	return b.Max.Get(a)
}

// Mid returns the midpoint on axis a.
func (b BoundingBox) Mid(a Axis) float64 {
	return (b.Min.Get(a) + b.Max.Get(a)) / 2
}

// Size returns the extent on each axis.
func (b BoundingBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vec3 {
	return Vec3{b.Mid(AxisX), b.Mid(AxisY), b.Mid(AxisZ)}
}

// Translate returns the box shifted by v.
func (b BoundingBox) Translate(v Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Vec3{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y), min(b.Min.Z, o.Min.Z)},
		Max: Vec3{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y), max(b.Max.Z, o.Max.Z)},
	}
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// BoundingBox returns b itself, so a plain box can serve as an alignment
// reference.
func (b BoundingBox) BoundingBox() BoundingBox {
	return b
}
