// Package collector accumulates solids into a running union.
package collector

import "github.com/mege/idexforge/pkg/kernel"

// Collector folds solids into a single union. The zero state is empty;
// the first fused solid becomes the part and later ones are unioned onto
// it, so loops that generate repeated features never special-case their
// first iteration.
type Collector struct {
	k     kernel.Kernel
	part  kernel.Solid
	count int
}

// New returns an empty collector that fuses with k.
func New(k kernel.Kernel) *Collector {
	return &Collector{k: k}
}

// Fuse adds s to the running union. A nil solid is ignored. Fuse returns
// the collector so calls can be chained.
func (c *Collector) Fuse(s kernel.Solid) *Collector {
	if s == nil {
		return c
	}
	if c.part == nil {
		c.part = s
	} else {
		c.part = c.k.Union(c.part, s)
	}
	c.count++
	return c
}

// Merge fuses the accumulated part of other into c. An empty other leaves
// c unchanged.
func (c *Collector) Merge(other *Collector) *Collector {
	if other == nil || other.part == nil {
		return c
	}
	if c.part == nil {
		c.part = other.part
	} else {
		c.part = c.k.Union(c.part, other.part)
	}
	c.count += other.count
	return c
}

// Part returns the accumulated union and true, or nil and false when
// nothing has been fused.
func (c *Collector) Part() (kernel.Solid, bool) {
	return c.part, c.part != nil
}

// IsEmpty reports whether nothing has been fused yet.
func (c *Collector) IsEmpty() bool {
	return c.part == nil
}

// Len returns the number of solids fused so far.
func (c *Collector) Len() int {
	return c.count
}

// BoundingBox returns the bounding box of the accumulated part. The second
// result is false when the collector is empty.
func (c *Collector) BoundingBox() (kernel.BoundingBox, bool) {
	if c.part == nil {
		return kernel.BoundingBox{}, false
	}
	return c.part.BoundingBox(), true
}

// Fold fuses solids in order and returns the union, or nil and false when
// no non-nil solid was given.
func Fold(k kernel.Kernel, solids ...kernel.Solid) (kernel.Solid, bool) {
	c := New(k)
	for _, s := range solids {
		c.Fuse(s)
	}
	return c.Part()
}
