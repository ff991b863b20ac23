package designs

import (
	"fmt"
	"math"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/kernel"
)

// GT2 belt geometry in mm.
const (
	GT2Pitch          = 2.0
	GT2Thickness      = 1.38
	GT2TeethThickness = 0.75
	GT2Width          = 6.0
	GT2ToothRadius    = 0.555
)

// GT2Tooth returns one pitch of belt: a half-round tooth under a strip of
// backing, mirrored and stacked to its left. The belt runs along X with
// the teeth toward -Y.
func (d *Designer) GT2Tooth() (kernel.Solid, error) {
	disc, err := d.k.Cylinder(GT2ToothRadius, GT2Width)
	if err != nil {
		return nil, err
	}
	keep, err := d.box(GT2ToothRadius, 2*GT2ToothRadius, GT2Width)
	if err != nil {
		return nil, err
	}
	keep = d.k.Translate(keep, kernel.Vec3{X: -GT2ToothRadius, Y: -GT2ToothRadius})
	// Box first so the half disc reports the box's bounds.
	toothHalf := d.k.Intersection(keep, disc)
	toothHalf = d.k.Translate(toothHalf, kernel.Vec3{Y: GT2ToothRadius})

	backing, err := d.box(GT2Pitch/2, GT2Thickness-GT2TeethThickness, GT2Width)
	if err != nil {
		return nil, err
	}
	backing = d.k.Translate(backing, kernel.Vec3{X: -GT2Pitch / 2, Y: GT2TeethThickness})

	half := d.k.Union(backing, toothHalf)
	mirrored := d.k.Mirror(half, kernel.Unit(kernel.AxisX), kernel.Vec3{})
	mirrored, err = align.Align(d.k, mirrored, half, align.StackLeft)
	if err != nil {
		return nil, err
	}
	return d.k.Union(half, mirrored), nil
}

// GT2Belt returns a straight belt of n teeth starting at the origin.
func (d *Designer) GT2Belt(n int) (kernel.Solid, error) {
	if n < 1 {
		return nil, kernel.NewGeometryError("gt2 belt", "tooth count %d must be positive", n)
	}
	tooth, err := d.GT2Tooth()
	if err != nil {
		return nil, err
	}
	belt := collector.New(d.k)
	for i := range n {
		belt.Fuse(d.k.Translate(tooth, kernel.Vec3{X: float64(i) * GT2Pitch}))
	}
	s, _ := belt.Part()
	return s, nil
}

// GT2PulleyOptions sizes a toothed pulley.
type GT2PulleyOptions struct {
	Teeth      int
	BeltWidth  float64
	TopDisk    float64
	BottomDisk float64
}

// DefaultGT2PulleyOptions returns a 20 tooth pulley for a 6 mm belt.
func DefaultGT2PulleyOptions() GT2PulleyOptions {
	return GT2PulleyOptions{Teeth: 20, BeltWidth: GT2Width, TopDisk: 1.5, BottomDisk: 5}
}

// GT2Pulley returns a toothed pulley standing on its bottom disk, centred
// on the Z axis. The belt section starts at z = 0.
func (d *Designer) GT2Pulley(o GT2PulleyOptions) (kernel.Solid, error) {
	if o.Teeth < 3 {
		return nil, kernel.NewGeometryError("gt2 pulley", "tooth count %d below 3", o.Teeth)
	}
	pitchDiameter := float64(o.Teeth) * GT2Pitch / math.Pi
	outer := pitchDiameter - GT2Thickness + GT2TeethThickness

	pulley, err := d.k.Cylinder(outer/2, o.BeltWidth)
	if err != nil {
		return nil, err
	}
	cutter, err := d.k.Cylinder(GT2TeethThickness, o.BeltWidth)
	if err != nil {
		return nil, err
	}
	cutter = d.k.Translate(cutter, kernel.Vec3{X: outer / 2})

	teeth := collector.New(d.k)
	step := 360 / float64(o.Teeth)
	for i := range o.Teeth {
		teeth.Fuse(d.k.Rotate(cutter, kernel.Vec3{}, kernel.Unit(kernel.AxisZ), float64(i)*step))
	}
	cutters, _ := teeth.Part()
	pulley = d.k.Difference(pulley, cutters)

	return d.flange(pulley, pitchDiameter/2, o.TopDisk, o.BottomDisk)
}

// flange stacks a disk of the given radius on top of and below s.
func (d *Designer) flange(s kernel.Solid, radius, top, bottom float64) (kernel.Solid, error) {
	for _, disk := range []struct {
		thick float64
		to    align.Alignment
	}{
		{top, align.StackTop},
		{bottom, align.StackBottom},
	} {
		c, err := d.k.Cylinder(radius, disk.thick)
		if err != nil {
			return nil, fmt.Errorf("flange disk: %w", err)
		}
		if c, err = align.Align(d.k, c, s, disk.to); err != nil {
			return nil, err
		}
		s = d.k.Union(s, c)
	}
	return s, nil
}

// GT2IdlerOptions sizes a smooth idler.
type GT2IdlerOptions struct {
	Teeth         int
	BeltWidth     float64
	ShaftDiameter float64
	EndDisk       float64
}

// DefaultGT2IdlerOptions returns a 20 tooth idler on an M3 shaft.
func DefaultGT2IdlerOptions() GT2IdlerOptions {
	return GT2IdlerOptions{Teeth: 20, BeltWidth: GT2Width, ShaftDiameter: 3, EndDisk: 0.8}
}

// GT2Idler returns a smooth flanged idler with a shaft bore, centred on
// the Z axis with the belt section starting at z = 0.
func (d *Designer) GT2Idler(o GT2IdlerOptions) (kernel.Solid, error) {
	if o.Teeth < 3 {
		return nil, kernel.NewGeometryError("gt2 idler", "tooth count %d below 3", o.Teeth)
	}
	pitchDiameter := float64(o.Teeth) * GT2Pitch / math.Pi
	core, err := d.k.Cylinder((pitchDiameter-GT2Thickness)/2, o.BeltWidth)
	if err != nil {
		return nil, err
	}
	idler, err := d.flange(core, pitchDiameter/2, o.EndDisk, o.EndDisk)
	if err != nil {
		return nil, err
	}
	shaft, err := d.k.Cylinder(o.ShaftDiameter/2, BigThing)
	if err != nil {
		return nil, err
	}
	if shaft, err = align.Align(d.k, shaft, idler, align.Center); err != nil {
		return nil, err
	}
	return d.k.Difference(idler, shaft), nil
}
