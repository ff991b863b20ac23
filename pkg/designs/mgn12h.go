package designs

import (
	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/kernel"
)

// MGN12H rail and carriage dimensions in mm.
const (
	mgn12RailWidth       = 12.0
	mgn12RailHeight      = 8.5
	mgn12RailHolePitch   = 40.0
	mgn12RailTopHole     = 8.0
	mgn12RailTopDepth    = 4.5
	mgn12RailBottomHole  = 4.5
	mgn12CarriageLength  = 45.4
	mgn12CarriageWidth   = 27.0
	mgn12CarriageHeight  = 10.0
	mgn12CarriagePitch   = 20.0
	mgn12CarriageHole    = 3.0
	mgn12CarriageDepth   = 3.5
	mgn12CarriageH1      = 3.4
	mgn12CarriageHoleRim = 4.0
)

// MGN12HCarriage returns an MGN12H carriage block with its four tapped
// holes, lifted by the rail clearance h1 so it sits on a rail at z = 0.
func (d *Designer) MGN12HCarriage() (kernel.Solid, error) {
	carriage, err := d.box(mgn12CarriageLength, mgn12CarriageWidth, mgn12CarriageHeight)
	if err != nil {
		return nil, err
	}

	holes := collector.New(d.k)
	for _, x := range []float64{-mgn12CarriagePitch / 2, mgn12CarriagePitch / 2} {
		for _, y := range []float64{-mgn12CarriageWidth/2 + mgn12CarriageHoleRim, mgn12CarriageWidth/2 - mgn12CarriageHoleRim} {
			hole, err := d.k.Cylinder(mgn12CarriageHole/2, mgn12CarriageHeight)
			if err != nil {
				return nil, err
			}
			holes.Fuse(d.k.Translate(hole, kernel.Vec3{X: x, Y: y}))
		}
	}
	cutter, _ := holes.Part()
	if cutter, err = d.placeOn(cutter, carriage, align.StackTop, align.Gap(-mgn12CarriageDepth)); err != nil {
		return nil, err
	}
	carriage = d.k.Difference(carriage, cutter)
	return d.k.Translate(carriage, kernel.Vec3{Z: mgn12CarriageH1}), nil
}

// MGN12HRail returns a rail of the given length along X with a
// counterbored mounting hole every 40 mm.
func (d *Designer) MGN12HRail(length float64) (kernel.Solid, error) {
	rail, err := d.box(length, mgn12RailWidth, mgn12RailHeight)
	if err != nil {
		return nil, err
	}
	n := int(length / mgn12RailHolePitch)
	if n == 0 {
		return rail, nil
	}

	holes := collector.New(d.k)
	for i := range n {
		at := kernel.Vec3{X: float64(i) * mgn12RailHolePitch}
		for _, h := range []struct {
			diameter, depth float64
			face            align.Alignment
		}{
			{mgn12RailTopHole, mgn12RailTopDepth, align.Top},
			{mgn12RailBottomHole, mgn12RailHeight, align.Bottom},
		} {
			hole, err := d.k.Cylinder(h.diameter/2, h.depth)
			if err != nil {
				return nil, err
			}
			hole, err = align.Align(d.k, d.k.Translate(hole, at), rail, h.face)
			if err != nil {
				return nil, err
			}
			holes.Fuse(hole)
		}
	}
	cutter, _ := holes.Part()
	cutter, err = align.Align(d.k, cutter, rail, align.Center, align.Axes(kernel.AxisX, kernel.AxisY))
	if err != nil {
		return nil, err
	}
	return d.k.Difference(rail, cutter), nil
}
