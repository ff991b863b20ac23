package designs

import (
	"math"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/catalog"
	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
)

// NutCutter returns a hexagonal prism for a nut of the given screw size,
// height tall and widened by slack on every flat. It is centred on the Z
// axis with corners on the X axis.
func (d *Designer) NutCutter(size string, height, slack float64) (kernel.Solid, error) {
	screw, err := catalog.ScrewBySize(size)
	if err != nil {
		return nil, err
	}
	flats := screw.NutWidth + 2*slack
	r := flats / math.Sqrt(3) // circumradius
	hex := make([]kernel.Vec2, 6)
	for i := range hex {
		a := float64(i) * math.Pi / 3
		hex[i] = kernel.Vec2{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return d.k.ExtrudePolygon(hex, height)
}

// NutPocketOptions sizes a hidden nut pocket.
type NutPocketOptions struct {
	Size         string
	BottomLength float64 // screw shank below the nut
	TopLength    float64 // screw clearance above the nut
	Slack        float64
}

// NutPocketCutter returns a composite whose cutters, "nut", "screw_bottom"
// and "screw_top", carve a captive nut pocket with the screw passing through
// it along Z. The leader is the nut itself.
func (d *Designer) NutPocketCutter(o NutPocketOptions) (*composite.Part, error) {
	screw, err := catalog.ScrewBySize(o.Size)
	if err != nil {
		return nil, err
	}
	nut, err := d.NutCutter(o.Size, screw.NutThickness+2*o.Slack, o.Slack)
	if err != nil {
		return nil, err
	}
	radius := screw.ClearanceHole(catalog.ClearanceNormal)/2 + o.Slack

	bottom, err := d.k.Cylinder(radius, o.BottomLength)
	if err != nil {
		return nil, err
	}
	if bottom, err = d.placeOn(bottom, nut, align.StackBottom); err != nil {
		return nil, err
	}
	top, err := d.k.Cylinder(radius, o.TopLength)
	if err != nil {
		return nil, err
	}
	if top, err = d.placeOn(top, nut, align.StackTop); err != nil {
		return nil, err
	}

	return composite.New(nut,
		composite.WithCutter("nut", nut),
		composite.WithCutter("screw_bottom", bottom),
		composite.WithCutter("screw_top", top),
		composite.WithData(map[string]any{"screw_size": o.Size}),
	)
}

// CylinderScrew returns a socket head cap screw of the given length, shank
// below z = 0 and head on top.
func (d *Designer) CylinderScrew(size string, length float64) (kernel.Solid, error) {
	screw, err := catalog.ScrewBySize(size)
	if err != nil {
		return nil, err
	}
	shank, err := d.k.Cylinder(screw.ClearanceHole(catalog.ClearanceClose)/2-0.1, length)
	if err != nil {
		return nil, err
	}
	shank = d.k.Translate(shank, kernel.Vec3{Z: -length})
	head, err := d.k.Cylinder(screw.CylinderHeadDiameter/2, screw.CylinderHeadHeight)
	if err != nil {
		return nil, err
	}
	return d.k.Union(shank, head), nil
}
