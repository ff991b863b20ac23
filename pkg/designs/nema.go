package designs

import (
	"fmt"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/catalog"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
)

// NemaHoleOptions tunes the mounting holes cut for a NEMA motor. Zero
// values take the catalog defaults.
type NemaHoleOptions struct {
	HoleDiameter    float64
	ScrewSize       string
	ClearanceKind   catalog.ClearanceKind
	HoleClearance   float64
	HoleDist        float64
	BodyThickness   float64
	HoleDepth       float64
	ExtraFrontDepth float64
	BackExtension   float64
	AlignToTop      bool
}

// NemaScrewHoles returns the four front-face screw holes of a NEMA motor,
// centred on the Z axis.
func (d *Designer) NemaScrewHoles(size catalog.NemaSize, o NemaHoleOptions) (kernel.Solid, error) {
	dims, err := size.Dims()
	if err != nil {
		return nil, err
	}

	holeDist := o.HoleDist
	if holeDist == 0 {
		if holeDist, err = dims.Get(catalog.NemaHoleDist); err != nil {
			return nil, err
		}
	}

	diameter := o.HoleDiameter
	if diameter == 0 {
		diameter = dims.GetOr(catalog.NemaClearanceDiameter, 0)
	}
	if diameter == 0 {
		screwSize := o.ScrewSize
		if screwSize == "" {
			screwSize = dims.ScrewSize
		}
		screw, err := catalog.ScrewBySize(screwSize)
		if err != nil {
			return nil, err
		}
		diameter = screw.ClearanceHole(o.ClearanceKind)
	}
	diameter += 2 * o.HoleClearance

	thick := o.BodyThickness
	if thick == 0 {
		if thick, err = dims.Get(catalog.NemaThick); err != nil {
			return nil, err
		}
	}
	depth := o.HoleDepth
	if depth == 0 {
		if depth, err = dims.Get(catalog.NemaHoleDepth); err != nil {
			return nil, err
		}
	}

	height := depth + max(o.ExtraFrontDepth, 0) + o.BackExtension
	startZ := thick - depth - o.BackExtension
	if o.AlignToTop {
		startZ = 0
	}

	return d.holeGrid(diameter/2, height, holeDist/2, startZ)
}

// holeGrid fuses four cylinders at (±offset, ±offset, z).
func (d *Designer) holeGrid(radius, height, offset, z float64) (kernel.Solid, error) {
	holes := collector.New(d.k)
	for _, x := range []float64{-offset, offset} {
		for _, y := range []float64{-offset, offset} {
			hole, err := d.k.Cylinder(radius, height)
			if err != nil {
				return nil, err
			}
			holes.Fuse(d.k.Translate(hole, kernel.Vec3{X: x, Y: y, Z: z}))
		}
	}
	s, _ := holes.Part()
	return s, nil
}

// NemaMotor returns the motor body with tapped holes and front pilot as the
// leader solid, plus the bare drilled body box. enlargeH grows the body on
// X and Y, enlargeV on Z, for use as a loose cutter.
func (d *Designer) NemaMotor(size catalog.NemaSize, enlargeH, enlargeV float64) (leader, body kernel.Solid, err error) {
	dims, err := size.Dims()
	if err != nil {
		return nil, nil, err
	}
	vals, err := dims.Require(catalog.NemaFaceSize, catalog.NemaThick, catalog.NemaHoleDist)
	if err != nil {
		return nil, nil, err
	}
	faceSize, thick, holeDist := vals[0], vals[1], vals[2]
	discThick := dims.GetOr(catalog.NemaDiscThick, dims.GetOr(catalog.NemaPilotDepth, 2))

	width := faceSize + 2*enlargeH
	body, err = d.centeredBox(width, width, thick+2*enlargeV)
	if err != nil {
		return nil, nil, err
	}
	body = d.k.Translate(body, kernel.Vec3{Z: -enlargeV})

	coreDiameter := dims.GetOr(catalog.NemaTapDrillDiameter, dims.GetOr(catalog.NemaClearanceDiameter, 3))
	if screw, err := catalog.ScrewBySize(dims.ScrewSize); err == nil {
		coreDiameter = screw.CoreHole
	}
	holeDepth := dims.GetOr(catalog.NemaHoleDepth, thick/2)

	taps, err := d.holeGrid(coreDiameter/2, holeDepth, holeDist/2, 0)
	if err != nil {
		return nil, nil, err
	}
	if taps, err = align.Align(d.k, taps, body, align.Center); err != nil {
		return nil, nil, err
	}
	if taps, err = align.Align(d.k, taps, body, align.StackTop, align.Gap(-holeDepth)); err != nil {
		return nil, nil, err
	}
	body = d.k.Difference(body, taps)

	pilotRadius := dims.GetOr(catalog.NemaPilotDiameter, faceSize/2) / 2
	disc, err := d.k.Cylinder(pilotRadius, discThick)
	if err != nil {
		return nil, nil, err
	}
	if disc, err = d.placeOn(disc, body, align.StackTop); err != nil {
		return nil, nil, err
	}
	return d.k.Union(body, disc), body, nil
}

// placeOn centres s on ref and then applies a second alignment, the most
// common two-step placement in the generators.
func (d *Designer) placeOn(s kernel.Solid, ref kernel.Bounded, second align.Alignment, opts ...align.Option) (kernel.Solid, error) {
	s, err := align.Align(d.k, s, ref, align.Center)
	if err != nil {
		return nil, err
	}
	return align.Align(d.k, s, ref, second, opts...)
}

// NemaCompositeOptions tunes the clearances of a NEMA motor composite.
type NemaCompositeOptions struct {
	MountHoleClearance     float64
	MountHoleBackExtension float64
	AxleClearance          float64
	AxleLength             float64 // zero: catalog value
	BossClearance          float64
	BossClearanceZ         float64
	BodyClearanceXY        float64
	BodyClearanceZ         float64
	ScrewSize              string // empty: catalog value
}

// DefaultNemaCompositeOptions returns the clearances used for a snug
// printed mount.
func DefaultNemaCompositeOptions() NemaCompositeOptions {
	return NemaCompositeOptions{
		MountHoleBackExtension: 6,
		BodyClearanceXY:        0.2,
		BodyClearanceZ:         0.2,
	}
}

// NemaComposite builds a motor as a composite part. The leader is the body
// with its front pilot. Followers are "axle", "coupler" and, when the
// catalog has connector data, "connector". Cutters are "body",
// "front_boss", "axle" and "mount_holes".
func (d *Designer) NemaComposite(size catalog.NemaSize, o NemaCompositeOptions) (*composite.Part, error) {
	dims, err := size.Dims()
	if err != nil {
		return nil, err
	}
	vals, err := dims.Require(
		catalog.NemaFaceSize, catalog.NemaThick, catalog.NemaAxleDiameter, catalog.NemaAxleLength,
		catalog.NemaHoleDist, catalog.NemaHoleDepth, catalog.NemaClearanceDiameter,
	)
	if err != nil {
		return nil, err
	}
	faceSize, thick, axleDiameter, axleLength := vals[0], vals[1], vals[2], vals[3]
	holeDist, coreHeight, clearDiameter := vals[4], vals[5], vals[6]
	if o.AxleLength > 0 {
		axleLength = o.AxleLength
	}
	discThick := dims.GetOr(catalog.NemaDiscThick, dims.GetOr(catalog.NemaPilotDepth, 2))
	pilotRadius := dims.GetOr(catalog.NemaPilotDiameter, faceSize/2) / 2

	body, err := d.centeredBox(faceSize, faceSize, thick)
	if err != nil {
		return nil, err
	}

	bodyCutter, err := d.box(faceSize+2*o.BodyClearanceXY, faceSize+2*o.BodyClearanceXY, thick+2*o.BodyClearanceZ)
	if err != nil {
		return nil, err
	}
	if bodyCutter, err = align.Align(d.k, bodyCutter, body, align.Center); err != nil {
		return nil, err
	}

	disc, err := d.k.Cylinder(pilotRadius, discThick)
	if err != nil {
		return nil, err
	}
	if disc, err = d.placeOn(disc, body, align.StackTop); err != nil {
		return nil, err
	}
	discCutter, err := d.k.Cylinder(pilotRadius+o.BossClearance, discThick+o.BossClearanceZ)
	if err != nil {
		return nil, err
	}
	if discCutter, err = d.placeOn(discCutter, disc, align.Bottom); err != nil {
		return nil, err
	}

	axle, err := d.k.Cylinder(axleDiameter/2, axleLength)
	if err != nil {
		return nil, err
	}
	if axle, err = d.placeOn(axle, disc, align.StackTop); err != nil {
		return nil, err
	}
	axleCutter, err := d.k.Cylinder(axleDiameter/2+o.AxleClearance, axleLength+2*o.AxleClearance)
	if err != nil {
		return nil, err
	}
	if axleCutter, err = align.Align(d.k, axleCutter, axle, align.Center); err != nil {
		return nil, err
	}

	screwSize := o.ScrewSize
	if screwSize == "" {
		screwSize = dims.ScrewSize
	}
	screw, err := catalog.ScrewBySize(screwSize)
	if err != nil {
		return nil, fmt.Errorf("%s mount screws: %w", size, err)
	}
	clearDiameter += 2 * o.MountHoleClearance

	taps, err := d.holeGrid(screw.CoreHole/2, coreHeight, holeDist/2, 0)
	if err != nil {
		return nil, err
	}
	mounts, err := d.holeGrid(clearDiameter/2, thick+o.MountHoleBackExtension, holeDist/2, 0)
	if err != nil {
		return nil, err
	}
	if taps, err = d.placeOn(taps, body, align.StackTop, align.Gap(-coreHeight)); err != nil {
		return nil, err
	}
	body = d.k.Difference(body, taps)
	if mounts, err = d.placeOn(mounts, body, align.StackTop); err != nil {
		return nil, err
	}

	leader := d.k.Union(body, disc)

	coupler, err := d.nemaCoupler(dims, axle)
	if err != nil {
		return nil, err
	}

	opts := []composite.Option{
		composite.WithFollower("axle", axle),
		composite.WithFollower("coupler", coupler),
	}
	if connector, err := d.NemaConnector(size); err == nil {
		opts = append(opts, composite.WithFollower("connector", connector))
	}
	opts = append(opts,
		composite.WithCutter("body", bodyCutter),
		composite.WithCutter("front_boss", discCutter),
		composite.WithCutter("axle", axleCutter),
		composite.WithCutter("mount_holes", mounts),
		composite.WithData(map[string]any{
			"type":                 string(size),
			"nema_size":            string(size),
			"screw_size":           screwSize,
			"mount_hole_clearance": o.MountHoleClearance,
			"axle_clearance":       o.AxleClearance,
			"boss_clearance":       o.BossClearance,
			"body_clearance_xy":    o.BodyClearanceXY,
			"body_clearance_z":     o.BodyClearanceZ,
		}),
	)

	d.logger.Debug("nema composite", "size", size, "axle_length", axleLength)
	return composite.New(leader, opts...)
}

// nemaCoupler returns a shaft coupler sunk half its length over the axle
// tip.
func (d *Designer) nemaCoupler(dims catalog.NemaDims, axle kernel.Solid) (kernel.Solid, error) {
	vals, err := dims.Require(catalog.NemaCouplerDiameter, catalog.NemaCouplerLength)
	if err != nil {
		return nil, err
	}
	coupler, err := d.k.Cylinder(vals[0]/2, vals[1])
	if err != nil {
		return nil, err
	}
	return d.placeOn(coupler, axle, align.StackTop, align.Gap(-vals[1]/2))
}

// NemaConnector returns the cable connector block on the +X side of the
// motor body. Sizes without connector data yield a
// *catalog.MissingDimensionError.
func (d *Designer) NemaConnector(size catalog.NemaSize) (kernel.Solid, error) {
	dims, err := size.Dims()
	if err != nil {
		return nil, err
	}
	vals, err := dims.Require(catalog.NemaFaceSize, catalog.NemaConnectorLength, catalog.NemaConnectorThick)
	if err != nil {
		return nil, err
	}
	faceSize, length, thick := vals[0], vals[1], vals[2]
	c, err := d.box(length, length, thick)
	if err != nil {
		return nil, err
	}
	return d.k.Translate(c, kernel.Vec3{X: faceSize / 2, Y: -length / 2}), nil
}

// NemaMotorVisual fuses the leader with its axle and coupler and places
// all cutters 80 mm to the side, for checking cutter placement by eye.
func (d *Designer) NemaMotorVisual(motor *composite.Part) (kernel.Solid, error) {
	visual, err := motor.LeaderWithFollowers(d.k, "axle", "coupler")
	if err != nil {
		return nil, err
	}
	cutters, ok := collector.Fold(d.k, motor.Cutters()...)
	if !ok {
		return visual, nil
	}
	return d.k.Union(visual, d.k.Translate(cutters, kernel.Vec3{X: 80})), nil
}
