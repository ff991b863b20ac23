package designs

import (
	"context"
	"fmt"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/catalog"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/profile"
)

// X axis motor mount dimensions in mm.
const (
	motorSize           = 42.3
	motorYOffset        = 11.0
	zAxisGuideDistance  = 256.0
	motorXOffset        = zAxisGuideDistance/2 - 60
	xAxisMotorAxle      = 14.0
	idlerGap            = 2.0
	idlerTeeth          = 16
	mountPlateSize      = 50.0
	mountPlateDepth     = motorSize + motorYOffset
	mountPlateThickness = 6.0
	mountPlateFillet    = 2.0
	mountPlateDrop      = 2.2

	idlerMountDiameter      = 4.0
	idlerMountAxleClearance = 0.1
	idlerScrewSize          = "M3"
	idlerScrewHeadClearance = 0.3
	idlerNutHoleDepth       = 4.0
	idlerNutSlack           = 0.4
	idlerPillarFraction     = 0.6

	mountShieldWidth  = 17.0
	mountShieldDepth  = 6.0
	mountShieldFillet = 1.0

	connectorLength = zAxisGuideDistance - 2*motorXOffset - motorSize + 8
	connectorDepth  = 22.0

	flangeThickness   = 5.0
	flangeDepth       = 22.0
	bevelDepth        = flangeDepth * 0.8
	flangeScrewInset  = 10.0
	nutCutterOffsetZ  = 2.0
	profileScrewSize  = "M5"
	counterFlangeFill = 1.0
	counterThickness  = 6.0
)

// MotorWithMount returns the X axis NEMA17 motor composite and its mount
// plate, already drilled by the motor's cutters. The plate sits on the
// motor face, flush with its back.
func (d *Designer) MotorWithMount() (*composite.Part, kernel.Solid, error) {
	motor, err := d.NemaComposite(catalog.NEMA17, NemaCompositeOptions{
		AxleLength:             xAxisMotorAxle,
		AxleClearance:          0.3,
		BossClearance:          0.6,
		BossClearanceZ:         4,
		MountHoleBackExtension: 6,
		BodyClearanceXY:        0.2,
		BodyClearanceZ:         0.2,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("x axis motor: %w", err)
	}

	plate, err := d.box(mountPlateSize, mountPlateDepth, mountPlateThickness)
	if err != nil {
		return nil, nil, err
	}
	plate, err = d.place(plate,
		at(motor, align.Center),
		at(motor, align.StackTop),
		at(motor, align.Back),
	)
	if err != nil {
		return nil, nil, err
	}
	plate = d.k.Translate(plate, kernel.Vec3{Z: -mountPlateDrop})
	return motor, motor.UseAsCutterOn(d.k, plate), nil
}

// MotorStack is one side of the X axis drive: the motor with its printed
// mount and the reference hardware around it.
type MotorStack struct {
	Name string
	// Motor carries the final printable plate as its "mount_plate"
	// follower.
	Motor         *composite.Part
	MountPlate    kernel.Solid
	Connector     kernel.Solid
	Shield        kernel.Solid
	Visual        kernel.Solid
	CounterFlange kernel.Solid
}

// verticalFor maps the stack side to the Z face its pulley and idlers
// line up on.
func verticalFor(side align.Alignment) (align.Alignment, error) {
	switch side {
	case align.Left:
		return align.Bottom, nil
	case align.Right:
		return align.Top, nil
	}
	return 0, fmt.Errorf("motor stack: side must be left or right, got %s", side)
}

// MotorStack builds the motor, pulley, idlers and mount plate for one side
// of the X axis. The left motor stands on the lower profile with its axle
// pointing down; the right one hangs under the upper profile, axle up.
func (d *Designer) MotorStack(ctx context.Context, side align.Alignment, lower, upper kernel.Bounded) (*MotorStack, error) {
	vertical, err := verticalFor(side)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := d.logger.With("side", side)

	motor, plate, err := d.MotorWithMount()
	if err != nil {
		return nil, err
	}
	if err := motor.AddNamedFollower("mount_plate", plate); err != nil {
		return nil, err
	}
	yAxis := kernel.Unit(kernel.AxisY)
	if side == align.Left {
		motor.Rotate(d.k, kernel.Vec3{}, yAxis, 180)
	}

	prof := upper
	stackTo := align.StackBottom
	if side == align.Left {
		prof, stackTo = lower, align.StackTop
	}
	if err := d.placePart(motor,
		at(prof, align.Center),
		at(prof, align.StackBack),
		at(prof, stackTo),
	); err != nil {
		return nil, err
	}
	motor.Translate(d.k, kernel.Vec3{X: side.Sign() * motorXOffset, Y: motorYOffset})

	axle, err := motor.FollowerByName("axle")
	if err != nil {
		return nil, err
	}
	if plate, err = motor.FollowerByName("mount_plate"); err != nil {
		return nil, err
	}

	pulley, err := d.GT2Pulley(DefaultGT2PulleyOptions())
	if err != nil {
		return nil, err
	}
	if side == align.Left {
		pulley = d.k.Rotate(pulley, kernel.Vec3{}, yAxis, 180)
	}
	if pulley, err = d.place(pulley, at(axle, align.Center), at(axle, vertical)); err != nil {
		return nil, err
	}

	idlers, err := d.idlers(motor, pulley, prof, plate, vertical)
	if err != nil {
		return nil, fmt.Errorf("%s idlers: %w", side, err)
	}
	plate = idlers.plate
	log.Debug("idlers placed", "count", len(idlers.axleCutters))

	shield, err := d.mountShield(plate, prof, vertical)
	if err != nil {
		return nil, err
	}

	connector, err := d.box(connectorLength, connectorDepth, mountPlateThickness)
	if err != nil {
		return nil, err
	}
	connector, err = d.place(connector,
		at(plate, align.Center),
		at(plate, align.Front),
		at(plate, side.Opposite().StackAlignment()),
	)
	if err != nil {
		return nil, err
	}
	connector = d.k.Translate(connector, kernel.Vec3{X: side.Sign() * mountPlateFillet})

	flange, nutCutters, err := d.mountFlange(side, vertical, plate, connector, prof, idlers.axleCutters)
	if err != nil {
		return nil, err
	}

	plate, _ = collector.New(d.k).Fuse(plate).Fuse(connector).Merge(idlers.bases).Fuse(flange).Part()
	if err := motor.ReplaceFollower("mount_plate", plate); err != nil {
		return nil, err
	}

	visual := collector.New(d.k).Fuse(motor.Leader()).Fuse(axle).Fuse(pulley).Merge(idlers.idlers)
	visualSolid, _ := visual.Part()

	counter, err := d.counterFlange(side, vertical, flange, prof, nutCutters)
	if err != nil {
		return nil, err
	}

	log.Debug("motor stack built", "plate", plate.BoundingBox())
	return &MotorStack{
		Name:          "motor_" + side.String(),
		Motor:         motor,
		MountPlate:    plate,
		Connector:     connector,
		Shield:        shield,
		Visual:        visualSolid,
		CounterFlange: counter,
	}, nil
}

type idlerSet struct {
	idlers      *collector.Collector
	bases       *collector.Collector
	plate       kernel.Solid
	axleCutters []kernel.Solid
}

// idlers places a belt idler on either side of the motor, level with the
// pulley, and grows a pillar from the plate up to each of them.
func (d *Designer) idlers(motor *composite.Part, pulley kernel.Solid, prof kernel.Bounded, plate kernel.Solid, vertical align.Alignment) (*idlerSet, error) {
	set := &idlerSet{idlers: collector.New(d.k), bases: collector.New(d.k)}
	screw, err := catalog.ScrewBySize(idlerScrewSize)
	if err != nil {
		return nil, err
	}
	opts := DefaultGT2IdlerOptions()
	opts.Teeth = idlerTeeth

	for _, face := range []align.Alignment{align.Left, align.Right} {
		idler, err := d.GT2Idler(opts)
		if err != nil {
			return nil, err
		}
		idler, err = d.place(idler,
			at(pulley, vertical),
			at(motor.Leader(), face),
			at(prof, align.StackBack, align.Gap(idlerGap)),
		)
		if err != nil {
			return nil, err
		}
		set.idlers.Fuse(idler)

		axleCutter, err := d.k.Cylinder(screw.ClearanceHole(catalog.ClearanceNormal)/2+idlerMountAxleClearance, 100)
		if err != nil {
			return nil, err
		}
		if axleCutter, err = align.Align(d.k, axleCutter, idler, align.Center); err != nil {
			return nil, err
		}
		plate = d.k.Difference(plate, axleCutter)
		set.axleCutters = append(set.axleCutters, axleCutter)

		base, err := d.idlerBase(idler, plate, vertical)
		if err != nil {
			return nil, err
		}
		if base != nil {
			set.bases.Fuse(d.k.Difference(base, axleCutter))
		}

		nut, err := d.NutCutter(idlerScrewSize, idlerNutHoleDepth, idlerNutSlack)
		if err != nil {
			return nil, err
		}
		nut = d.k.Rotate(nut, kernel.Vec3{}, kernel.Unit(kernel.AxisZ), 30)
		if nut, err = d.place(nut, at(idler, align.Center), at(plate, vertical.Opposite())); err != nil {
			return nil, err
		}
		plate = d.k.Difference(plate, nut)
	}
	set.plate = plate
	return set, nil
}

// idlerBase returns the standoff between the plate and an idler: a round
// boss under the idler and a pillar running forward to the plate's front
// edge. It returns nil when the idler touches the plate.
func (d *Designer) idlerBase(idler, plate kernel.Solid, vertical align.Alignment) (kernel.Solid, error) {
	ib, pb := idler.BoundingBox(), plate.BoundingBox()
	height := ib.Lo(kernel.AxisZ) - pb.Hi(kernel.AxisZ)
	if vertical.Sign() < 0 {
		height = pb.Lo(kernel.AxisZ) - ib.Hi(kernel.AxisZ)
	}
	if height <= 0 {
		return nil, nil
	}

	base, err := d.k.Cylinder(idlerMountDiameter/2, height)
	if err != nil {
		return nil, err
	}
	if base, err = d.placeOn(base, idler, vertical.Opposite().StackAlignment()); err != nil {
		return nil, err
	}

	bb := base.BoundingBox()
	depth := bb.Lo(kernel.AxisY) + idlerMountDiameter/2 - pb.Lo(kernel.AxisY)
	if depth <= 0 {
		return base, nil
	}
	pillar, err := d.box(bb.Size().X, depth, height*idlerPillarFraction)
	if err != nil {
		return nil, err
	}
	pillar, err = d.place(pillar,
		at(base, align.Center),
		at(base, vertical.Opposite()),
		at(plate, align.Front),
	)
	if err != nil {
		return nil, err
	}
	return d.k.Union(base, pillar), nil
}

// mountShield returns the rounded web that closes the gap between the
// plate and the far face of the profile, drilled for a profile screw.
func (d *Designer) mountShield(plate kernel.Solid, prof kernel.Bounded, vertical align.Alignment) (kernel.Solid, error) {
	pb, rb := plate.BoundingBox(), prof.BoundingBox()
	height := rb.Hi(kernel.AxisZ) - pb.Hi(kernel.AxisZ)
	if vertical.Sign() < 0 {
		height = pb.Lo(kernel.AxisZ) - rb.Lo(kernel.AxisZ)
	}
	if height <= 2*mountShieldFillet {
		return nil, kernel.NewGeometryError("shield", "no room between plate and profile (%v)", height)
	}
	shield, err := d.k.RoundedBox(mountShieldWidth, mountShieldDepth, height, mountShieldFillet)
	if err != nil {
		return nil, err
	}
	shield, err = d.place(shield,
		at(plate, align.Center),
		at(plate, align.Front),
		at(prof, vertical),
	)
	if err != nil {
		return nil, err
	}

	hole, err := d.screwHoleAlongY(profileScrewSize)
	if err != nil {
		return nil, err
	}
	hole, err = d.place(hole,
		at(shield, align.Center),
		at(prof, align.Center, align.Axes(kernel.AxisZ)),
	)
	if err != nil {
		return nil, err
	}
	return d.k.Difference(shield, hole), nil
}

// screwHoleAlongY returns a through hole for size running along Y.
func (d *Designer) screwHoleAlongY(size string) (kernel.Solid, error) {
	screw, err := catalog.ScrewBySize(size)
	if err != nil {
		return nil, err
	}
	hole, err := d.k.Cylinder(screw.ClearanceHole(catalog.ClearanceNormal)/2, BigThing)
	if err != nil {
		return nil, err
	}
	return d.k.Rotate(hole, kernel.Vec3{}, kernel.Unit(kernel.AxisX), -90), nil
}

// mountFlange returns the flange that clamps the profile, with its bevel,
// and the nut pocket cutters shared with the counter flange.
func (d *Designer) mountFlange(side, vertical align.Alignment, plate, connector kernel.Solid, prof kernel.Bounded, axleCutters []kernel.Solid) (kernel.Solid, []*composite.Part, error) {
	flange, err := d.box(connectorLength+mountPlateSize, flangeDepth, flangeThickness)
	if err != nil {
		return nil, nil, err
	}
	flange, err = d.place(flange,
		at(connector, align.Center),
		at(plate, side),
		at(connector, align.Front),
		at(prof, vertical),
	)
	if err != nil {
		return nil, nil, err
	}

	var nuts []*composite.Part
	for _, face := range []align.Alignment{align.Left, align.Right} {
		nut, err := d.NutPocketCutter(NutPocketOptions{Size: "M3", BottomLength: 3, TopLength: 100, Slack: 0.3})
		if err != nil {
			return nil, nil, err
		}
		if vertical == align.Bottom {
			nut.Rotate(d.k, kernel.Vec3{}, kernel.Unit(kernel.AxisY), 180)
		}
		if err := d.placePart(nut, at(flange, align.Center), at(connector, face)); err != nil {
			return nil, nil, err
		}
		nut.Translate(d.k, kernel.Vec3{X: -face.Sign() * flangeScrewInset, Z: -side.Sign() * nutCutterOffsetZ})
		nuts = append(nuts, nut)
		flange = nut.UseAsCutterOn(d.k, flange)
	}

	screw, err := catalog.ScrewBySize(idlerScrewSize)
	if err != nil {
		return nil, nil, err
	}
	for _, axleCutter := range axleCutters {
		flange = d.k.Difference(flange, axleCutter)
		head, err := d.k.Cylinder(screw.CylinderHeadDiameter/2+idlerScrewHeadClearance, screw.CylinderHeadHeight+2*idlerScrewHeadClearance)
		if err != nil {
			return nil, nil, err
		}
		if head, err = d.place(head, at(axleCutter, align.Center), at(flange, vertical)); err != nil {
			return nil, nil, err
		}
		flange = d.k.Difference(flange, head)
	}

	bevel, err := d.bevel(bevelDepth, bevelDepth, connectorLength-2*mountPlateFillet, vertical.Sign())
	if err != nil {
		return nil, nil, err
	}
	bevel, err = d.place(bevel,
		at(connector, align.Center),
		at(flange, align.Back),
		at(flange, vertical.Opposite().StackAlignment()),
	)
	if err != nil {
		return nil, nil, err
	}
	for _, nut := range nuts {
		bevel = nut.UseAsCutterOn(d.k, bevel)
	}
	return d.k.Union(flange, bevel), nuts, nil
}

// bevel returns a gusset running along X. Its right-angle faces point at
// +Y and at +Z, or -Z when up is negative, with leg a on the Y face.
func (d *Designer) bevel(a, b, length, up float64) (kernel.Solid, error) {
	tri, err := profile.RightTriangle(d.k, a, b, length)
	if err != nil {
		return nil, err
	}
	// Quarter turn about Y: the extrusion runs along +X, leg a along -Z
	// and leg b along +Y.
	tri = d.k.Rotate(tri, kernel.Vec3{}, kernel.Unit(kernel.AxisY), 90)
	tri = d.k.Mirror(tri, kernel.Unit(kernel.AxisY), kernel.Vec3{})
	if up < 0 {
		tri = d.k.Mirror(tri, kernel.Unit(kernel.AxisZ), kernel.Vec3{})
	}
	return tri, nil
}

// counterFlange returns the clamp piece that holds the profile against the
// mount flange from the other side.
func (d *Designer) counterFlange(side, vertical align.Alignment, flange kernel.Solid, prof kernel.Bounded, nuts []*composite.Part) (kernel.Solid, error) {
	ext, err := catalog.Profile2020.Dims()
	if err != nil {
		return nil, err
	}
	counter, err := d.k.RoundedBox(connectorLength, ext.GridPitch+flangeDepth, counterThickness, counterFlangeFill)
	if err != nil {
		return nil, err
	}
	counter, err = d.place(counter,
		at(flange, side.Opposite()),
		at(flange, vertical.StackAlignment()),
		at(flange, align.Back),
	)
	if err != nil {
		return nil, err
	}

	screw, err := catalog.ScrewBySize(profileScrewSize)
	if err != nil {
		return nil, err
	}
	for _, nut := range nuts {
		counter = nut.UseAsCutterOn(d.k, counter)
		hole, err := d.k.Cylinder(screw.ClearanceHole(catalog.ClearanceNormal)/2, BigThing)
		if err != nil {
			return nil, err
		}
		hole, err = d.place(hole,
			at(counter, align.Center),
			at(nut, align.Center, align.Axes(kernel.AxisX)),
			at(prof, align.Center, align.Axes(kernel.AxisY)),
		)
		if err != nil {
			return nil, err
		}
		counter = d.k.Difference(counter, hole)
	}
	return counter, nil
}
