package designs

import (
	"context"
	"fmt"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/catalog"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/partlist"
)

// X axis frame dimensions in mm.
const (
	axisProfileLength = 500.0
	axisProfilePitch  = 40.0
	railLength        = 450.0
	carriageSpread    = 50.0

	zGuideWidth     = 40.0
	zGuideThickness = 2.0
	zGuideLength    = 350.0

	linkThickness    = 6.0
	linkScrewSize    = "M5"
	linkScrewLength  = 80.0
	zAxisStackOffset = -28.0
	linkWidth        = connectorLength * 0.8
)

// ZAxis returns the two printer Z guides the X axis hangs between, as a
// reference solid.
func (d *Designer) ZAxis() (kernel.Solid, error) {
	left, err := d.box(zGuideWidth, zGuideThickness, zGuideLength)
	if err != nil {
		return nil, err
	}
	right, err := align.Align(d.k, left, left, align.StackRight, align.Gap(zAxisGuideDistance))
	if err != nil {
		return nil, err
	}
	return d.k.Union(left, right), nil
}

// axisProfiles returns the lower 2020 profile lying along X and a copy
// one pitch above it.
func (d *Designer) axisProfiles(ctx context.Context) (lower, upper kernel.Solid, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	lower, err = d.ExtrusionProfile(catalog.Profile2020, axisProfileLength)
	if err != nil {
		return nil, nil, err
	}
	lower = d.k.Rotate(lower, kernel.Vec3{}, kernel.Unit(kernel.AxisY), 90)
	return lower, d.k.Translate(lower, kernel.Vec3{Z: axisProfilePitch}), nil
}

// railWithCarriages returns the linear rail with one carriage on either
// side of its middle.
func (d *Designer) railWithCarriages(ctx context.Context) (kernel.Solid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rail, err := d.MGN12HRail(railLength)
	if err != nil {
		return nil, err
	}
	c := collector.New(d.k).Fuse(rail)
	for _, dir := range []float64{-1, 1} {
		carriage, err := d.MGN12HCarriage()
		if err != nil {
			return nil, err
		}
		carriage, err = align.Align(d.k, carriage, rail, align.Center, align.Axes(kernel.AxisX, kernel.AxisY))
		if err != nil {
			return nil, err
		}
		c.Fuse(d.k.Translate(carriage, kernel.Vec3{X: dir * carriageSpread}))
	}
	s, _ := c.Part()
	return s, nil
}

// XAxis builds the X axis as a composite. The leader is every printable
// mount piece fused together. Followers are "mount_plate_left",
// "mount_plate_right", "axis_holding_counter_flange_left" and
// "axis_holding_counter_flange_right". Non-production parts are
// "axis_frame", "motor_left", "motor_right", "link_screw_1" and
// "link_screw_2". The cutter "link_screw_holes" drills the link.
//
// The frame pieces and the two motor stacks are built concurrently; the
// results are fused in a fixed order afterwards.
func (d *Designer) XAxis(ctx context.Context) (*composite.Part, error) {
	var lower, upper kernel.Solid
	frame, err := BuildBranches(ctx,
		func(ctx context.Context) (kernel.Solid, error) {
			l, u, err := d.axisProfiles(ctx)
			if err != nil {
				return nil, err
			}
			lower, upper = l, u
			return d.k.Union(l, u), nil
		},
		d.railWithCarriages,
	)
	if err != nil {
		return nil, fmt.Errorf("x axis frame: %w", err)
	}
	rail, err := d.place(frame[1],
		at(lower, align.Center, align.Axes(kernel.AxisX, kernel.AxisY)),
		at(lower, align.StackTop),
	)
	if err != nil {
		return nil, err
	}
	axisFrame := d.k.Union(frame[0], rail)
	d.logger.Debug("x axis frame built", "bbox", axisFrame.BoundingBox())

	sides := []align.Alignment{align.Left, align.Right}
	stacks, err := BuildBranches(ctx,
		func(ctx context.Context) (*MotorStack, error) { return d.MotorStack(ctx, sides[0], lower, upper) },
		func(ctx context.Context) (*MotorStack, error) { return d.MotorStack(ctx, sides[1], lower, upper) },
	)
	if err != nil {
		return nil, fmt.Errorf("x axis motors: %w", err)
	}

	plates := collector.New(d.k)
	connectors := collector.New(d.k)
	finalBySide := make(map[align.Alignment]kernel.Solid, len(sides))
	for i, side := range sides {
		st := stacks[i]
		connectors.Fuse(st.Connector)
		plates.Fuse(st.MountPlate)
		finalBySide[side] = d.k.Union(st.MountPlate, st.Shield)
	}

	link, err := d.mountPlateLink(connectors)
	if err != nil {
		return nil, err
	}

	upperHalf, lowerHalf, err := d.halfSpaces(axisFrame)
	if err != nil {
		return nil, err
	}
	finalBySide[align.Left] = d.k.Union(finalBySide[align.Left], d.k.Difference(link, upperHalf))
	finalBySide[align.Right] = d.k.Union(finalBySide[align.Right], d.k.Difference(link, lowerHalf))
	plates.Fuse(link)

	leader, _ := plates.Part()
	opts := []composite.Option{composite.WithNonProduction("axis_frame", axisFrame)}
	for _, st := range stacks {
		opts = append(opts, composite.WithNonProduction(st.Name, st.Visual))
	}
	x, err := composite.New(leader, opts...)
	if err != nil {
		return nil, err
	}

	holes := collector.New(d.k)
	screw, err := catalog.ScrewBySize(linkScrewSize)
	if err != nil {
		return nil, err
	}
	for i, side := range sides {
		s, err := d.CylinderScrew(linkScrewSize, linkScrewLength)
		if err != nil {
			return nil, err
		}
		if s, err = d.place(s, at(link, align.Center), at(finalBySide[align.Right], align.Top)); err != nil {
			return nil, err
		}
		s = d.k.Translate(s, kernel.Vec3{
			X: side.Sign() * linkWidth / 4,
			Z: screw.CylinderHeadHeight + counterThickness,
		})
		if err := x.AddNamedNonProduction(fmt.Sprintf("link_screw_%d", i+1), s); err != nil {
			return nil, err
		}

		hole, err := d.k.Cylinder(screw.ClearanceHole(catalog.ClearanceNormal)/2, BigThing)
		if err != nil {
			return nil, err
		}
		if hole, err = align.Align(d.k, hole, s, align.Center); err != nil {
			return nil, err
		}
		holes.Fuse(hole)
	}
	linkHoles, _ := holes.Part()

	for i, side := range sides {
		name := "axis_holding_counter_flange_" + side.String()
		if err := x.AddNamedFollower(name, d.k.Difference(stacks[i].CounterFlange, linkHoles)); err != nil {
			return nil, err
		}
	}
	for _, side := range sides {
		if err := x.AddNamedFollower("mount_plate_"+side.String(), d.k.Difference(finalBySide[side], linkHoles)); err != nil {
			return nil, err
		}
	}
	if err := x.AddNamedCutter("link_screw_holes", linkHoles); err != nil {
		return nil, err
	}
	return x, nil
}

// mountPlateLink returns the web joining the two connector arms, with a
// gusset under the upper arm and over the lower one.
func (d *Designer) mountPlateLink(connectors *collector.Collector) (kernel.Solid, error) {
	cb, ok := connectors.BoundingBox()
	if !ok {
		return nil, kernel.NewGeometryError("link", "no connector arms")
	}
	height := cb.Size().Z
	link, err := d.box(linkWidth, linkThickness, height)
	if err != nil {
		return nil, err
	}
	if link, err = d.place(link, at(cb, align.Center), at(cb, align.Back)); err != nil {
		return nil, err
	}

	size := (height - 2*mountPlateThickness) / 2
	if size <= 0 {
		return link, nil
	}
	c := collector.New(d.k).Fuse(link)
	for _, m := range []float64{-1, 1} {
		b, err := d.bevel(size, size, linkWidth, m)
		if err != nil {
			return nil, err
		}
		stack := align.StackBottom
		if m > 0 {
			stack = align.StackTop
		}
		b, err = d.place(b,
			at(link, align.Center),
			at(link, align.StackFront),
			at(link, stack, align.Gap(-mountPlateThickness-size)),
		)
		if err != nil {
			return nil, err
		}
		c.Fuse(b)
	}
	s, _ := c.Part()
	return s, nil
}

// halfSpaces returns two large boxes meeting at the horizontal plane
// through the middle of ref.
func (d *Designer) halfSpaces(ref kernel.Bounded) (upper, lower kernel.Solid, err error) {
	mid := ref.BoundingBox().Center()
	plane := kernel.BoundingBox{Min: mid, Max: mid}
	big, err := d.box(BigThing, BigThing, BigThing)
	if err != nil {
		return nil, nil, err
	}
	if upper, err = d.place(big, at(plane, align.Center), at(plane, align.StackTop)); err != nil {
		return nil, nil, err
	}
	if lower, err = d.place(big, at(plane, align.Center), at(plane, align.StackBottom)); err != nil {
		return nil, nil, err
	}
	return upper, lower, nil
}

// Mount plate display colors.
const (
	colorLeftPlate     = "#ccccff"
	colorRightPlate    = "#ffcccc"
	colorCounterFlange = "#ffb3cc"
)

// XAxisPartList places the X axis against the Z guides and lists its
// parts for export: the guides, frame, motors and link screws as context,
// and the two mount plates and counter flanges as printable parts.
func (d *Designer) XAxisPartList(ctx context.Context) (*partlist.List, error) {
	parts := partlist.New()

	z, err := d.ZAxis()
	if err != nil {
		return nil, err
	}
	if err := parts.Add("z_axis", z, partlist.SkipInProduction()); err != nil {
		return nil, err
	}

	x, err := d.XAxis(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.placePart(x, at(z, align.Center), at(z, align.StackBack, align.Gap(zAxisStackOffset))); err != nil {
		return nil, err
	}

	for _, name := range []string{"axis_frame", "motor_left", "motor_right", "link_screw_1", "link_screw_2"} {
		s, err := x.NonProductionByName(name)
		if err != nil {
			return nil, err
		}
		if err := parts.Add("x_axis_"+name, s, partlist.SkipInProduction()); err != nil {
			return nil, err
		}
	}

	layFlat := partlist.ProdRotation(90, kernel.Unit(kernel.AxisX))
	for _, p := range []struct {
		side  align.Alignment
		color string
	}{
		{align.Right, colorRightPlate},
		{align.Left, colorLeftPlate},
	} {
		name := "mount_plate_" + p.side.String()
		s, err := x.FollowerByName(name)
		if err != nil {
			return nil, err
		}
		if err := parts.Add("x_axis_"+name, s, partlist.Color(p.color), layFlat); err != nil {
			return nil, err
		}
	}

	for _, name := range []string{"axis_holding_counter_flange_left", "axis_holding_counter_flange_right"} {
		s, err := x.FollowerByName(name)
		if err != nil {
			return nil, err
		}
		if err := parts.Add(name, s, partlist.Color(colorCounterFlange)); err != nil {
			return nil, err
		}
	}

	d.logger.Info("x axis part list built", "parts", parts.Len())
	return parts, nil
}
