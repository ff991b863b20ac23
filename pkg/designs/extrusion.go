package designs

import (
	"fmt"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/catalog"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/profile"
)

// slotFaces lists the profile faces that carry slots, with the rotation
// about Z that turns a slot cutter opening on +Y toward that face.
var slotFaces = []struct {
	face    align.Alignment
	degrees float64
}{
	{align.Back, 0},
	{align.Left, 90},
	{align.Front, 180},
	{align.Right, -90},
}

// ExtrusionProfile returns a slotted aluminium extrusion of the given
// length along Z, its cross-section centred on the Z axis. Every grid cell
// gets a centre bore and a T-slot on each outer face it touches.
func (d *Designer) ExtrusionProfile(p catalog.ExtrusionProfile, length float64) (kernel.Solid, error) {
	dims, err := p.Dims()
	if err != nil {
		return nil, err
	}
	body, err := d.centeredBox(dims.Width, dims.Height, length)
	if err != nil {
		return nil, err
	}
	bb := body.BoundingBox()
	nx, ny := dims.Cells()

	cutters := collector.New(d.k)
	for i := range nx {
		for j := range ny {
			bore, err := d.k.Cylinder(dims.Bore/2, length)
			if err != nil {
				return nil, err
			}
			cutters.Fuse(d.k.Translate(bore, kernel.Vec3{X: cellCenter(bb.Min.X, dims.GridPitch, i), Y: cellCenter(bb.Min.Y, dims.GridPitch, j)}))
		}
	}

	slot, err := profile.TSlotCutter(d.k, profile.TSlot{
		Opening: dims.SlotOpening,
		Inner:   dims.SlotInner,
		Depth:   dims.SlotDepth,
		Length:  length,
	})
	if err != nil {
		return nil, fmt.Errorf("%s slot: %w", p, err)
	}

	for _, f := range slotFaces {
		faceSlot := d.k.Rotate(slot, kernel.Vec3{}, kernel.Unit(kernel.AxisZ), f.degrees)
		if faceSlot, err = align.Align(d.k, faceSlot, body, f.face); err != nil {
			return nil, err
		}
		tangent, cells := kernel.AxisX, nx
		if f.face.Axis() == kernel.AxisX {
			tangent, cells = kernel.AxisY, ny
		}
		for i := range cells {
			lo := cellCenter(bb.Lo(tangent), dims.GridPitch, i) - dims.GridPitch/2
			cell := bb
			cell.Min = cell.Min.With(tangent, lo)
			cell.Max = cell.Max.With(tangent, lo+dims.GridPitch)
			s, err := align.Align(d.k, faceSlot, cell, align.Center, align.Axes(tangent))
			if err != nil {
				return nil, err
			}
			cutters.Fuse(s)
		}
	}

	d.logger.Debug("extrusion profile", "profile", dims, "length", length, "cutters", cutters.Len())
	all, _ := cutters.Part()
	return d.k.Difference(body, all), nil
}

func cellCenter(lo, pitch float64, i int) float64 {
	return lo + pitch*(float64(i)+0.5)
}
