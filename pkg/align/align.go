package align

import (
	"fmt"
	"math"

	"github.com/mege/idexforge/pkg/kernel"
)

type options struct {
	axes []kernel.Axis
	gap  float64
}

// Option configures a single alignment.
type Option func(*options)

// Axes restricts the alignment to the given axes. Center moves only along
// these axes; a face or stack alignment whose bound axis is not listed does
// nothing. Without this option all three axes apply.
func Axes(axes ...kernel.Axis) Option {
	return func(o *options) {
		o.axes = append([]kernel.Axis{}, axes...)
	}
}

// Gap sets the signed separation for stack alignments. A negative gap makes
// the boxes overlap by that amount. Face alignments and Center ignore it.
func Gap(g float64) Option {
	return func(o *options) {
		o.gap = g
	}
}

func buildOptions(opts []Option) (options, error) {
	o := options{axes: kernel.AllAxes}
	for _, opt := range opts {
		opt(&o)
	}
	for _, a := range o.axes {
		if !a.Valid() {
			return o, fmt.Errorf("align: invalid axis %d", int(a))
		}
	}
	return o, nil
}

func (o options) has(a kernel.Axis) bool {
	for _, x := range o.axes {
		if x == a {
			return true
		}
	}
	return false
}

// Offset computes the translation that moves a solid with bounding box
// moving into the given relationship with ref. Only the axes the alignment
// touches receive a non-zero component, so successive offsets compose.
func Offset(moving, ref kernel.BoundingBox, alignment Alignment, opts ...Option) (kernel.Vec3, error) {
	if !alignment.Valid() {
		return kernel.Vec3{}, fmt.Errorf("align: unknown alignment %d", int(alignment))
	}
	o, err := buildOptions(opts)
	if err != nil {
		return kernel.Vec3{}, err
	}

	var d kernel.Vec3
	if alignment == Center {
		for _, a := range o.axes {
			d = d.With(a, settle(ref.Mid(a)-moving.Mid(a), ref, moving, a, 0))
		}
		return d, nil
	}

	axis := alignment.Axis()
	if !o.has(axis) {
		return d, nil
	}
	var delta float64
	switch {
	case alignment.Sign() > 0 && alignment.IsStack():
		// near (low) extreme sits gap above the reference's high extreme
		delta = ref.Hi(axis) + o.gap - moving.Lo(axis)
	case alignment.Sign() > 0:
		delta = ref.Hi(axis) - moving.Hi(axis)
	case alignment.IsStack():
		delta = ref.Lo(axis) - o.gap - moving.Hi(axis)
	default:
		delta = ref.Lo(axis) - moving.Lo(axis)
	}
	return d.With(axis, settle(delta, ref, moving, axis, o.gap)), nil
}

// settleULPs is how many units in the last place of the largest coordinate
// involved a delta may be off zero and still count as already aligned.
const settleULPs = 16

// settle returns zero for a delta that only reflects rounding left over
// from an earlier translation along a, so a repeated alignment leaves the
// solid where it is.
func settle(delta float64, ref, moving kernel.BoundingBox, a kernel.Axis, gap float64) float64 {
	scale := 1.0
	for _, v := range []float64{ref.Lo(a), ref.Hi(a), moving.Lo(a), moving.Hi(a)} {
		scale = math.Max(scale, math.Abs(v))
	}
	scale += math.Abs(gap)
	ulp := math.Nextafter(scale, math.Inf(1)) - scale
	if math.Abs(delta) <= settleULPs*ulp {
		return 0
	}
	return delta
}

// Align returns moving translated so that its bounding box satisfies
// alignment relative to ref's bounding box. A nil ref stands for the world
// origin. When no movement is needed the moving solid itself is returned.
func Align(k kernel.Kernel, moving kernel.Solid, ref kernel.Bounded, alignment Alignment, opts ...Option) (kernel.Solid, error) {
	d, err := Offset(moving.BoundingBox(), RefBox(ref), alignment, opts...)
	if err != nil {
		return nil, err
	}
	if d.IsZero() {
		return moving, nil
	}
	return k.Translate(moving, d), nil
}

// RefBox returns the bounding box of ref, or the degenerate box at the
// origin when ref is nil.
func RefBox(ref kernel.Bounded) kernel.BoundingBox {
	if ref == nil {
		return kernel.BoundingBox{}
	}
	return ref.BoundingBox()
}
