package profile

import (
	"fmt"
	"math"

	"github.com/mege/idexforge/pkg/kernel"
)

const (
	lipFraction  = 0.35
	lipClearance = 0.8
	minLip       = 0.6
)

// LipDepth returns the depth of the retaining lip for a slot of the given
// total depth: 35% of the depth, at most depth-0.8 and never below 0.6.
func LipDepth(depth float64) float64 {
	return math.Max(math.Min(lipFraction*depth, depth-lipClearance), minLip)
}

// TSlot describes a T-slot cavity. The mouth is Opening wide, widening to
// Inner below the lip, Depth deep in total and Length long along Z.
type TSlot struct {
	Opening float64
	Inner   float64
	Depth   float64
	Length  float64
}

// Validate reports dimensions that cannot form a T-slot.
func (s TSlot) Validate() error {
	switch {
	case !(s.Opening > 0):
		return kernel.NewGeometryError("tslot", "opening %v must be positive", s.Opening)
	case !(s.Inner >= s.Opening):
		return kernel.NewGeometryError("tslot", "inner width %v narrower than opening %v", s.Inner, s.Opening)
	case !(s.Length > 0):
		return kernel.NewGeometryError("tslot", "length %v must be positive", s.Length)
	case !(s.Depth > LipDepth(s.Depth)):
		return kernel.NewGeometryError("tslot", "depth %v does not clear lip %v", s.Depth, LipDepth(s.Depth))
	}
	return nil
}

// HalfProfile returns the x >= 0 half of the slot cross-section in
// counter-clockwise order, mouth on y = 0 and cavity toward -Y.
func (s TSlot) HalfProfile() []kernel.Vec2 {
	lip := LipDepth(s.Depth)
	return []kernel.Vec2{
		{X: 0, Y: -s.Depth},
		{X: s.Inner / 2, Y: -s.Depth},
		{X: s.Inner / 2, Y: -lip},
		{X: s.Opening / 2, Y: -lip},
		{X: s.Opening / 2, Y: 0},
		{X: 0, Y: 0},
	}
}

// TSlotCutter builds the slot cavity as a solid, symmetric about x = 0 and
// running from z = 0 to z = Length.
func TSlotCutter(k kernel.Kernel, s TSlot) (kernel.Solid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c, err := MirrorExtrude(k, s.HalfProfile(), s.Length, YZ)
	if err != nil {
		return nil, fmt.Errorf("t-slot %vx%v: %w", s.Opening, s.Depth, err)
	}
	return c, nil
}
