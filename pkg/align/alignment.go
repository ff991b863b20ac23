// Package align places solids relative to one another by their bounding
// boxes.
//
// An Alignment is either Center, one of six face anchors, or one of six
// stack variants. Face anchors make two boxes flush on one axis; stack
// variants make them adjacent, separated by an optional signed gap.
package align

import (
	"fmt"
	"strings"

	"github.com/mege/idexforge/pkg/kernel"
)

// Alignment selects a placement relationship between two bounding boxes.
type Alignment int

const (
	Center Alignment = iota
	Left
	Right
	Front
	Back
	Top
	Bottom
	StackLeft
	StackRight
	StackFront
	StackBack
	StackTop
	StackBottom
)

type alignmentInfo struct {
	name     string
	axis     kernel.Axis
	sign     float64
	stack    bool
	opposite Alignment
	face     Alignment
}

// alignments is the static lookup table behind every derived relation.
// Front is -Y, Back is +Y.
var alignments = map[Alignment]alignmentInfo{
	Center:      {name: "center", opposite: Center, face: Center},
	Left:        {name: "left", axis: kernel.AxisX, sign: -1, opposite: Right, face: Left},
	Right:       {name: "right", axis: kernel.AxisX, sign: 1, opposite: Left, face: Right},
	Front:       {name: "front", axis: kernel.AxisY, sign: -1, opposite: Back, face: Front},
	Back:        {name: "back", axis: kernel.AxisY, sign: 1, opposite: Front, face: Back},
	Top:         {name: "top", axis: kernel.AxisZ, sign: 1, opposite: Bottom, face: Top},
	Bottom:      {name: "bottom", axis: kernel.AxisZ, sign: -1, opposite: Top, face: Bottom},
	StackLeft:   {name: "stack-left", axis: kernel.AxisX, sign: -1, stack: true, opposite: StackRight, face: Left},
	StackRight:  {name: "stack-right", axis: kernel.AxisX, sign: 1, stack: true, opposite: StackLeft, face: Right},
	StackFront:  {name: "stack-front", axis: kernel.AxisY, sign: -1, stack: true, opposite: StackBack, face: Front},
	StackBack:   {name: "stack-back", axis: kernel.AxisY, sign: 1, stack: true, opposite: StackFront, face: Back},
	StackTop:    {name: "stack-top", axis: kernel.AxisZ, sign: 1, stack: true, opposite: StackBottom, face: Top},
	StackBottom: {name: "stack-bottom", axis: kernel.AxisZ, sign: -1, stack: true, opposite: StackTop, face: Bottom},
}

var stackOf = map[Alignment]Alignment{
	Left:   StackLeft,
	Right:  StackRight,
	Front:  StackFront,
	Back:   StackBack,
	Top:    StackTop,
	Bottom: StackBottom,
}

func (a Alignment) String() string {
	if info, ok := alignments[a]; ok {
		return info.name
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// Valid reports whether a is one of the thirteen defined alignments.
func (a Alignment) Valid() bool {
	_, ok := alignments[a]
	return ok
}

// Opposite returns the alignment on the other side of the same axis.
// Center is its own opposite.
func (a Alignment) Opposite() Alignment {
	return alignments[a].opposite
}

// StackAlignment returns the stack variant of a face alignment. Stack
// alignments and Center map to themselves.
func (a Alignment) StackAlignment() Alignment {
	if s, ok := stackOf[a]; ok {
		return s
	}
	return a
}

// Face returns the face alignment underlying a stack variant. Face
// alignments and Center map to themselves.
func (a Alignment) Face() Alignment {
	if info, ok := alignments[a]; ok {
		return info.face
	}
	return a
}

// IsStack reports whether a is one of the stack variants.
func (a Alignment) IsStack() bool {
	return alignments[a].stack
}

// Axis returns the axis a is bound to. The result is meaningless for
// Center, which applies to a set of axes.
func (a Alignment) Axis() kernel.Axis {
	return alignments[a].axis
}

// Sign returns -1 for the low side of an axis (left, front, bottom), +1 for
// the high side and 0 for Center.
func (a Alignment) Sign() float64 {
	return alignments[a].sign
}

// Parse maps a name such as "stack-top", "STACK_TOP" or "StackTop" to its
// Alignment.
func Parse(name string) (Alignment, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	for a, info := range alignments {
		if strings.ReplaceAll(info.name, "-", "") == norm {
			return a, nil
		}
	}
	return 0, fmt.Errorf("align: unknown alignment %q", name)
}
