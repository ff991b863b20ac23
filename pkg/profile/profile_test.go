package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/kernel/sdfx"
)

const tol = 1e-9

func TestLipDepthClamp(t *testing.T) {
	tests := []struct {
		name  string
		depth float64
		want  float64
	}{
		// 0.35*1.0 = 0.35 and 1.0-0.8 = 0.2, both below the floor.
		{"floor", 1.0, 0.6},
		// 0.35*2.0 = 0.7 against 1.2: the fraction wins.
		{"fraction", 2.0, 0.7},
		{"mid range", 6.2, 2.17},
		{"deep", 8.0, 2.8},
		// 0.35*1.2 = 0.42, 1.2-0.8 = 0.4: still the floor.
		{"clearance below floor", 1.2, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LipDepth(tt.depth), tol)
		})
	}
}

func TestHalfProfile(t *testing.T) {
	s := TSlot{Opening: 6.2, Inner: 11, Depth: 6.2, Length: 10}
	got := s.HalfProfile()
	require.Len(t, got, 6)

	lip := LipDepth(6.2)
	want := []kernel.Vec2{
		{X: 0, Y: -6.2}, {X: 5.5, Y: -6.2}, {X: 5.5, Y: -lip},
		{X: 3.1, Y: -lip}, {X: 3.1, Y: 0}, {X: 0, Y: 0},
	}
	assert.Equal(t, want, got)

	// Counter-clockwise: positive signed area.
	var area float64
	for i := range got {
		j := (i + 1) % len(got)
		area += got[i].X*got[j].Y - got[j].X*got[i].Y
	}
	assert.Greater(t, area, 0.0)
}

func TestValidate(t *testing.T) {
	ok := TSlot{Opening: 6, Inner: 10, Depth: 6, Length: 20}
	require.NoError(t, ok.Validate())

	bad := []TSlot{
		{Opening: 0, Inner: 10, Depth: 6, Length: 20},
		{Opening: 6, Inner: 5, Depth: 6, Length: 20},
		{Opening: 6, Inner: 10, Depth: 0.5, Length: 20},
		{Opening: 6, Inner: 10, Depth: 6, Length: 0},
	}
	for _, s := range bad {
		var ge *kernel.GeometryError
		assert.True(t, errors.As(s.Validate(), &ge), "%+v", s)
	}
}

func TestTSlotCutterSymmetric(t *testing.T) {
	k := sdfx.New()
	c, err := TSlotCutter(k, TSlot{Opening: 6.2, Inner: 11, Depth: 6.2, Length: 40})
	require.NoError(t, err)

	bb := c.BoundingBox()
	assert.InDelta(t, -bb.Max.X, bb.Min.X, 1e-6)
	assert.InDelta(t, 5.5, bb.Max.X, 1e-6)
	assert.InDelta(t, -6.2, bb.Min.Y, 1e-6)
	assert.InDelta(t, 0, bb.Max.Y, 1e-6)
	assert.InDelta(t, 0, bb.Min.Z, 1e-6)
	assert.InDelta(t, 40, bb.Max.Z, 1e-6)
}

func TestTSlotCutterRejectsShallowSlot(t *testing.T) {
	_, err := TSlotCutter(sdfx.New(), TSlot{Opening: 2, Inner: 3, Depth: 0.4, Length: 5})
	var ge *kernel.GeometryError
	assert.True(t, errors.As(err, &ge))
}

func TestMirrorExtrudeSymmetry(t *testing.T) {
	k := sdfx.New()
	half := []kernel.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 1, Y: 4}, {X: 0, Y: 4}}
	s, err := MirrorExtrude(k, half, 12, YZ)
	require.NoError(t, err)

	bb := s.BoundingBox()
	assert.InDelta(t, -3, bb.Min.X, 1e-6)
	assert.InDelta(t, 3, bb.Max.X, 1e-6)
	assert.InDelta(t, 12, bb.Max.Z, 1e-6)
}

func TestMirrorExtrudeOffsetPlane(t *testing.T) {
	k := sdfx.New()
	half := []kernel.Vec2{{X: 5, Y: 0}, {X: 7, Y: 0}, {X: 5, Y: 2}}
	s, err := MirrorExtrude(k, half, 1, Plane{Normal: kernel.Unit(kernel.AxisX), Point: kernel.Vec3{X: 5}})
	require.NoError(t, err)

	bb := s.BoundingBox()
	assert.InDelta(t, 3, bb.Min.X, 1e-6)
	assert.InDelta(t, 7, bb.Max.X, 1e-6)
}

func TestMirrorExtrudeErrors(t *testing.T) {
	k := sdfx.New()
	_, err := MirrorExtrude(k, []kernel.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, 1, YZ)
	var ge *kernel.GeometryError
	assert.True(t, errors.As(err, &ge))

	_, err = MirrorExtrude(k, []kernel.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 1, Plane{})
	assert.True(t, errors.As(err, &ge))
}

func TestWedgeAndTriangle(t *testing.T) {
	k := sdfx.New()
	w, err := SymmetricWedge(k, 4, 3, 10)
	require.NoError(t, err)
	bb := w.BoundingBox()
	assert.InDelta(t, -4, bb.Min.X, 1e-6)
	assert.InDelta(t, 4, bb.Max.X, 1e-6)
	assert.InDelta(t, 3, bb.Max.Y, 1e-6)

	tri, err := RightTriangle(k, 5, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, kernel.Vec3{X: 5, Y: 2, Z: 1}, tri.BoundingBox().Size())
}
