package partlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/kernel/sdfx"
)

func mustBox(t *testing.T, k kernel.Kernel) kernel.Solid {
	t.Helper()
	s, err := k.Box(1, 1, 1)
	require.NoError(t, err)
	return s
}

func TestAddAndFlags(t *testing.T) {
	k := sdfx.New()
	l := New()

	require.NoError(t, l.Add("z_axis", mustBox(t, k), SkipInProduction()))
	require.NoError(t, l.Add("plate", mustBox(t, k),
		Color("#ffcccc"), Flip(), ProdRotation(90, kernel.Unit(kernel.AxisX))))

	e, ok := l.Get("plate")
	require.True(t, ok)
	assert.Equal(t, "#ffcccc", e.Color)
	assert.True(t, e.Flip)
	require.NotNil(t, e.ProdRotation)
	assert.Equal(t, 90.0, e.ProdRotation.Degrees)

	_, ok = l.Get("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"z_axis", "plate"}, l.Names())
	assert.Len(t, l.ForExport(false), 2)

	prod := l.ForExport(true)
	require.Len(t, prod, 1)
	assert.Equal(t, "plate", prod[0].Name)
}

func TestAddDuplicate(t *testing.T) {
	k := sdfx.New()
	l := New()
	require.NoError(t, l.Add("a", mustBox(t, k)))

	err := l.Add("a", mustBox(t, k))
	var dup *composite.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "part", dup.Role)
	assert.Equal(t, 1, l.Len())
}

func TestAddComposite(t *testing.T) {
	k := sdfx.New()
	p, err := composite.New(mustBox(t, k),
		composite.WithFollower("mount_plate_left", mustBox(t, k)),
		composite.WithFollower("", mustBox(t, k)),
		composite.WithCutter("link_screw_holes", mustBox(t, k)),
		composite.WithNonProduction("axis_frame", mustBox(t, k)),
	)
	require.NoError(t, err)

	l := New()
	require.NoError(t, l.AddComposite("x_axis", p, Color("#ccccff")))
	assert.Equal(t, []string{"x_axis", "x_axis_mount_plate_left", "x_axis_1", "x_axis_axis_frame"}, l.Names())

	leader, _ := l.Get("x_axis")
	assert.Equal(t, "#ccccff", leader.Color)
	frame, _ := l.Get("x_axis_axis_frame")
	assert.True(t, frame.SkipInProduction)

	// A second export under the same prefix adds nothing.
	err = l.AddComposite("x_axis", p)
	var dup *composite.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 4, l.Len())
}

func TestAddCompositeUnnamedMembers(t *testing.T) {
	k := sdfx.New()
	bracket := mustBox(t, k)
	p, err := composite.New(mustBox(t, k),
		composite.WithFollower("", bracket),
		composite.WithFollower("belt_clamp", mustBox(t, k)),
		composite.WithNonProduction("", mustBox(t, k)),
		composite.WithCutter("", mustBox(t, k)),
	)
	require.NoError(t, err)
	p.AddFollower(mustBox(t, k))

	l := New()
	require.NoError(t, l.AddComposite("carriage", p))
	assert.Equal(t, []string{
		"carriage", "carriage_0", "carriage_belt_clamp", "carriage_2", "carriage_non_production_0",
	}, l.Names())

	first, ok := l.Get("carriage_0")
	require.True(t, ok)
	assert.Same(t, bracket, first.Solid)
	motor, ok := l.Get("carriage_non_production_0")
	require.True(t, ok)
	assert.True(t, motor.SkipInProduction)
	assert.Len(t, l.ForExport(true), 4)
}

func TestAddCompositeNameClashInsideComposite(t *testing.T) {
	k := sdfx.New()
	// Follower and non-production part share a name: both map to the same
	// export name.
	p, err := composite.New(mustBox(t, k),
		composite.WithFollower("screw", mustBox(t, k)),
		composite.WithNonProduction("screw", mustBox(t, k)),
	)
	require.NoError(t, err)

	l := New()
	err = l.AddComposite("m", p)
	var dup *composite.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "m_screw", dup.Name)
	assert.Equal(t, 0, l.Len())
}
