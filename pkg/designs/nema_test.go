package designs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mege/idexforge/pkg/catalog"
	"github.com/mege/idexforge/pkg/kernel"
)

func TestNemaScrewHoles(t *testing.T) {
	d := newDesigner(t)
	tests := []struct {
		name         string
		opts         NemaHoleOptions
		wantZ0, want float64
	}{
		{"front face", NemaHoleOptions{}, 35.5, 40},
		{"align to top", NemaHoleOptions{AlignToTop: true}, 0, 4.5},
		{"back extension", NemaHoleOptions{BackExtension: 6}, 29.5, 40},
		{"extra front depth", NemaHoleOptions{ExtraFrontDepth: 2}, 35.5, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holes, err := d.NemaScrewHoles(catalog.NEMA17, tt.opts)
			require.NoError(t, err)
			// hole_dist 31, clearance diameter 3.2
			assertBox(t, holes.BoundingBox(),
				kernel.Vec3{X: -17.1, Y: -17.1, Z: tt.wantZ0},
				kernel.Vec3{X: 17.1, Y: 17.1, Z: tt.want})
		})
	}
}

func TestNemaScrewHolesClearance(t *testing.T) {
	d := newDesigner(t)
	holes, err := d.NemaScrewHoles(catalog.NEMA17, NemaHoleOptions{HoleDiameter: 4, HoleClearance: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 15.5+2.5, holes.BoundingBox().Max.X, tol)
}

func TestNemaMotorEnlarged(t *testing.T) {
	d := newDesigner(t)
	leader, body, err := d.NemaMotor(catalog.NEMA17, 1, 0.5)
	require.NoError(t, err)

	assertBox(t, body.BoundingBox(),
		kernel.Vec3{X: -22.15, Y: -22.15, Z: -0.5},
		kernel.Vec3{X: 22.15, Y: 22.15, Z: 40.5})
	// pilot disc stacked on the enlarged body
	assertBox(t, leader.BoundingBox(),
		kernel.Vec3{X: -22.15, Y: -22.15, Z: -0.5},
		kernel.Vec3{X: 22.15, Y: 22.15, Z: 42.5})
}

func TestNemaComposite(t *testing.T) {
	d := newDesigner(t)
	motor, err := d.NemaComposite(catalog.NEMA17, DefaultNemaCompositeOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"axle", "coupler", "connector"}, motor.FollowerNames())
	assert.Equal(t, []string{"body", "front_boss", "axle", "mount_holes"}, motor.CutterNames())
	assert.Equal(t, "NEMA17", motor.AdditionalData["nema_size"])
	assert.Equal(t, "M3", motor.AdditionalData["screw_size"])

	assertBox(t, motor.BoundingBox(),
		kernel.Vec3{X: -21.15, Y: -21.15},
		kernel.Vec3{X: 21.15, Y: 21.15, Z: 42})

	axle, err := motor.FollowerByName("axle")
	require.NoError(t, err)
	assertBox(t, axle.BoundingBox(),
		kernel.Vec3{X: -2.5, Y: -2.5, Z: 42},
		kernel.Vec3{X: 2.5, Y: 2.5, Z: 66})

	coupler, err := motor.FollowerByName("coupler")
	require.NoError(t, err)
	assert.InDelta(t, 66-12.5, coupler.BoundingBox().Min.Z, tol)
	assert.InDelta(t, 66+12.5, coupler.BoundingBox().Max.Z, tol)

	body, err := motor.CutterByName("body")
	require.NoError(t, err)
	assertBox(t, body.BoundingBox(),
		kernel.Vec3{X: -21.35, Y: -21.35, Z: -0.2},
		kernel.Vec3{X: 21.35, Y: 21.35, Z: 40.2})
}

func TestNemaCompositeAxleOverride(t *testing.T) {
	d := newDesigner(t)
	o := DefaultNemaCompositeOptions()
	o.AxleLength = 14
	motor, err := d.NemaComposite(catalog.NEMA17, o)
	require.NoError(t, err)
	axle, err := motor.FollowerByName("axle")
	require.NoError(t, err)
	assert.InDelta(t, 14, axle.BoundingBox().Size().Z, tol)
}

func TestNemaCompositeWithoutConnectorData(t *testing.T) {
	d := newDesigner(t)
	motor, err := d.NemaComposite(catalog.NEMA14, DefaultNemaCompositeOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"axle", "coupler"}, motor.FollowerNames())
}

func TestNemaConnector(t *testing.T) {
	d := newDesigner(t)

	c, err := d.NemaConnector(catalog.NEMA17)
	require.NoError(t, err)
	assertBox(t, c.BoundingBox(),
		kernel.Vec3{X: 21.15, Y: -8.075},
		kernel.Vec3{X: 21.15 + 16.15, Y: 8.075, Z: 11.5})

	_, err = d.NemaConnector(catalog.NEMA14)
	var missing *catalog.MissingDimensionError
	require.True(t, errors.As(err, &missing), "error = %v", err)
	assert.Equal(t, "connector_length", missing.Field)
	assert.Equal(t, "NEMA14", missing.Variant)
}

func TestNemaUnknownSize(t *testing.T) {
	d := newDesigner(t)
	_, err := d.NemaComposite(catalog.NemaSize("NEMA8"), DefaultNemaCompositeOptions())
	var unknown *catalog.UnknownVariantError
	assert.True(t, errors.As(err, &unknown), "error = %v", err)
}

func TestNemaMotorVisual(t *testing.T) {
	d := newDesigner(t)
	motor, err := d.NemaComposite(catalog.NEMA17, DefaultNemaCompositeOptions())
	require.NoError(t, err)
	visual, err := d.NemaMotorVisual(motor)
	require.NoError(t, err)
	// cutters are shown 80 mm to the right of the motor
	assert.Greater(t, visual.BoundingBox().Max.X, 80.0)
}
