package designs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/kernel"
)

func TestZAxis(t *testing.T) {
	d := newDesigner(t)
	z, err := d.ZAxis()
	require.NoError(t, err)
	assertBox(t, z.BoundingBox(), kernel.Vec3{}, kernel.Vec3{X: 40 + 256 + 40, Y: 2, Z: 350})
}

func TestMotorWithMount(t *testing.T) {
	d := newDesigner(t)
	motor, plate, err := d.MotorWithMount()
	require.NoError(t, err)

	mb := motor.BoundingBox()
	pb := plate.BoundingBox()
	assert.InDelta(t, mb.Max.Y, pb.Max.Y, tol, "plate flush with motor back")
	assert.InDelta(t, mb.Max.Z-mountPlateDrop, pb.Min.Z, tol)
	assert.InDelta(t, mb.Mid(kernel.AxisX), pb.Mid(kernel.AxisX), tol)
	assertBox(t, kernel.BoundingBox{Max: pb.Size()}, kernel.Vec3{}, kernel.Vec3{X: 50, Y: 53.3, Z: 6})
}

func TestVerticalFor(t *testing.T) {
	v, err := verticalFor(align.Left)
	require.NoError(t, err)
	assert.Equal(t, align.Bottom, v)
	v, err = verticalFor(align.Right)
	require.NoError(t, err)
	assert.Equal(t, align.Top, v)
	_, err = verticalFor(align.Top)
	assert.Error(t, err)
}

func TestMotorStack(t *testing.T) {
	d := newDesigner(t)
	ctx := context.Background()
	lower, upper, err := d.axisProfiles(ctx)
	require.NoError(t, err)
	assertBox(t, upper.BoundingBox(), kernel.Vec3{Y: -10, Z: 30}, kernel.Vec3{X: 500, Y: 10, Z: 50})

	right, err := d.MotorStack(ctx, align.Right, lower, upper)
	require.NoError(t, err)
	assert.Equal(t, "motor_right", right.Name)
	assert.Equal(t, []string{"axle", "coupler", "connector", "mount_plate"}, right.Motor.FollowerNames())

	synced, err := right.Motor.FollowerByName("mount_plate")
	require.NoError(t, err)
	assert.Same(t, right.MountPlate, synced)

	// right motor hangs under the upper profile, behind it
	mb := right.Motor.BoundingBox()
	assert.InDelta(t, 30, mb.Max.Z, tol)
	assert.InDelta(t, 10+motorYOffset, mb.Min.Y, tol)
	assert.InDelta(t, 250+motorXOffset, mb.Mid(kernel.AxisX), tol)
	assert.InDelta(t, 50, right.Shield.BoundingBox().Max.Z, tol)

	left, err := d.MotorStack(ctx, align.Left, lower, upper)
	require.NoError(t, err)
	assert.Equal(t, "motor_left", left.Name)
	lb := left.Motor.BoundingBox()
	assert.InDelta(t, 10, lb.Min.Z, tol)
	assert.InDelta(t, 250-motorXOffset, lb.Mid(kernel.AxisX), tol)
	assert.InDelta(t, -10, left.Shield.BoundingBox().Min.Z, tol)
}

func TestMotorStackRejectsBadSide(t *testing.T) {
	d := newDesigner(t)
	_, err := d.MotorStack(context.Background(), align.Front, nil, nil)
	assert.Error(t, err)
}

func TestMotorStackCanceled(t *testing.T) {
	d := newDesigner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.MotorStack(ctx, align.Left, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXAxis(t *testing.T) {
	d := newDesigner(t)
	x, err := d.XAxis(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"axis_holding_counter_flange_left",
		"axis_holding_counter_flange_right",
		"mount_plate_left",
		"mount_plate_right",
	}, x.FollowerNames())
	assert.Equal(t, []string{"axis_frame", "motor_left", "motor_right", "link_screw_1", "link_screw_2"}, x.NonProductionNames())
	assert.Equal(t, []string{"link_screw_holes"}, x.CutterNames())

	again, err := d.XAxis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, x.BoundingBox(), again.BoundingBox(), "assembly is deterministic")
}

func TestXAxisCanceled(t *testing.T) {
	d := newDesigner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.XAxis(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXAxisPartList(t *testing.T) {
	d := newDesigner(t)
	parts, err := d.XAxisPartList(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"z_axis",
		"x_axis_axis_frame",
		"x_axis_motor_left",
		"x_axis_motor_right",
		"x_axis_link_screw_1",
		"x_axis_link_screw_2",
		"x_axis_mount_plate_right",
		"x_axis_mount_plate_left",
		"axis_holding_counter_flange_left",
		"axis_holding_counter_flange_right",
	}, parts.Names())

	prod := parts.ForExport(true)
	require.Len(t, prod, 4)
	assert.Equal(t, "x_axis_mount_plate_right", prod[0].Name)
	assert.Equal(t, colorRightPlate, prod[0].Color)
	require.NotNil(t, prod[0].ProdRotation)
	assert.Equal(t, 90.0, prod[0].ProdRotation.Degrees)
	assert.Equal(t, kernel.Unit(kernel.AxisX), prod[0].ProdRotation.Axis)
	assert.Nil(t, prod[2].ProdRotation)

	assert.Len(t, parts.ForExport(false), 10)
}
