package designs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/kernel/sdfx"
)

const tol = 1e-6

func newDesigner(t *testing.T) *Designer {
	t.Helper()
	return New(sdfx.New())
}

func assertBox(t *testing.T, got kernel.BoundingBox, wantMin, wantMax kernel.Vec3) {
	t.Helper()
	for _, a := range kernel.AllAxes {
		assert.InDelta(t, wantMin.Get(a), got.Lo(a), tol, "min.%s of %s", a, got)
		assert.InDelta(t, wantMax.Get(a), got.Hi(a), tol, "max.%s of %s", a, got)
	}
}

func TestBuildBranchesKeepsOrder(t *testing.T) {
	delays := []time.Duration{30 * time.Millisecond, 0, 10 * time.Millisecond}
	var branches []func(context.Context) (int, error)
	for i, delay := range delays {
		branches = append(branches, func(ctx context.Context) (int, error) {
			time.Sleep(delay)
			return i, nil
		})
	}
	got, err := BuildBranches(context.Background(), branches...)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestBuildBranchesFirstErrorCancels(t *testing.T) {
	boom := errors.New("boom")
	canceled := make(chan struct{})
	_, err := BuildBranches(context.Background(),
		func(ctx context.Context) (int, error) {
			return 0, boom
		},
		func(ctx context.Context) (int, error) {
			select {
			case <-ctx.Done():
				close(canceled)
				return 0, ctx.Err()
			case <-time.After(5 * time.Second):
				return 1, nil
			}
		},
	)
	require.ErrorIs(t, err, boom)
	select {
	case <-canceled:
	default:
		t.Fatal("sibling branch did not observe cancellation")
	}
}

func TestBuildBranchesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	_, err := BuildBranches(ctx, func(context.Context) (int, error) {
		ran = true
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestBuildBranchesEmpty(t *testing.T) {
	got, err := BuildBranches[int](context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewDefaults(t *testing.T) {
	k := sdfx.New()
	d := New(k, WithLogger(nil))
	assert.Same(t, k, d.Kernel())
	assert.NotNil(t, d.logger)
}

func TestCenteredBox(t *testing.T) {
	d := newDesigner(t)
	b, err := d.centeredBox(10, 4, 3)
	require.NoError(t, err)
	assertBox(t, b.BoundingBox(), kernel.Vec3{X: -5, Y: -2}, kernel.Vec3{X: 5, Y: 2, Z: 3})
}

func TestBevelOrientation(t *testing.T) {
	d := newDesigner(t)

	up, err := d.bevel(3, 4, 10, 1)
	require.NoError(t, err)
	assertBox(t, up.BoundingBox(), kernel.Vec3{Y: -4, Z: -3}, kernel.Vec3{X: 10})

	down, err := d.bevel(3, 4, 10, -1)
	require.NoError(t, err)
	assertBox(t, down.BoundingBox(), kernel.Vec3{Y: -4}, kernel.Vec3{X: 10, Z: 3})
}
