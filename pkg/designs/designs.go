// Package designs holds the part generators of the IDEX conversion: motors,
// belts and pulleys, linear rails, extrusion profiles, and the X axis
// assembly built from them.
package designs

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
)

// BigThing is a length that exceeds every assembly; it sizes half-space
// cutters and through-holes.
const BigThing = 500.0

// Designer builds parts with a kernel.
type Designer struct {
	k      kernel.Kernel
	logger *slog.Logger
}

// Option configures a Designer.
type Option func(*Designer)

// WithLogger sets the logger used for build progress. Without it logs are
// discarded.
func WithLogger(l *slog.Logger) Option {
	return func(d *Designer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns a Designer that builds with k.
func New(k kernel.Kernel, opts ...Option) *Designer {
	d := &Designer{
		k:      k,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Kernel returns the kernel d builds with.
func (d *Designer) Kernel() kernel.Kernel {
	return d.k
}

// BuildBranches runs independent build branches concurrently and returns
// their results in branch order. The first failing branch cancels the
// context passed to the others and its error is returned.
func BuildBranches[T any](ctx context.Context, branches ...func(context.Context) (T, error)) ([]T, error) {
	results := make([]T, len(branches))
	g, gctx := errgroup.WithContext(ctx)
	for i, branch := range branches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := branch(gctx)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Designer) box(x, y, z float64) (kernel.Solid, error) {
	return d.k.Box(x, y, z)
}

// centeredBox returns a box centred on the Z axis with its base on z=0.
func (d *Designer) centeredBox(x, y, z float64) (kernel.Solid, error) {
	b, err := d.k.Box(x, y, z)
	if err != nil {
		return nil, err
	}
	return d.k.Translate(b, kernel.Vec3{X: -x / 2, Y: -y / 2}), nil
}

// placement is one alignment step of a placement chain.
type placement struct {
	ref  kernel.Bounded
	to   align.Alignment
	opts []align.Option
}

func at(ref kernel.Bounded, to align.Alignment, opts ...align.Option) placement {
	return placement{ref: ref, to: to, opts: opts}
}

// place applies the alignment steps to s in order.
func (d *Designer) place(s kernel.Solid, steps ...placement) (kernel.Solid, error) {
	var err error
	for _, p := range steps {
		if s, err = align.Align(d.k, s, p.ref, p.to, p.opts...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// placePart applies the alignment steps to a composite in order.
func (d *Designer) placePart(p *composite.Part, steps ...placement) error {
	for _, s := range steps {
		if err := p.Align(d.k, s.ref, s.to, s.opts...); err != nil {
			return err
		}
	}
	return nil
}
