// Package tessellate turns part list entries into triangle meshes using a
// geometry kernel. One mesh is produced per entry.
package tessellate

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/partlist"
)

// Palette assigns distinct display colors to entries without one.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

type options struct {
	production bool
	workers    int
}

// Option configures Tessellate.
type Option func(*options)

// Production orients every entry for printing before meshing: flipped
// entries are turned upside down about their own center and the entry's
// production rotation is applied.
func Production() Option {
	return func(o *options) { o.production = true }
}

// Workers bounds how many entries are meshed at once. Non-positive values
// use GOMAXPROCS.
func Workers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Tessellate meshes entries in order. The returned slice is parallel to
// entries; each mesh carries the entry name and its color, falling back to
// Palette by position.
func Tessellate(entries []partlist.Entry, k kernel.Kernel, opts ...Option) ([]*kernel.Mesh, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	meshes := make([]*kernel.Mesh, len(entries))
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, e := range entries {
		g.Go(func() error {
			if e.Solid == nil {
				return fmt.Errorf("tessellate: part %q has no solid", e.Name)
			}
			s := e.Solid
			if o.production {
				s = Orient(k, e)
			}
			mesh, err := k.ToMesh(s)
			if err != nil {
				return fmt.Errorf("tessellate: ToMesh failed for part %q: %w", e.Name, err)
			}
			mesh.PartName = e.Name
			mesh.Color = e.Color
			if mesh.Color == "" {
				mesh.Color = Palette[i%len(Palette)]
			}
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Orient returns the entry's solid in print orientation. Rotations pivot
// on the center of the solid's bounding box so the part stays in place.
func Orient(k kernel.Kernel, e partlist.Entry) kernel.Solid {
	s := e.Solid
	if e.Flip {
		s = k.Rotate(s, s.BoundingBox().Center(), kernel.Unit(kernel.AxisX), 180)
	}
	if r := e.ProdRotation; r != nil && r.Degrees != 0 && !r.Axis.IsZero() {
		s = k.Rotate(s, s.BoundingBox().Center(), r.Axis, r.Degrees)
	}
	return s
}
