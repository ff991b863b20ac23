package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/designs"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/partlist"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so it can be passed between builtins.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid %s)", s.s.BoundingBox())
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a kernel.Vec3.
type sexpVec3 struct {
	vec kernel.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A trailing keyword with no value is recorded with SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// float returns keyword name as a number, or def when it is absent.
func (a kwArgs) float(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// flag reports whether keyword name is set to anything but false.
func (a kwArgs) flag(name string) bool {
	v, ok := a.kw[name]
	if !ok {
		return false
	}
	if b, isBool := v.(*zygo.SexpBool); isBool {
		return b.Val
	}
	return true
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toAxis accepts :x, :y, :z or the integers 0, 1, 2.
func toAxis(s zygo.Sexp) (kernel.Axis, error) {
	if i, ok := s.(*zygo.SexpInt); ok {
		a := kernel.Axis(i.Val)
		if !a.Valid() {
			return 0, fmt.Errorf("invalid axis index %d, expected 0, 1 or 2", i.Val)
		}
		return a, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	for _, a := range kernel.AllAxes {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toDirection accepts an axis (see toAxis) or a vec3.
func toDirection(s zygo.Sexp) (kernel.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		if v.vec.IsZero() {
			return kernel.Vec3{}, fmt.Errorf("direction must not be zero")
		}
		return v.vec, nil
	}
	a, err := toAxis(s)
	if err != nil {
		return kernel.Vec3{}, err
	}
	return kernel.Unit(a), nil
}

// toSolid extracts a kernel.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (kernel.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return kernel.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toRef extracts an alignment reference: a solid, a point, or nil for the
// origin.
func toRef(s zygo.Sexp) (kernel.Bounded, error) {
	switch v := s.(type) {
	case *sexpSolid:
		return v.s, nil
	case *sexpVec3:
		return kernel.BoundingBox{Min: v.vec, Max: v.vec}, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected solid, vec3 or nil reference, got %T (%s)", s, s.SexpString(nil))
}

// toSolids extracts every solid in args, skipping nil entries.
func toSolids(args []zygo.Sexp) ([]kernel.Solid, error) {
	var out []kernel.Solid
	for i, a := range args {
		if a == zygo.SexpNull {
			continue
		}
		s, err := toSolid(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func solidResult(s kernel.Solid) zygo.Sexp {
	if s == nil {
		return zygo.SexpNull
	}
	return &sexpSolid{s: s}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the part script builtins into a zygomys
// environment. Solids are built by d's kernel; (part ...) registers them
// in parts.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, d *designs.Designer, parts *partlist.List) {
	k := d.Kernel()

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", kernel.Axis(i), err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: kernel.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (box 10 20 5 :radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires x, y and z sizes")
		}
		var dims [3]float64
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %s: %w", kernel.Axis(i), err)
			}
			dims[i] = f
		}
		r, err := pa.float("radius", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		s, err := k.RoundedBox(dims[0], dims[1], dims[2], r)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder radius height)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires a radius and a height")
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		h, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		s, err := k.Cylinder(r, h)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	// -----------------------------------------------------------------------
	// (translate s (vec3 0 0 5))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and a vec3")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		v, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpSolid{s: k.Translate(s, v)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate s 90 :axis :y :pivot (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid and an angle in degrees")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		deg, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}
		axis := kernel.Unit(kernel.AxisZ)
		if v, ok := pa.kw["axis"]; ok {
			if axis, err = toDirection(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
			}
		}
		var pivot kernel.Vec3
		if v, ok := pa.kw["pivot"]; ok {
			if pivot, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: pivot: %w", err)
			}
		}
		return &sexpSolid{s: k.Rotate(s, pivot, axis, deg)}, nil
	})

	// -----------------------------------------------------------------------
	// (mirror s :x :point (vec3 5 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("mirror", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("mirror requires a solid and a plane normal")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: %w", err)
		}
		normal, err := toDirection(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: normal: %w", err)
		}
		var point kernel.Vec3
		if v, ok := pa.kw["point"]; ok {
			if point, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("mirror: point: %w", err)
			}
		}
		return &sexpSolid{s: k.Mirror(s, normal, point)}, nil
	})

	// -----------------------------------------------------------------------
	// (fuse a b c)
	// -----------------------------------------------------------------------
	env.AddFunction("fuse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		solids, err := toSolids(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fuse: %w", err)
		}
		s, ok := collector.Fold(k, solids...)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("fuse requires at least one solid")
		}
		return &sexpSolid{s: s}, nil
	})

	// -----------------------------------------------------------------------
	// (cut base cutter1 cutter2)
	// -----------------------------------------------------------------------
	env.AddFunction("cut", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("cut requires a base solid")
		}
		base, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: base: %w", err)
		}
		cutters, err := toSolids(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		if c, ok := collector.Fold(k, cutters...); ok {
			base = k.Difference(base, c)
		}
		return &sexpSolid{s: base}, nil
	})

	// -----------------------------------------------------------------------
	// (collect (list a b c)) ; nil when the list holds no solids
	// -----------------------------------------------------------------------
	env.AddFunction("collect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		c := collector.New(k)
		for _, a := range args {
			items, err := sexpListToSlice(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("collect: %w", err)
			}
			solids, err := toSolids(items)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("collect: %w", err)
			}
			for _, s := range solids {
				c.Fuse(s)
			}
		}
		s, _ := c.Part()
		return solidResult(s), nil
	})

	// -----------------------------------------------------------------------
	// (align s ref :to :stack-top :gap 2 :axes (list :x :y))
	// -----------------------------------------------------------------------
	env.AddFunction("align", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("align requires a solid and a reference")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("align: %w", err)
		}
		ref, err := toRef(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("align: %w", err)
		}

		to := align.Center
		if v, ok := pa.kw["to"]; ok {
			n, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("align: to: %w", err)
			}
			if to, err = align.Parse(n); err != nil {
				return zygo.SexpNull, err
			}
		}

		var opts []align.Option
		if _, ok := pa.kw["gap"]; ok {
			g, err := pa.float("gap", 0)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("align: %w", err)
			}
			opts = append(opts, align.Gap(g))
		}
		if v, ok := pa.kw["axes"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("align: axes: %w", err)
			}
			axes := make([]kernel.Axis, 0, len(items))
			for _, item := range items {
				a, err := toAxis(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("align: axes: %w", err)
				}
				axes = append(axes, a)
			}
			opts = append(opts, align.Axes(axes...))
		}

		moved, err := align.Align(k, s, ref, to, opts...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: moved}, nil
	})

	// -----------------------------------------------------------------------
	// (size s :z)
	// -----------------------------------------------------------------------
	env.AddFunction("size", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("size requires a solid and an axis")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("size: %w", err)
		}
		a, err := toAxis(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("size: %w", err)
		}
		return &zygo.SexpFloat{Val: s.BoundingBox().Size().Get(a)}, nil
	})

	// -----------------------------------------------------------------------
	// (part "name" s :color "#ccccff" :skip-in-production true :flip true
	//                :prod-rotate 90 :prod-axis :x)
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a solid")
		}
		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		s, err := toSolid(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}

		var opts []partlist.Option
		if v, ok := pa.kw["color"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: color: %w", partName, err)
			}
			opts = append(opts, partlist.Color(c))
		}
		if pa.flag("skip-in-production") {
			opts = append(opts, partlist.SkipInProduction())
		}
		if pa.flag("flip") {
			opts = append(opts, partlist.Flip())
		}
		if _, ok := pa.kw["prod-rotate"]; ok {
			deg, err := pa.float("prod-rotate", 0)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
			}
			axis := kernel.Unit(kernel.AxisX)
			if v, ok := pa.kw["prod-axis"]; ok {
				if axis, err = toDirection(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("part %q: prod-axis: %w", partName, err)
				}
			}
			opts = append(opts, partlist.ProdRotation(deg, axis))
		}

		if err := parts.Add(partName, s, opts...); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	// -----------------------------------------------------------------------
	// Catalog parts: (screw "M3" 20), (nut-cutter "M3" 3 :slack 0.2),
	// (gt2-belt 10), (mgn12h-carriage), (mgn12h-rail 200).
	//
	// Registered with underscores because the preprocessor rewrites
	// kebab-case identifiers.
	// -----------------------------------------------------------------------
	env.AddFunction("screw", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("screw requires a size and a length")
		}
		size, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("screw: size: %w", err)
		}
		length, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("screw: length: %w", err)
		}
		s, err := d.CylinderScrew(size, length)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	env.AddFunction("nut_cutter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("nut-cutter requires a size and a height")
		}
		size, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("nut-cutter: size: %w", err)
		}
		height, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("nut-cutter: height: %w", err)
		}
		slack, err := pa.float("slack", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("nut-cutter: %w", err)
		}
		s, err := d.NutCutter(size, height, slack)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	env.AddFunction("gt2_belt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("gt2-belt requires a tooth count")
		}
		n, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("gt2-belt: %w", err)
		}
		s, err := d.GT2Belt(int(n))
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	env.AddFunction("mgn12h_carriage", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := d.MGN12HCarriage()
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})

	env.AddFunction("mgn12h_rail", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mgn12h-rail requires a length")
		}
		length, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mgn12h-rail: %w", err)
		}
		s, err := d.MGN12HRail(length)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s}, nil
	})
}
