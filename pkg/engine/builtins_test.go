package engine

import (
	"math"
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mege/idexforge/pkg/kernel"
	"github.com/mege/idexforge/pkg/partlist"
)

const tol = 1e-6

func mustEvaluate(t *testing.T, source string) *partlist.List {
	t.Helper()
	parts, evalErrs, err := newEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if parts == nil {
		t.Fatal("expected non-nil part list")
	}
	return parts
}

func partBox(t *testing.T, parts *partlist.List, name string) kernel.BoundingBox {
	t.Helper()
	e, ok := parts.Get(name)
	if !ok {
		t.Fatalf("expected part named %q, have %v", name, parts.Names())
	}
	return e.Solid.BoundingBox()
}

func assertBox(t *testing.T, got kernel.BoundingBox, wantMin, wantMax kernel.Vec3) {
	t.Helper()
	for _, a := range kernel.AllAxes {
		if math.Abs(got.Lo(a)-wantMin.Get(a)) > tol {
			t.Errorf("min.%s = %f, expected %f", a, got.Lo(a), wantMin.Get(a))
		}
		if math.Abs(got.Hi(a)-wantMax.Get(a)) > tol {
			t.Errorf("max.%s = %f, expected %f", a, got.Hi(a), wantMax.Get(a))
		}
	}
}

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(part "plate" s :color "#ccccff")`,
			expect: `(part "plate" s "__kw_color" "#ccccff")`,
		},
		{
			name:   "keyword as value",
			input:  `(align s ref :to :stack-top :gap 2)`,
			expect: `(align s ref "__kw_to" "__kw_stack-top" "__kw_gap" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(nut-cutter "M3" 3 :slack 0.2)`,
			expect: `(nut_cutter "M3" 3 "__kw_slack" 0.2)`,
		},
		{
			name:   "digit before hyphen",
			input:  `(gt2-belt 5)`,
			expect: `(gt2_belt 5)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:skip-in-production`,
			expect: `"__kw_skip-in-production"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpStr{S: "plate"},
		&zygo.SexpStr{S: kwPrefix + "gap"},
		&zygo.SexpInt{Val: 2},
		&zygo.SexpStr{S: kwPrefix + "flip"},
	}
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		t.Fatalf("expected 1 positional argument, got %d", len(pa.positional))
	}
	g, err := pa.float("gap", 0)
	if err != nil || g != 2 {
		t.Errorf("gap = %v, %v; want 2", g, err)
	}
	if d, _ := pa.float("radius", 1.5); d != 1.5 {
		t.Errorf("missing keyword should fall back to default, got %v", d)
	}
	if !pa.flag("flip") {
		t.Error("trailing keyword should read as a set flag")
	}
	if pa.flag("color") {
		t.Error("absent keyword should not read as a set flag")
	}
}

func TestToAxis(t *testing.T) {
	tests := []struct {
		name string
		in   zygo.Sexp
		want kernel.Axis
		ok   bool
	}{
		{"keyword", &zygo.SexpStr{S: kwPrefix + "y"}, kernel.AxisY, true},
		{"plain string", &zygo.SexpStr{S: "z"}, kernel.AxisZ, true},
		{"index", &zygo.SexpInt{Val: 0}, kernel.AxisX, true},
		{"bad index", &zygo.SexpInt{Val: 3}, 0, false},
		{"bad name", &zygo.SexpStr{S: kwPrefix + "w"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toAxis(tt.in)
			if tt.ok != (err == nil) {
				t.Fatalf("toAxis() error = %v, want ok=%v", err, tt.ok)
			}
			if tt.ok && got != tt.want {
				t.Errorf("toAxis() = %s, want %s", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Primitives and transforms
// ---------------------------------------------------------------------------

func TestBoxAndTranslate(t *testing.T) {
	parts := mustEvaluate(t, `(part "plate" (translate (box 10 20 5) (vec3 1 2 3)))`)
	assertBox(t, partBox(t, parts, "plate"), kernel.Vec3{X: 1, Y: 2, Z: 3}, kernel.Vec3{X: 11, Y: 22, Z: 8})
}

func TestRoundedBox(t *testing.T) {
	parts := mustEvaluate(t, `(part "flange" (box 20 10 6 :radius 1))`)
	assertBox(t, partBox(t, parts, "flange"), kernel.Vec3{}, kernel.Vec3{X: 20, Y: 10, Z: 6})
}

func TestVariableReference(t *testing.T) {
	source := `
(def t 6)
(part "plate" (box 50 40 t))
`
	parts := mustEvaluate(t, source)
	if got := partBox(t, parts, "plate").Size().Z; got != 6 {
		t.Errorf("expected thickness=6 (from variable), got %f", got)
	}
}

func TestRotateAndMirror(t *testing.T) {
	source := `
; a long bar turned onto the Y axis
(part "bar" (rotate (box 100 10 10) 90))
(part "mirrored" (mirror (translate (box 4 2 3) (vec3 1 5 7)) :x))
(part "flipped" (rotate (box 10 10 10) 180 :axis :y :pivot (vec3 5 5 5)))
`
	parts := mustEvaluate(t, source)
	assertBox(t, partBox(t, parts, "bar"), kernel.Vec3{X: -10}, kernel.Vec3{Y: 100, Z: 10})
	assertBox(t, partBox(t, parts, "mirrored"), kernel.Vec3{X: -5, Y: 5, Z: 7}, kernel.Vec3{X: -1, Y: 7, Z: 10})
	assertBox(t, partBox(t, parts, "flipped"), kernel.Vec3{}, kernel.Vec3{X: 10, Y: 10, Z: 10})
}

func TestFuseAndCut(t *testing.T) {
	source := `
(def a (box 10 10 10))
(def b (translate (box 10 10 10) (vec3 5 0 0)))
(part "fused" (fuse a b))
(part "cut" (cut a (cylinder 2 20)))
`
	parts := mustEvaluate(t, source)
	assertBox(t, partBox(t, parts, "fused"), kernel.Vec3{}, kernel.Vec3{X: 15, Y: 10, Z: 10})
	assertBox(t, partBox(t, parts, "cut"), kernel.Vec3{}, kernel.Vec3{X: 10, Y: 10, Z: 10})
}

func TestCollect(t *testing.T) {
	source := `
(part "row" (collect (list (box 1 1 1) (translate (box 1 1 1) (vec3 5 0 0)))))
`
	parts := mustEvaluate(t, source)
	assertBox(t, partBox(t, parts, "row"), kernel.Vec3{}, kernel.Vec3{X: 6, Y: 1, Z: 1})
}

func TestCollectEmptyIsNil(t *testing.T) {
	_, evalErrs, err := newEngine().Evaluate(`(part "nothing" (collect (list)))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error registering an empty collection")
	}
}

// ---------------------------------------------------------------------------
// Alignment
// ---------------------------------------------------------------------------

func TestAlignStackTop(t *testing.T) {
	source := `
(def base (box 40 40 10))
(def post (cylinder 5 20))
(part "base" base)
(part "raised" (align post base :to :stack-top :gap 2))
(part "centered" (align (align post base :axes (list :x :y)) base :to :stack-top))
`
	parts := mustEvaluate(t, source)
	assertBox(t, partBox(t, parts, "raised"), kernel.Vec3{X: -5, Y: -5, Z: 12}, kernel.Vec3{X: 5, Y: 5, Z: 32})
	assertBox(t, partBox(t, parts, "centered"), kernel.Vec3{X: 15, Y: 15, Z: 10}, kernel.Vec3{X: 25, Y: 25, Z: 30})
}

func TestAlignToPoint(t *testing.T) {
	source := `
(part "centered" (align (box 10 10 10) (vec3 0 0 0)))
(part "hanging" (align (box 10 10 10) (vec3 0 0 100) :to :stack-bottom))
(part "indexed" (align (box 10 10 10) (vec3 0 0 0) :axes (list 0 1)))
`
	parts := mustEvaluate(t, source)
	assertBox(t, partBox(t, parts, "centered"), kernel.Vec3{X: -5, Y: -5, Z: -5}, kernel.Vec3{X: 5, Y: 5, Z: 5})
	assertBox(t, partBox(t, parts, "hanging"), kernel.Vec3{Z: 90}, kernel.Vec3{X: 10, Y: 10, Z: 100})
	assertBox(t, partBox(t, parts, "indexed"), kernel.Vec3{X: -5, Y: -5}, kernel.Vec3{X: 5, Y: 5, Z: 10})
}

func TestSize(t *testing.T) {
	source := `
(def b (box 10 20 30))
(part "spacer" (box (size b :z) 1 1))
`
	parts := mustEvaluate(t, source)
	if got := partBox(t, parts, "spacer").Size().X; math.Abs(got-30) > tol {
		t.Errorf("spacer length = %f, want 30", got)
	}
}

// ---------------------------------------------------------------------------
// Part registration
// ---------------------------------------------------------------------------

func TestPartOptions(t *testing.T) {
	source := `
(def plate (box 50 6 40))
(part "plate" plate :color "#ffcccc" :flip true :prod-rotate 90 :prod-axis :x)
(part "context" (box 1 1 1) :skip-in-production true)
(part "plain" (box 1 1 1) :flip false)
`
	parts := mustEvaluate(t, source)
	if got := parts.Names(); len(got) != 3 || got[0] != "plate" || got[2] != "plain" {
		t.Fatalf("names = %v, want registration order", got)
	}

	plate, _ := parts.Get("plate")
	if plate.Color != "#ffcccc" {
		t.Errorf("color = %q, want #ffcccc", plate.Color)
	}
	if !plate.Flip {
		t.Error("expected plate to be flipped")
	}
	if plate.ProdRotation == nil || plate.ProdRotation.Degrees != 90 || plate.ProdRotation.Axis != kernel.Unit(kernel.AxisX) {
		t.Errorf("prod rotation = %+v, want 90 about x", plate.ProdRotation)
	}

	plain, _ := parts.Get("plain")
	if plain.Flip {
		t.Error(":flip false should leave the part unflipped")
	}

	if got := len(parts.ForExport(true)); got != 2 {
		t.Errorf("production export has %d parts, want 2", got)
	}
	if got := len(parts.ForExport(false)); got != 3 {
		t.Errorf("full export has %d parts, want 3", got)
	}
}

func TestDuplicatePartName(t *testing.T) {
	source := `
(part "plate" (box 1 1 1))
(part "plate" (box 2 2 2))
`
	parts, evalErrs, err := newEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if parts != nil {
		t.Fatal("expected nil part list on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for a duplicate part name")
	}
	t.Logf("duplicate name error: %v", evalErrs[0])
}

// ---------------------------------------------------------------------------
// Catalog parts
// ---------------------------------------------------------------------------

func TestCatalogBuiltins(t *testing.T) {
	source := `
(part "screw" (screw "M3" 20))
(part "nut" (nut-cutter "M3" 3 :slack 0.2))
(part "belt" (gt2-belt 5))
(part "carriage" (mgn12h-carriage))
(part "rail" (mgn12h-rail 120))
`
	parts := mustEvaluate(t, source)
	if got := parts.Len(); got != 5 {
		t.Fatalf("expected 5 parts, got %d", got)
	}
	if got := partBox(t, parts, "screw").Lo(kernel.AxisZ); math.Abs(got+20) > tol {
		t.Errorf("screw shank bottom = %f, want -20", got)
	}
	if got := partBox(t, parts, "rail").Size().X; math.Abs(got-120) > tol {
		t.Errorf("rail length = %f, want 120", got)
	}
}

// ---------------------------------------------------------------------------
// Errors surface as eval errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"degenerate box", `(box 0 1 1)`},
		{"box missing size", `(box 1 2)`},
		{"cylinder missing height", `(cylinder 1)`},
		{"unknown alignment", `(align (box 1 1 1) (box 1 1 1) :to :sideways)`},
		{"translate by number", `(translate (box 1 1 1) 5)`},
		{"rotate bad axis", `(rotate (box 1 1 1) 90 :axis :w)`},
		{"part without solid", `(part "x" 5)`},
		{"part without name", `(part (box 1 1 1) (box 1 1 1))`},
		{"fuse nothing", `(fuse)`},
		{"unknown screw", `(screw "M99" 10)`},
		{"belt without teeth", `(gt2-belt 0)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, evalErrs, err := newEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if parts != nil {
				t.Fatal("expected nil part list on eval error")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Plain arithmetic still works (regression)
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	parts := mustEvaluate(t, "(+ 1 2)")
	if parts.Len() != 0 {
		t.Errorf("expected no parts, got %d", parts.Len())
	}
}
