package catalog

import "sort"

// ClearanceKind selects the fit of a clearance hole.
type ClearanceKind string

const (
	ClearanceClose  ClearanceKind = "close"
	ClearanceNormal ClearanceKind = "normal"
	ClearanceLoose  ClearanceKind = "loose"
)

// Screw holds the hole and head dimensions of a metric screw size.
type Screw struct {
	Size                 string  `yaml:"-"`
	ClearanceHoleClose   float64 `yaml:"clearance_hole_close"`
	ClearanceHoleNormal  float64 `yaml:"clearance_hole_normal"`
	ClearanceHoleLoose   float64 `yaml:"clearance_hole_loose"`
	CoreHole             float64 `yaml:"core_hole"`
	CylinderHeadDiameter float64 `yaml:"cylinder_head_diameter"`
	CylinderHeadHeight   float64 `yaml:"cylinder_head_height"`
	NutWidth             float64 `yaml:"nut_width"` // across flats
	NutThickness         float64 `yaml:"nut_thickness"`
}

// ClearanceHole returns the clearance hole diameter for kind. Unknown kinds
// fall back to the normal fit.
func (s Screw) ClearanceHole(kind ClearanceKind) float64 {
	switch kind {
	case ClearanceClose:
		return s.ClearanceHoleClose
	case ClearanceLoose:
		return s.ClearanceHoleLoose
	default:
		return s.ClearanceHoleNormal
	}
}

// ScrewBySize returns the dimensions for a size such as "M3".
func ScrewBySize(size string) (Screw, error) {
	t, err := load()
	if err != nil {
		return Screw{}, err
	}
	s, ok := t.Screws[size]
	if !ok {
		return Screw{}, &UnknownVariantError{Catalog: "screw", Variant: size}
	}
	return s, nil
}

// ScrewSizes lists the known screw sizes in ascending order.
func ScrewSizes() []string {
	t, err := load()
	if err != nil {
		return nil
	}
	sizes := make([]string, 0, len(t.Screws))
	for s := range t.Screws {
		sizes = append(sizes, s)
	}
	sort.Strings(sizes)
	return sizes
}
