package catalog

import "fmt"

// ExtrusionProfile names a slotted aluminium extrusion profile by its
// cross-section in mm.
type ExtrusionProfile string

const (
	Profile2020 ExtrusionProfile = "2020"
	Profile2040 ExtrusionProfile = "2040"
	Profile3030 ExtrusionProfile = "3030"
	Profile4040 ExtrusionProfile = "4040"
)

// ExtrusionDims describes a profile cross-section. Width runs along X and
// Height along Y when the profile is extruded along Z. Slots sit on every
// GridPitch cell of each face.
type ExtrusionDims struct {
	Profile     ExtrusionProfile `yaml:"-"`
	Width       float64          `yaml:"width"`
	Height      float64          `yaml:"height"`
	GridPitch   float64          `yaml:"grid_pitch"`
	SlotOpening float64          `yaml:"slot_opening"`
	SlotInner   float64          `yaml:"slot_inner"`
	SlotDepth   float64          `yaml:"slot_depth"`
	Bore        float64          `yaml:"bore"`
}

// Dims returns the catalog entry for p.
func (p ExtrusionProfile) Dims() (ExtrusionDims, error) {
	t, err := load()
	if err != nil {
		return ExtrusionDims{}, err
	}
	d, ok := t.Extrusion[p]
	if !ok {
		return ExtrusionDims{}, &UnknownVariantError{Catalog: "extrusion", Variant: string(p)}
	}
	return d, nil
}

// Cells returns the number of grid cells along the width and height.
func (d ExtrusionDims) Cells() (nx, ny int) {
	return int(d.Width/d.GridPitch + 0.5), int(d.Height/d.GridPitch + 0.5)
}

func (d ExtrusionDims) String() string {
	return fmt.Sprintf("%s (%gx%g, slot %g)", d.Profile, d.Width, d.Height, d.SlotOpening)
}
