package catalog

import "slices"

// NemaSize names a NEMA stepper motor frame size.
type NemaSize string

const (
	NEMA14 NemaSize = "NEMA14"
	NEMA17 NemaSize = "NEMA17"
	NEMA23 NemaSize = "NEMA23"
	NEMA34 NemaSize = "NEMA34"
)

// NemaField names one optional NEMA dimension.
type NemaField string

const (
	NemaFaceSize          NemaField = "size"
	NemaHoleDist          NemaField = "hole_dist"
	NemaClearanceDiameter NemaField = "clearance_diameter"
	NemaTapDrillDiameter  NemaField = "tap_drill_diameter"
	NemaHoleDepth         NemaField = "hole_depth"
	NemaAxleDiameter      NemaField = "axle_diameter"
	NemaAxleLength        NemaField = "axle_length"
	NemaThick             NemaField = "thick"
	NemaCouplerLength     NemaField = "coupler_length"
	NemaCouplerDiameter   NemaField = "coupler_diameter"
	NemaConnectorLength   NemaField = "connector_length"
	NemaConnectorThick    NemaField = "connector_thick"
	NemaPilotDiameter     NemaField = "pilot_diameter"
	NemaPilotDepth        NemaField = "pilot_depth"
	NemaDiscThick         NemaField = "disc_thick"
)

// NemaDims holds the typical dimensions of a NEMA frame size. Nil fields
// are unknown for the variant; read them through Get.
type NemaDims struct {
	Variant              NemaSize  `yaml:"-"`
	ScrewSize            string    `yaml:"screw_size"`
	AxleDiameterVariants []float64 `yaml:"axle_diameter_variants"`
	ThickVariants        []float64 `yaml:"thick_variants"`

	Size              *float64 `yaml:"size"`
	HoleDist          *float64 `yaml:"hole_dist"`
	ClearanceDiameter *float64 `yaml:"clearance_diameter"`
	TapDrillDiameter  *float64 `yaml:"tap_drill_diameter"`
	HoleDepth         *float64 `yaml:"hole_depth"`
	AxleDiameter      *float64 `yaml:"axle_diameter"`
	AxleLength        *float64 `yaml:"axle_length"`
	Thick             *float64 `yaml:"thick"`
	CouplerLength     *float64 `yaml:"coupler_length"`
	CouplerDiameter   *float64 `yaml:"coupler_diameter"`
	ConnectorLength   *float64 `yaml:"connector_length"`
	ConnectorThick    *float64 `yaml:"connector_thick"`
	PilotDiameter     *float64 `yaml:"pilot_diameter"`
	PilotDepth        *float64 `yaml:"pilot_depth"`
	DiscThick         *float64 `yaml:"disc_thick"`
}

// Dims returns the catalog entry for n.
func (n NemaSize) Dims() (NemaDims, error) {
	t, err := load()
	if err != nil {
		return NemaDims{}, err
	}
	d, ok := t.Nema[n]
	if !ok {
		return NemaDims{}, &UnknownVariantError{Catalog: "nema", Variant: string(n)}
	}
	return d.clone(), nil
}

// clone copies the pointed-to values so callers cannot reach the shared
// table.
func (d NemaDims) clone() NemaDims {
	c := d
	c.AxleDiameterVariants = slices.Clone(d.AxleDiameterVariants)
	c.ThickVariants = slices.Clone(d.ThickVariants)
	for _, p := range []**float64{
		&c.Size, &c.HoleDist, &c.ClearanceDiameter, &c.TapDrillDiameter, &c.HoleDepth,
		&c.AxleDiameter, &c.AxleLength, &c.Thick, &c.CouplerLength, &c.CouplerDiameter,
		&c.ConnectorLength, &c.ConnectorThick, &c.PilotDiameter, &c.PilotDepth, &c.DiscThick,
	} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return c
}

func (d NemaDims) field(f NemaField) *float64 {
	switch f {
	case NemaFaceSize:
		return d.Size
	case NemaHoleDist:
		return d.HoleDist
	case NemaClearanceDiameter:
		return d.ClearanceDiameter
	case NemaTapDrillDiameter:
		return d.TapDrillDiameter
	case NemaHoleDepth:
		return d.HoleDepth
	case NemaAxleDiameter:
		return d.AxleDiameter
	case NemaAxleLength:
		return d.AxleLength
	case NemaThick:
		return d.Thick
	case NemaCouplerLength:
		return d.CouplerLength
	case NemaCouplerDiameter:
		return d.CouplerDiameter
	case NemaConnectorLength:
		return d.ConnectorLength
	case NemaConnectorThick:
		return d.ConnectorThick
	case NemaPilotDiameter:
		return d.PilotDiameter
	case NemaPilotDepth:
		return d.PilotDepth
	case NemaDiscThick:
		return d.DiscThick
	}
	return nil
}

// Get returns the value of f, or a *MissingDimensionError when the catalog
// has no value for this variant.
func (d NemaDims) Get(f NemaField) (float64, error) {
	if v := d.field(f); v != nil {
		return *v, nil
	}
	return 0, &MissingDimensionError{Catalog: "nema", Variant: string(d.Variant), Field: string(f)}
}

// GetOr returns the value of f, or def when it is missing.
func (d NemaDims) GetOr(f NemaField, def float64) float64 {
	if v := d.field(f); v != nil {
		return *v
	}
	return def
}

// Require returns the values of fields in order, failing on the first
// missing one.
func (d NemaDims) Require(fields ...NemaField) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := d.Get(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
