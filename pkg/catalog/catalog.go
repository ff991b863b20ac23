// Package catalog holds dimensional tables for bought hardware: metric
// screws, NEMA stepper motors and aluminium extrusion profiles.
//
// The tables are read once from an embedded YAML document and never
// mutated. Lookups return plain value structs.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type tables struct {
	Screws    map[string]Screw                   `yaml:"screws"`
	Nema      map[NemaSize]NemaDims              `yaml:"nema"`
	Extrusion map[ExtrusionProfile]ExtrusionDims `yaml:"extrusion"`
}

var load = sync.OnceValues(func() (*tables, error) {
	var t tables
	if err := yaml.Unmarshal(catalogYAML, &t); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for size, s := range t.Screws {
		s.Size = size
		t.Screws[size] = s
	}
	for size, d := range t.Nema {
		d.Variant = size
		t.Nema[size] = d
	}
	for p, d := range t.Extrusion {
		d.Profile = p
		t.Extrusion[p] = d
	}
	return &t, nil
})

// MissingDimensionError reports a catalog field that is unknown for the
// requested variant.
type MissingDimensionError struct {
	Catalog string
	Variant string
	Field   string
}

func (e *MissingDimensionError) Error() string {
	return fmt.Sprintf("%s %s: missing dimension %q", e.Catalog, e.Variant, e.Field)
}

// UnknownVariantError reports a lookup for a variant the catalog does not
// list.
type UnknownVariantError struct {
	Catalog string
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s: unknown variant %q", e.Catalog, e.Variant)
}
