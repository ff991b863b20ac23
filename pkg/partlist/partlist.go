// Package partlist collects the named solids a design exports, together
// with their export flags.
package partlist

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mege/idexforge/pkg/composite"
	"github.com/mege/idexforge/pkg/kernel"
)

// Rotation is applied to a part before production export, for example to
// lay a plate flat on the bed.
type Rotation struct {
	Degrees float64
	Axis    kernel.Vec3
}

// Entry is one exported part.
type Entry struct {
	Name             string
	Solid            kernel.Solid
	SkipInProduction bool
	Flip             bool
	Color            string // "#rrggbb", empty for the palette default
	ProdRotation     *Rotation
}

// Option sets export flags on an Entry.
type Option func(*Entry)

// SkipInProduction marks a part as context only.
func SkipInProduction() Option {
	return func(e *Entry) { e.SkipInProduction = true }
}

// Flip requests the part be flipped upside down for printing.
func Flip() Option {
	return func(e *Entry) { e.Flip = true }
}

// Color sets the display color.
func Color(hex string) Option {
	return func(e *Entry) { e.Color = hex }
}

// ProdRotation rotates the part by degrees about axis in production export.
func ProdRotation(degrees float64, axis kernel.Vec3) Option {
	return func(e *Entry) { e.ProdRotation = &Rotation{Degrees: degrees, Axis: axis} }
}

// List is an ordered set of uniquely named entries.
type List struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty list.
func New() *List {
	return &List{index: make(map[string]int)}
}

// Add appends a part. A taken name returns *composite.DuplicateNameError
// with role "part".
func (l *List) Add(name string, s kernel.Solid, opts ...Option) error {
	if _, taken := l.index[name]; taken {
		return &composite.DuplicateNameError{Role: "part", Name: name}
	}
	e := Entry{Name: name, Solid: s}
	for _, opt := range opts {
		opt(&e)
	}
	l.index[name] = len(l.entries)
	l.entries = append(l.entries, e)
	return nil
}

// AddComposite exports a composite part: the leader as prefix, each
// follower as prefix_name and each non-production solid as prefix_name
// flagged SkipInProduction. Unnamed followers are exported as prefix_<i>
// and unnamed non-production solids as prefix_non_production_<i>, where i
// is the member's position within its role. Cutters are never exported.
// opts apply to the leader only. Nothing is added if any name collides.
func (l *List) AddComposite(prefix string, p *composite.Part, opts ...Option) error {
	type pending struct {
		name string
		s    kernel.Solid
		opts []Option
	}
	items := []pending{{name: prefix, s: p.Leader(), opts: opts}}
	seen := map[string]int{}
	for _, ns := range p.NamedSolids() {
		i := seen[ns.Role]
		seen[ns.Role]++
		switch ns.Role {
		case composite.RoleFollower:
			items = append(items, pending{name: memberName(prefix, ns, i, false), s: ns.Solid})
		case composite.RoleNonProduction:
			items = append(items, pending{name: memberName(prefix, ns, i, true), s: ns.Solid, opts: []Option{SkipInProduction()}})
		}
	}

	names := lo.Map(items, func(it pending, _ int) string { return it.name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return &composite.DuplicateNameError{Role: "part", Name: dups[0]}
	}
	for _, n := range names {
		if _, taken := l.index[n]; taken {
			return &composite.DuplicateNameError{Role: "part", Name: n}
		}
	}
	for _, it := range items {
		_ = l.Add(it.name, it.s, it.opts...)
	}
	return nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in insertion order.
func (l *List) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Names returns the entry names in insertion order.
func (l *List) Names() []string {
	return lo.Map(l.entries, func(e Entry, _ int) string { return e.Name })
}

// ForExport returns the entries to export. In production mode parts marked
// SkipInProduction are dropped.
func (l *List) ForExport(production bool) []Entry {
	if !production {
		return l.Entries()
	}
	return lo.Reject(l.entries, func(e Entry, _ int) bool { return e.SkipInProduction })
}

// Get returns the entry stored under name.
func (l *List) Get(name string) (Entry, bool) {
	i, ok := l.index[name]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

func memberName(prefix string, ns composite.NamedSolid, i int, tagRole bool) string {
	switch {
	case ns.Name != "":
		return prefix + "_" + ns.Name
	case tagRole:
		return fmt.Sprintf("%s_%s_%d", prefix, ns.Role, i)
	default:
		return fmt.Sprintf("%s_%d", prefix, i)
	}
}
