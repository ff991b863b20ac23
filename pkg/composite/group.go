package composite

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mege/idexforge/pkg/kernel"
)

// group is an ordered list of solids with a parallel name index. Unnamed
// entries have an empty name and are absent from the index.
type group struct {
	role   string
	solids []kernel.Solid
	names  []string
	index  map[string]int
}

func newGroup(role string) group {
	return group{role: role, index: make(map[string]int)}
}

func (g *group) add(name string, s kernel.Solid) error {
	if s == nil {
		return ErrNilSolid
	}
	if name != "" {
		if _, taken := g.index[name]; taken {
			return &DuplicateNameError{Role: g.role, Name: name}
		}
		g.index[name] = len(g.solids)
	}
	g.solids = append(g.solids, s)
	g.names = append(g.names, name)
	return nil
}

func (g *group) lookup(name string) (int, error) {
	i, ok := g.index[name]
	if !ok {
		return -1, &NameNotFoundError{Role: g.role, Name: name}
	}
	return i, nil
}

func (g *group) get(name string) (kernel.Solid, error) {
	i, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	return g.solids[i], nil
}

func (g *group) replace(name string, s kernel.Solid) error {
	i, err := g.lookup(name)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNilSolid
	}
	g.solids[i] = s
	return nil
}

func (g *group) namedOnly() []string {
	return lo.Filter(g.names, func(n string, _ int) bool { return n != "" })
}

func (g *group) transform(f func(kernel.Solid) kernel.Solid) {
	for i, s := range g.solids {
		g.solids[i] = f(s)
	}
}

func (g *group) clone() group {
	return group{
		role:   g.role,
		solids: slices.Clone(g.solids),
		names:  slices.Clone(g.names),
		index:  lo.Assign(g.index),
	}
}
