// Package composite models a part assembled from one leader solid plus
// ordered, optionally named followers, cutters and non-production solids.
//
// The leader is the printed body and the reference for alignment. Followers
// travel with the leader and are exported as separate bodies. Cutters travel
// with the leader and are subtracted from other parts through UseAsCutterOn.
// Non-production solids (bought parts, visual context) travel with the
// leader but are excluded from production export.
//
// A Part is not safe for concurrent mutation.
package composite

import (
	"errors"
	"fmt"
	"maps"

	"github.com/mege/idexforge/pkg/align"
	"github.com/mege/idexforge/pkg/collector"
	"github.com/mege/idexforge/pkg/kernel"
)

var (
	// ErrNoLeader is returned by New and ReplaceLeader when the leader is
	// nil.
	ErrNoLeader = errors.New("composite: leader is required")

	// ErrNilSolid is returned when a nil follower, cutter or non-production
	// solid is added or swapped in.
	ErrNilSolid = errors.New("composite: solid is required")
)

// Part is a leader solid with its followers, cutters and non-production
// solids. Names are unique within each role; iteration keeps insertion
// order.
type Part struct {
	leader        kernel.Solid
	followers     group
	cutters       group
	nonProduction group

	// AdditionalData carries design parameters alongside the geometry
	// (clearances, motor type). It is never interpreted by this package.
	AdditionalData map[string]any
}

// Option configures a Part at construction.
type Option func(*Part) error

// WithFollower adds a follower. An empty name leaves it unnamed.
func WithFollower(name string, s kernel.Solid) Option {
	return func(p *Part) error { return p.followers.add(name, s) }
}

// WithCutter adds a cutter. An empty name leaves it unnamed.
func WithCutter(name string, s kernel.Solid) Option {
	return func(p *Part) error { return p.cutters.add(name, s) }
}

// WithNonProduction adds a non-production solid. An empty name leaves it
// unnamed.
func WithNonProduction(name string, s kernel.Solid) Option {
	return func(p *Part) error { return p.nonProduction.add(name, s) }
}

// WithData merges entries into AdditionalData.
func WithData(data map[string]any) Option {
	return func(p *Part) error {
		maps.Copy(p.AdditionalData, data)
		return nil
	}
}

// New builds a Part around leader. If any option fails, for example on a
// duplicate name, no Part is returned.
func New(leader kernel.Solid, opts ...Option) (*Part, error) {
	if leader == nil {
		return nil, ErrNoLeader
	}
	p := &Part{
		leader:         leader,
		followers:      newGroup(RoleFollower),
		cutters:        newGroup(RoleCutter),
		nonProduction:  newGroup(RoleNonProduction),
		AdditionalData: make(map[string]any),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Leader returns the leader solid.
func (p *Part) Leader() kernel.Solid {
	return p.leader
}

// ReplaceLeader swaps in a new leader, typically the old leader after a
// boolean cut. A nil leader is rejected and p is left unchanged.
func (p *Part) ReplaceLeader(s kernel.Solid) error {
	if s == nil {
		return ErrNoLeader
	}
	p.leader = s
	return nil
}

// AddFollower appends an unnamed follower. A nil solid is ignored.
func (p *Part) AddFollower(s kernel.Solid) {
	_ = p.followers.add("", s)
}

// AddCutter appends an unnamed cutter. A nil solid is ignored.
func (p *Part) AddCutter(s kernel.Solid) {
	_ = p.cutters.add("", s)
}

// AddNonProduction appends an unnamed non-production solid. A nil solid is
// ignored.
func (p *Part) AddNonProduction(s kernel.Solid) {
	_ = p.nonProduction.add("", s)
}

// AddNamedFollower appends a follower under name. It returns a
// *DuplicateNameError when name is taken and ErrNilSolid when s is nil,
// leaving p unchanged in both cases.
func (p *Part) AddNamedFollower(name string, s kernel.Solid) error {
	return p.followers.add(name, s)
}

// AddNamedCutter appends a cutter under name.
func (p *Part) AddNamedCutter(name string, s kernel.Solid) error {
	return p.cutters.add(name, s)
}

// AddNamedNonProduction appends a non-production solid under name.
func (p *Part) AddNamedNonProduction(name string, s kernel.Solid) error {
	return p.nonProduction.add(name, s)
}

// FollowerByName returns the follower registered under name, or a
// *NameNotFoundError.
func (p *Part) FollowerByName(name string) (kernel.Solid, error) {
	return p.followers.get(name)
}

// CutterByName returns the cutter registered under name.
func (p *Part) CutterByName(name string) (kernel.Solid, error) {
	return p.cutters.get(name)
}

// NonProductionByName returns the non-production solid registered under
// name.
func (p *Part) NonProductionByName(name string) (kernel.Solid, error) {
	return p.nonProduction.get(name)
}

// FollowerIndex returns the position of the named follower in Followers.
func (p *Part) FollowerIndex(name string) (int, error) {
	return p.followers.lookup(name)
}

// CutterIndex returns the position of the named cutter in Cutters.
func (p *Part) CutterIndex(name string) (int, error) {
	return p.cutters.lookup(name)
}

// NonProductionIndex returns the position of the named solid in
// NonProduction.
func (p *Part) NonProductionIndex(name string) (int, error) {
	return p.nonProduction.lookup(name)
}

// ReplaceFollower swaps the solid stored under name, keeping its position.
// A nil solid is rejected with ErrNilSolid.
func (p *Part) ReplaceFollower(name string, s kernel.Solid) error {
	return p.followers.replace(name, s)
}

// ReplaceCutter swaps the cutter stored under name, keeping its position.
func (p *Part) ReplaceCutter(name string, s kernel.Solid) error {
	return p.cutters.replace(name, s)
}

// Followers returns a copy of the followers in insertion order.
func (p *Part) Followers() []kernel.Solid {
	return append([]kernel.Solid(nil), p.followers.solids...)
}

// Cutters returns a copy of the cutters in insertion order.
func (p *Part) Cutters() []kernel.Solid {
	return append([]kernel.Solid(nil), p.cutters.solids...)
}

// NonProduction returns a copy of the non-production solids in insertion
// order.
func (p *Part) NonProduction() []kernel.Solid {
	return append([]kernel.Solid(nil), p.nonProduction.solids...)
}

// FollowerNames returns the names of the named followers in order.
func (p *Part) FollowerNames() []string {
	return p.followers.namedOnly()
}

// CutterNames returns the names of the named cutters in order.
func (p *Part) CutterNames() []string {
	return p.cutters.namedOnly()
}

// NonProductionNames returns the names of the named non-production solids
// in order.
func (p *Part) NonProductionNames() []string {
	return p.nonProduction.namedOnly()
}

// BoundingBox returns the leader's bounding box. Followers, cutters and
// non-production solids do not contribute.
func (p *Part) BoundingBox() kernel.BoundingBox {
	return p.leader.BoundingBox()
}

// UseAsCutterOn returns target with every cutter subtracted. p is not
// modified. With no cutters target is returned as is.
func (p *Part) UseAsCutterOn(k kernel.Kernel, target kernel.Solid) kernel.Solid {
	for _, c := range p.cutters.solids {
		target = k.Difference(target, c)
	}
	return target
}

// UseNamedCutterOn subtracts only the named cutter from target.
func (p *Part) UseNamedCutterOn(k kernel.Kernel, name string, target kernel.Solid) (kernel.Solid, error) {
	c, err := p.cutters.get(name)
	if err != nil {
		return nil, err
	}
	return k.Difference(target, c), nil
}

func (p *Part) transform(f func(kernel.Solid) kernel.Solid) {
	p.leader = f(p.leader)
	p.followers.transform(f)
	p.cutters.transform(f)
	p.nonProduction.transform(f)
}

// Translate moves the leader and every member solid by v in place.
func (p *Part) Translate(k kernel.Kernel, v kernel.Vec3) *Part {
	if v.IsZero() {
		return p
	}
	p.transform(func(s kernel.Solid) kernel.Solid { return k.Translate(s, v) })
	return p
}

// Rotate turns the leader and every member solid by degrees about the line
// through pivot along axis, in place.
func (p *Part) Rotate(k kernel.Kernel, pivot, axis kernel.Vec3, degrees float64) *Part {
	p.transform(func(s kernel.Solid) kernel.Solid { return k.Rotate(s, pivot, axis, degrees) })
	return p
}

// Mirror reflects the leader and every member solid across the plane
// through point with the given normal, in place.
func (p *Part) Mirror(k kernel.Kernel, normal, point kernel.Vec3) *Part {
	p.transform(func(s kernel.Solid) kernel.Solid { return k.Mirror(s, normal, point) })
	return p
}

// Align moves the whole part so that the leader's bounding box satisfies
// alignment relative to ref. A nil ref stands for the world origin.
func (p *Part) Align(k kernel.Kernel, ref kernel.Bounded, alignment align.Alignment, opts ...align.Option) error {
	d, err := align.Offset(p.BoundingBox(), align.RefBox(ref), alignment, opts...)
	if err != nil {
		return fmt.Errorf("align %s: %w", alignment, err)
	}
	p.Translate(k, d)
	return nil
}

// LeaderWithFollowers fuses the leader with followers for display. With no
// names every follower is fused; otherwise only the named ones.
func (p *Part) LeaderWithFollowers(k kernel.Kernel, names ...string) (kernel.Solid, error) {
	c := collector.New(k).Fuse(p.leader)
	if len(names) == 0 {
		for _, s := range p.followers.solids {
			c.Fuse(s)
		}
	} else {
		for _, name := range names {
			s, err := p.followers.get(name)
			if err != nil {
				return nil, err
			}
			c.Fuse(s)
		}
	}
	s, _ := c.Part()
	return s, nil
}

// NamedSolid is one member of a Part, flattened for export.
type NamedSolid struct {
	Role  string
	Name  string
	Solid kernel.Solid
}

// NamedSolids flattens p into role/name/solid triples: the leader first,
// then followers, cutters and non-production solids in insertion order.
// Unnamed members have an empty Name.
func (p *Part) NamedSolids() []NamedSolid {
	out := []NamedSolid{{Role: RoleLeader, Solid: p.leader}}
	for _, g := range []*group{&p.followers, &p.cutters, &p.nonProduction} {
		for i, s := range g.solids {
			out = append(out, NamedSolid{Role: g.role, Name: g.names[i], Solid: s})
		}
	}
	return out
}

// Clone returns an independent copy of p. Solids are immutable values and
// are shared; the lists, indexes and AdditionalData map are not.
func (p *Part) Clone() *Part {
	return &Part{
		leader:         p.leader,
		followers:      p.followers.clone(),
		cutters:        p.cutters.clone(),
		nonProduction:  p.nonProduction.clone(),
		AdditionalData: maps.Clone(p.AdditionalData),
	}
}
