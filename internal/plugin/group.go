// Package plugin defines the contribution unit of the composition
// system: a named, versioned group of operation bundles plus lifecycle
// hooks (a load guard and a post-merge initializer). Groups are built by
// plugin modules and consumed exactly once by the registry.
package plugin

import (
	"context"

	"github.com/vk/opmix/internal/bundle"
)

// DefaultName is the display name used for groups that declare none.
const DefaultName = "Untitled"

// InitFunc is a group's post-merge initializer, run by the registry's
// InitGroups pass strictly one group at a time, in registration order.
type InitFunc func(ctx context.Context, g *Group, args ...any) error

// GuardFunc decides whether a group participates in composition at all.
// A false result skips the group silently; nothing is merged or indexed.
type GuardFunc func() bool

// Member is one named bundle contribution within a group. Members form
// an explicit ordered list; member names are diagnostic only, merging is
// keyed by the bundle's entity type.
type Member struct {
	Name   string
	Bundle *bundle.Bundle
}

// GroupSpec carries the construction parameters for NewGroup.
type GroupSpec struct {
	Name             string
	Version          string
	AllowOverrideAll bool
	OnReady          InitFunc
	LoadGuard        GuardFunc
	Bundles          []Member
}

// Group is a plugin's contribution: metadata plus an ordered list of
// bundle members. Immutable after registry intake except for the member
// bundles' own merge-driven mutation.
type Group struct {
	Name             string
	Version          string
	AllowOverrideAll bool
	OnReady          InitFunc
	LoadGuard        GuardFunc
	Bundles          []Member
}

// NewGroup builds a group from spec. A missing name falls back to
// DefaultName. When AllowOverrideAll is set, every member bundle has all
// four write-protection flags cleared before the group is ever merged,
// so the group's operations yield to whatever is already registered.
func NewGroup(spec GroupSpec) *Group {
	g := &Group{
		Name:             spec.Name,
		Version:          spec.Version,
		AllowOverrideAll: spec.AllowOverrideAll,
		OnReady:          spec.OnReady,
		LoadGuard:        spec.LoadGuard,
		Bundles:          spec.Bundles,
	}
	if g.Name == "" {
		g.Name = DefaultName
	}
	if g.AllowOverrideAll {
		for _, m := range g.Bundles {
			if m.Bundle != nil {
				m.Bundle.Unprotect()
			}
		}
	}
	return g
}
