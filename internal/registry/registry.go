package registry

import (
	"errors"
	"fmt"
	"log/slog"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/plugin"
)

// ErrMissingType is returned by AddBundle when a bundle carries no
// entity type. Such a bundle is never indexed under any key.
var ErrMissingType = errors.New("bundle has no entity type")

// Registry indexes operation bundles by entity type and keeps every
// registered contribution group, in registration order.
type Registry struct {
	// groups preserves registration order so InitGroups runs
	// initializers deterministically. Re-registering a name replaces
	// the stored group but keeps its original position; merges already
	// performed for the earlier group are not undone.
	groups *orderedmap.OrderedMap[string, *plugin.Group]

	// bundlesByType holds all bundles of each type in registration
	// order. Invariant: every bundle here has been bidirectionally
	// merged with every same-type bundle registered before it.
	bundlesByType map[string][]*bundle.Bundle
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		groups:        orderedmap.New[string, *plugin.Group](),
		bundlesByType: make(map[string][]*bundle.Bundle),
	}
}

// NewFromGroups creates a Registry pre-seeded with the given groups,
// registered in order. The first intake failure aborts registration;
// groups already registered stay registered.
func NewFromGroups(groups ...*plugin.Group) (*Registry, error) {
	r := New()
	for _, g := range groups {
		if err := r.AddGroup(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddGroup registers a contribution group and feeds its member bundles
// to AddBundle in order. A load guard returning false skips the group
// entirely: nothing is recorded, merged, or indexed, and no error is
// reported. A member intake failure stops the remaining members but
// does not roll back members already added.
func (r *Registry) AddGroup(g *plugin.Group) error {
	if g == nil {
		return errors.New("cannot register a nil group")
	}

	name := g.Name
	if name == "" {
		name = plugin.DefaultName
	}

	if g.LoadGuard != nil && !g.LoadGuard() {
		slog.Debug("Skipping group: load guard declined.", "group", name)
		return nil
	}

	r.groups.Set(name, g)
	slog.Debug("Registering group.", "group", name, "version", g.Version, "bundles", len(g.Bundles))

	for _, m := range g.Bundles {
		if err := r.AddBundle(m.Bundle); err != nil {
			return fmt.Errorf("group %q: member %q: %w", name, m.Name, err)
		}
	}
	return nil
}

// AddBundle indexes a bundle under its entity type, first merging it
// bidirectionally with every same-type bundle registered earlier: the
// newcomer absorbs what the existing bundles hold, then each existing
// bundle absorbs what the newcomer contributes, both subject to each
// side's write-protection state.
func (r *Registry) AddBundle(b *bundle.Bundle) error {
	if b == nil || b.Type() == "" {
		return ErrMissingType
	}

	for _, existing := range r.bundlesByType[b.Type()] {
		b.MergeAll(existing)
		existing.MergeAll(b)
	}
	r.bundlesByType[b.Type()] = append(r.bundlesByType[b.Type()], b)

	slog.Debug("Registered bundle.", "type", b.Type(), "registered", len(r.bundlesByType[b.Type()]))
	return nil
}

// Group returns the registered group with the given name, if any.
func (r *Registry) Group(name string) (*plugin.Group, bool) {
	return r.groups.Get(name)
}

// GroupNames returns the registered group names in registration order.
func (r *Registry) GroupNames() []string {
	names := make([]string, 0, r.groups.Len())
	for pair := r.groups.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Types returns every entity type with at least one registered bundle.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.bundlesByType))
	for t := range r.bundlesByType {
		types = append(types, t)
	}
	return types
}

// BundlesFor returns the registered bundles of the given entity type in
// registration order. The returned slice is the registry's own; callers
// must treat it as read-only.
func (r *Registry) BundlesFor(entityType string) []*bundle.Bundle {
	return r.bundlesByType[entityType]
}
