package app

import (
	"sort"

	"github.com/vk/opmix/internal/bundle"
)

// TypeReport describes the composed operation set of one entity type.
type TypeReport struct {
	Type    string   `json:"type"`
	Slots   []string `json:"slots"`
	Bundles int      `json:"bundles"`
}

// GroupReport describes one registered contribution group.
type GroupReport struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Report is the composition summary exposed on the report endpoint and
// logged after startup.
type Report struct {
	Groups []GroupReport `json:"groups"`
	Types  []TypeReport  `json:"types"`
}

// buildReport snapshots the registry's composition state. Types are
// sorted for stable output; groups keep registration order.
func (a *App) buildReport() *Report {
	rep := &Report{}

	for _, name := range a.registry.GroupNames() {
		g, ok := a.registry.Group(name)
		if !ok {
			continue
		}
		rep.Groups = append(rep.Groups, GroupReport{Name: name, Version: g.Version})
	}

	types := a.registry.Types()
	sort.Strings(types)
	for _, t := range types {
		bundles := a.registry.BundlesFor(t)
		tr := TypeReport{Type: t, Bundles: len(bundles)}
		if len(bundles) > 0 {
			// All bundles of a type converge; report the first one's slots.
			for _, s := range bundles[0].Filled() {
				tr.Slots = append(tr.Slots, s.String())
			}
		}
		rep.Types = append(rep.Types, tr)
	}

	return rep
}

// missingSlots lists, per type, the operation slots no plugin filled.
func (a *App) missingSlots() map[string][]string {
	missing := make(map[string][]string)
	for _, t := range a.registry.Types() {
		bundles := a.registry.BundlesFor(t)
		if len(bundles) == 0 {
			continue
		}
		for _, s := range bundle.Slots() {
			if bundles[0].Op(s) == nil {
				missing[t] = append(missing[t], s.String())
			}
		}
	}
	return missing
}
