// Package registry provides the central "glue" of the composition
// system.
//
// The Registry collects contribution groups from plugins, indexes their
// operation bundles by entity type, and on every addition replays
// pairwise bidirectional merges against the bundles already registered
// for that type. Each bundle stays a distinct object, but all bundles of
// one type converge toward the same completed operation set as merges
// propagate, subject to each bundle's own write-protection state.
//
// Intake (AddGroup/AddBundle) is synchronous and performs pure in-memory
// mutation; InitGroups is the only suspension point, running each
// group's post-merge initializer strictly one at a time in registration
// order. The Registry takes no locks: composition is expected to run on
// a single goroutine, and callers needing concurrent intake must
// serialize externally.
package registry
