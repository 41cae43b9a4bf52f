// Package bundle defines the leaf unit of the composition system: a
// per-entity-type carrier of up to four CRUD-style operations
// (make/get/set/del), each slot individually write-protected.
//
// Bundles from different plugins that share an entity type are merged
// pairwise by the registry until all of them converge on the same
// completed operation set. The no-override rule applies throughout: a
// filled slot is replaced only after an explicit Unprotect, and every
// successful replacement re-protects the slot, so one Unprotect buys
// exactly one overwrite.
package bundle
