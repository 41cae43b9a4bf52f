package bundle

import (
	"context"
	"log/slog"
)

// Op is a single CRUD-style operation contributed by a plugin. The core
// never invokes stored operations; it only moves them between bundles.
// Arguments and results are opaque to the composition machinery.
type Op func(ctx context.Context, args ...any) (any, error)

// Slot identifies one of the four operation slots of a bundle.
type Slot int

const (
	Make Slot = iota
	Get
	Set
	Del
)

// slots is the fixed merge order. MergeAll walks slots in this order so
// that merge outcomes are reproducible across runs.
var slots = [4]Slot{Make, Get, Set, Del}

// Slots returns the four operation slots in their fixed merge order.
func Slots() [4]Slot {
	return slots
}

// String returns the manifest-facing name of the slot.
func (s Slot) String() string {
	switch s {
	case Make:
		return "make"
	case Get:
		return "get"
	case Set:
		return "set"
	case Del:
		return "del"
	}
	return "unknown"
}

// Bundle carries up to four operations for one logical entity type.
// Each slot is independently write-protected: once a slot holds an
// operation, a merge may replace it only after an explicit Unprotect,
// and any successful replacement re-protects the slot immediately.
type Bundle struct {
	entityType string
	ops        map[Slot]Op
	protected  map[Slot]bool
}

// Ops names the initial operations for New. Nil fields leave the
// corresponding slot empty.
type Ops struct {
	Make Op
	Get  Op
	Set  Op
	Del  Op
}

// New creates a bundle for the given entity type. All four slots are
// write-protected after construction regardless of which were filled;
// initial assignment is not a merge and consumes no override allowance.
//
// An empty entityType is allowed here; the registry rejects such
// bundles at intake.
func New(entityType string, ops Ops) *Bundle {
	b := &Bundle{
		entityType: entityType,
		ops:        make(map[Slot]Op, 4),
		protected:  make(map[Slot]bool, 4),
	}
	initial := map[Slot]Op{Make: ops.Make, Get: ops.Get, Set: ops.Set, Del: ops.Del}
	for _, s := range slots {
		if op := initial[s]; op != nil {
			b.ops[s] = op
		}
		b.protected[s] = true
	}
	return b
}

// Type returns the immutable entity type label.
func (b *Bundle) Type() string {
	return b.entityType
}

// Op returns the operation held in the slot, or nil when the slot is empty.
func (b *Bundle) Op(s Slot) Op {
	return b.ops[s]
}

// Protected reports whether the slot currently refuses overwrites.
func (b *Bundle) Protected(s Slot) bool {
	return b.protected[s]
}

// Filled returns the slots that currently hold an operation, in merge order.
func (b *Bundle) Filled() []Slot {
	var filled []Slot
	for _, s := range slots {
		if b.ops[s] != nil {
			filled = append(filled, s)
		}
	}
	return filled
}

// Unprotect clears write protection so the next merge may overwrite the
// affected slots once. Called with no arguments it unprotects all four
// slots; otherwise only the named slots become overridable.
func (b *Bundle) Unprotect(affected ...Slot) {
	if len(affected) == 0 {
		affected = slots[:]
	}
	for _, s := range affected {
		b.protected[s] = false
	}
}

// MergeOne copies src's operation for the slot into b. The copy is
// refused when src has nothing to offer, or when b already holds an
// operation in a protected slot. A successful copy re-protects the
// slot, so each Unprotect allows at most one overwrite. src is never
// mutated.
func (b *Bundle) MergeOne(src *Bundle, s Slot) {
	op := src.ops[s]
	if op == nil {
		return
	}
	if b.ops[s] != nil && b.protected[s] {
		slog.Debug("Merge refused: slot is write-protected.", "type", b.entityType, "slot", s.String())
		return
	}
	b.ops[s] = op
	b.protected[s] = true
}

// MergeAll merges every slot from src into b, in the fixed slot order.
// Slot merges have no cross-slot effects; the order is fixed purely for
// deterministic behavior.
func (b *Bundle) MergeAll(src *Bundle) {
	for _, s := range slots {
		b.MergeOne(src, s)
	}
}
