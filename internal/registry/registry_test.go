package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/plugin"
)

func markerOp(tag string) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		return tag, nil
	}
}

func opTag(t *testing.T, b *bundle.Bundle, s bundle.Slot) string {
	t.Helper()
	op := b.Op(s)
	require.NotNil(t, op, "slot %s should hold an operation", s)
	out, err := op(context.Background())
	require.NoError(t, err)
	return out.(string)
}

func TestAddBundle_ComplementarySlotsConverge(t *testing.T) {
	t.Parallel()

	r := New()
	a := bundle.New("T", bundle.Ops{Make: markerOp("fnA")})
	b := bundle.New("T", bundle.Ops{Get: markerOp("fnB")})

	require.NoError(t, r.AddBundle(a))
	require.NoError(t, r.AddBundle(b))

	assert.Equal(t, "fnB", opTag(t, a, bundle.Get))
	assert.Equal(t, "fnA", opTag(t, b, bundle.Make))
	assert.Equal(t, "fnA", opTag(t, a, bundle.Make))
	assert.Equal(t, "fnB", opTag(t, b, bundle.Get))
}

func TestAddBundle_TypesStayIsolated(t *testing.T) {
	t.Parallel()

	r := New()
	w1 := bundle.New("Widget", bundle.Ops{Make: markerOp("w-make")})
	w2 := bundle.New("Widget", bundle.Ops{Get: markerOp("w-get")})
	gadget := bundle.New("Gadget", bundle.Ops{Set: markerOp("g-set")})

	require.NoError(t, r.AddBundle(w1))
	require.NoError(t, r.AddBundle(w2))
	require.NoError(t, r.AddBundle(gadget))

	// The gadget bundle is untouched by either widget bundle.
	assert.Nil(t, gadget.Op(bundle.Make))
	assert.Nil(t, gadget.Op(bundle.Get))
	assert.Equal(t, "g-set", opTag(t, gadget, bundle.Set))

	assert.Len(t, r.BundlesFor("Widget"), 2)
	assert.Len(t, r.BundlesFor("Gadget"), 1)
}

func TestAddBundle_MissingType(t *testing.T) {
	t.Parallel()

	r := New()

	err := r.AddBundle(bundle.New("", bundle.Ops{Make: markerOp("m")}))
	assert.ErrorIs(t, err, ErrMissingType)

	err = r.AddBundle(nil)
	assert.ErrorIs(t, err, ErrMissingType)

	// Nothing was indexed under any key.
	assert.Empty(t, r.Types())
}

func TestAddGroup_ProtectedSlotRefusesLaterGroup(t *testing.T) {
	t.Parallel()

	x1 := bundle.New("X", bundle.Ops{Make: markerOp("fn1")})
	g1 := plugin.NewGroup(plugin.GroupSpec{
		Name:    "P1",
		Bundles: []plugin.Member{{Name: "X", Bundle: x1}},
	})

	x2 := bundle.New("X", bundle.Ops{Make: markerOp("fn2")})
	g2 := plugin.NewGroup(plugin.GroupSpec{
		Name:    "P2",
		Bundles: []plugin.Member{{Name: "X", Bundle: x2}},
	})

	r := New()
	require.NoError(t, r.AddGroup(g1))
	require.NoError(t, r.AddGroup(g2))

	// First write wins: X from P1 still holds fn1 for make.
	assert.Equal(t, "fn1", opTag(t, x1, bundle.Make))
	// And the newcomer converged to it too.
	assert.Equal(t, "fn1", opTag(t, x2, bundle.Make))
}

func TestAddGroup_AllowOverrideAllYields(t *testing.T) {
	t.Parallel()

	incumbent := bundle.New("X", bundle.Ops{Make: markerOp("incumbent")})
	r := New()
	require.NoError(t, r.AddBundle(incumbent))

	yielding := bundle.New("X", bundle.Ops{Make: markerOp("yielding")})
	g := plugin.NewGroup(plugin.GroupSpec{
		Name:             "yielder",
		AllowOverrideAll: true,
		Bundles:          []plugin.Member{{Name: "X", Bundle: yielding}},
	})
	require.NoError(t, r.AddGroup(g))

	// The yielding bundle's make was overridable, so it absorbed the
	// incumbent's operation; the incumbent stayed protected.
	assert.Equal(t, "incumbent", opTag(t, yielding, bundle.Make))
	assert.Equal(t, "incumbent", opTag(t, incumbent, bundle.Make))
}

func TestAddGroup_LoadGuardSkipsEntirely(t *testing.T) {
	t.Parallel()

	b := bundle.New("X", bundle.Ops{Make: markerOp("m")})
	g := plugin.NewGroup(plugin.GroupSpec{
		Name:      "guarded",
		LoadGuard: func() bool { return false },
		Bundles:   []plugin.Member{{Name: "X", Bundle: b}},
	})

	r := New()
	require.NoError(t, r.AddGroup(g))

	_, ok := r.Group("guarded")
	assert.False(t, ok, "guarded group should not be recorded")
	assert.Empty(t, r.BundlesFor("X"))
}

func TestAddGroup_NoRollbackAcrossMembers(t *testing.T) {
	t.Parallel()

	good := bundle.New("X", bundle.Ops{Make: markerOp("m")})
	bad := bundle.New("", bundle.Ops{Get: markerOp("g")})
	g := plugin.NewGroup(plugin.GroupSpec{
		Name: "partial",
		Bundles: []plugin.Member{
			{Name: "good", Bundle: good},
			{Name: "bad", Bundle: bad},
		},
	})

	r := New()
	err := r.AddGroup(g)
	require.ErrorIs(t, err, ErrMissingType)
	assert.ErrorContains(t, err, `member "bad"`)

	// The member added before the failure stays added.
	assert.Len(t, r.BundlesFor("X"), 1)
	_, ok := r.Group("partial")
	assert.True(t, ok)
}

func TestAddGroup_DefaultNameAndOverwrite(t *testing.T) {
	t.Parallel()

	r := New()
	first := plugin.NewGroup(plugin.GroupSpec{Version: "1"})
	second := plugin.NewGroup(plugin.GroupSpec{Version: "2"})
	require.NoError(t, r.AddGroup(first))
	require.NoError(t, r.AddGroup(second))

	got, ok := r.Group(plugin.DefaultName)
	require.True(t, ok)
	assert.Equal(t, "2", got.Version, "last-registered group with a name wins")
	assert.Equal(t, []string{plugin.DefaultName}, r.GroupNames())
}

func TestNewFromGroups(t *testing.T) {
	t.Parallel()

	g1 := plugin.NewGroup(plugin.GroupSpec{
		Name:    "a",
		Bundles: []plugin.Member{{Name: "X", Bundle: bundle.New("X", bundle.Ops{Make: markerOp("m")})}},
	})
	g2 := plugin.NewGroup(plugin.GroupSpec{Name: "b"})

	r, err := NewFromGroups(g1, g2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.GroupNames())
	assert.Len(t, r.BundlesFor("X"), 1)
}
