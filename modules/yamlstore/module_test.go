package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/plugin"
)

func buildGroup(t *testing.T, opts map[string]cty.Value) *plugin.Group {
	t.Helper()
	g, err := (&Plugin{}).Group(context.Background(), opts)
	require.NoError(t, err)
	return g
}

func TestGroup_GuardRequiresPath(t *testing.T) {
	t.Parallel()

	g := buildGroup(t, nil)
	require.NotNil(t, g.LoadGuard)
	assert.False(t, g.LoadGuard(), "missing path should skip the group")

	g = buildGroup(t, map[string]cty.Value{"path": cty.StringVal("/tmp/profiles.yaml")})
	assert.True(t, g.LoadGuard())
}

func TestGroup_RejectsNonStringPath(t *testing.T) {
	t.Parallel()

	_, err := (&Plugin{}).Group(context.Background(), map[string]cty.Value{
		"path": cty.NumberIntVal(7),
	})
	assert.ErrorContains(t, err, "'path' must be a string")
}

func TestOperations_PersistRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	g := buildGroup(t, map[string]cty.Value{"path": cty.StringVal(path)})

	require.NoError(t, g.OnReady(ctx, g))
	profiles := g.Bundles[0].Bundle

	// make
	_, err := profiles.Op(bundle.Make)(ctx, "alice", map[string]any{"role": "admin"})
	require.NoError(t, err)

	// duplicate make fails
	_, err = profiles.Op(bundle.Make)(ctx, "alice", nil)
	assert.ErrorContains(t, err, "already exists")

	// get
	out, err := profiles.Op(bundle.Get)(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "admin", out.(map[string]any)["role"])

	// set
	_, err = profiles.Op(bundle.Set)(ctx, "alice", map[string]any{"role": "viewer"})
	require.NoError(t, err)

	// Mutations hit the disk: a fresh store sees the update.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc document
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "viewer", doc.Profiles["alice"]["role"])

	// del
	_, err = profiles.Op(bundle.Del)(ctx, "alice")
	require.NoError(t, err)
	_, err = profiles.Op(bundle.Get)(ctx, "alice")
	assert.ErrorContains(t, err, "not found")
}

func TestOnReady_LoadsExistingFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	seeded := document{Profiles: map[string]map[string]any{
		"bob": {"role": "editor"},
	}}
	data, err := yaml.Marshal(seeded)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	g := buildGroup(t, map[string]cty.Value{"path": cty.StringVal(path)})
	require.NoError(t, g.OnReady(ctx, g))

	out, err := g.Bundles[0].Bundle.Op(bundle.Get)(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "editor", out.(map[string]any)["role"])
}

func TestOnReady_MalformedFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0600))

	g := buildGroup(t, map[string]cty.Value{"path": cty.StringVal(path)})
	err := g.OnReady(ctx, g)
	assert.ErrorContains(t, err, "failed to open profile store")
}
