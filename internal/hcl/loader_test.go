package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_PluginBlocks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "compose.hcl", `
		plugin "memstore" {
			enabled = true
			options {
				capacity = 64
			}
		}

		plugin "yamlstore" {
			enabled = false
		}
	`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Contains(t, model.Plugins, "memstore")
	mem := model.Plugins["memstore"]
	assert.True(t, mem.Enabled)
	assert.True(t, mem.Options["capacity"].RawEquals(cty.NumberIntVal(64)))

	require.Contains(t, model.Plugins, "yamlstore")
	assert.False(t, model.PluginEnabled("yamlstore"))

	// Plugins absent from the manifest default to enabled with no options.
	assert.True(t, model.PluginEnabled("unlisted"))
	assert.Nil(t, model.OptionsFor("unlisted"))
}

func TestLoad_SingleFilePath(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, t.TempDir(), "one.hcl", `plugin "memstore" {}`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, model.Plugins, "memstore")
	assert.True(t, model.PluginEnabled("memstore"))
}

func TestLoad_ParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "broken.hcl", `plugin "memstore" {`)

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_DuplicatePluginRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "a.hcl", `plugin "memstore" {}`)
	writeManifest(t, dir, "b.hcl", `plugin "memstore" {}`)

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configured more than once")
}
