package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the
// composition manifest: one entry per configured plugin.
type Model struct {
	Plugins map[string]*PluginConfig
}

// PluginConfig configures a single compiled-in plugin.
type PluginConfig struct {
	Name string

	// Enabled gates the plugin before its factory is even consulted.
	// Plugins absent from the manifest default to enabled; an explicit
	// enabled = false disables them.
	Enabled bool

	// Options carries the plugin's own settings as raw cty values. The
	// plugin's factory decodes them; the host does not interpret them.
	Options map[string]cty.Value
}

// PluginEnabled reports whether the named plugin should participate.
// Plugins without a manifest entry are enabled by default.
func (m *Model) PluginEnabled(name string) bool {
	pc, ok := m.Plugins[name]
	if !ok {
		return true
	}
	return pc.Enabled
}

// OptionsFor returns the manifest options for the named plugin, or nil
// when the plugin has no manifest entry.
func (m *Model) OptionsFor(name string) map[string]cty.Value {
	pc, ok := m.Plugins[name]
	if !ok {
		return nil
	}
	return pc.Options
}
