package plugin

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Factory is the interface all compiled-in plugin modules implement so
// the host can build their contribution groups. Options come from the
// plugin's manifest block and are decoded by the module itself.
type Factory interface {
	// Name is the manifest-facing plugin name.
	Name() string

	// Group builds the plugin's contribution group from manifest options.
	Group(ctx context.Context, opts map[string]cty.Value) (*Group, error)
}
