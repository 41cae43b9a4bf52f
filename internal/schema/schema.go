// Package schema holds the HCL-specific structures of the composition
// manifest, decoded with gohcl before translation into the agnostic
// config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// OptionsBlock represents the content of a plugin's 'options' block.
// Its attributes are plugin-defined, so the body is kept raw.
type OptionsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Plugin represents a `plugin` block from a manifest file: one entry
// per compiled-in plugin the host should configure.
type Plugin struct {
	Name    string        `hcl:"name,label"`
	Enabled *bool         `hcl:"enabled,optional"`
	Options *OptionsBlock `hcl:"options,block"`
}

// Manifest represents the top-level structure of a manifest file.
type Manifest struct {
	Plugins []*Plugin `hcl:"plugin,block"`
	Body    hcl.Body  `hcl:",remain"`
}
